package requestid

import "testing"

func TestNewIsUniqueAndNonEmpty(t *testing.T) {
	a := New()
	b := New()
	if a == "" || b == "" {
		t.Fatal("empty request id")
	}
	if a == b {
		t.Fatalf("consecutive ids collide: %q", a)
	}
}
