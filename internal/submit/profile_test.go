package submit

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestParseProfileStaticToken(t *testing.T) {
	raw := []byte("apiRoot: https://pipelines.acme.example\nauth:\n  token: abc123\n")

	p, err := ParseProfile(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.APIRoot != "https://pipelines.acme.example" {
		t.Errorf("apiRoot = %q", p.APIRoot)
	}
	if p.Auth.Token != "abc123" {
		t.Errorf("token = %q", p.Auth.Token)
	}
}

func TestParseProfileClientCredentials(t *testing.T) {
	raw := []byte(`apiRoot: https://pipelines.acme.example
auth:
  tokenUrl: https://auth.acme.example/token
  clientId: assembler
  clientSecret: s3cret
`)
	p, err := ParseProfile(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Auth.TokenURL == "" || p.Auth.ClientID == "" || p.Auth.ClientSecret == "" {
		t.Fatalf("client credentials not parsed: %+v", p.Auth)
	}
}

func TestParseProfileRejections(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"relative apiRoot", "apiRoot: pipelines.acme.example\n"},
		{"empty", ""},
		{"both auth modes", "apiRoot: https://p.example\nauth:\n  token: a\n  tokenUrl: https://t.example\n  clientId: c\n  clientSecret: s\n"},
		{"partial client credentials", "apiRoot: https://p.example\nauth:\n  tokenUrl: https://t.example\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseProfile([]byte(tc.raw)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadProfileNotFound(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("error = %v, want ErrProfileNotFound", err)
	}
}

func TestProfilePathFromEnv(t *testing.T) {
	t.Setenv("QUARRY_PROFILE", "/tmp/custom-profile.yaml")
	path, err := ProfilePath()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/tmp/custom-profile.yaml" {
		t.Fatalf("path = %q", path)
	}
}

func TestLoadProfileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	if err := os.WriteFile(path, []byte("apiRoot: https://pipelines.acme.example\n"), 0o600); err != nil {
		t.Fatalf("write profile: %v", err)
	}

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.APIRoot != "https://pipelines.acme.example" {
		t.Fatalf("apiRoot = %q", p.APIRoot)
	}
}
