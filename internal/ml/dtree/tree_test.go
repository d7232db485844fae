package dtree

import (
	"testing"
)

func separableData() ([][]float64, []string) {
	X := [][]float64{
		{0.1, 1.0}, {0.2, 1.2}, {0.15, 0.9}, {0.3, 1.1},
		{2.1, 5.0}, {2.4, 4.8}, {2.2, 5.2}, {2.6, 5.1},
	}
	y := []string{"0", "0", "0", "0", "1", "1", "1", "1"}
	return X, y
}

func TestFitAndPredictSeparable(t *testing.T) {
	X, y := separableData()
	tree, err := Fit(X, y, Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, row := range X {
		pred, err := tree.Predict(row)
		if err != nil {
			t.Fatalf("predict row %d: %v", i, err)
		}
		if pred != y[i] {
			t.Errorf("row %d predicted %q, want %q", i, pred, y[i])
		}
	}
}

func TestAccuracyIsFraction(t *testing.T) {
	X, y := separableData()
	tree, err := Fit(X, y, Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	score, err := Accuracy(tree, X, y)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if score < 0 || score > 1 {
		t.Fatalf("accuracy %v outside [0, 1]", score)
	}
	if score != 1 {
		t.Fatalf("accuracy on separable training data = %v, want 1", score)
	}
}

func TestFitRespectsMaxDepth(t *testing.T) {
	X, y := separableData()
	tree, err := Fit(X, y, Config{MaxDepth: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if depth(tree.Root) > 1 {
		t.Fatalf("tree depth %d exceeds max depth 1", depth(tree.Root))
	}
}

func TestFitRejectsBadInput(t *testing.T) {
	if _, err := Fit(nil, nil, Config{}); err == nil {
		t.Error("expected error for empty data")
	}
	if _, err := Fit([][]float64{{1}}, []string{"a", "b"}, Config{}); err == nil {
		t.Error("expected error for length mismatch")
	}
	if _, err := Fit([][]float64{{1, 2}, {1}}, []string{"a", "b"}, Config{}); err == nil {
		t.Error("expected error for ragged rows")
	}
}

func TestPredictRejectsWrongWidth(t *testing.T) {
	X, y := separableData()
	tree, err := Fit(X, y, Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := tree.Predict([]float64{1}); err == nil {
		t.Fatal("expected error for wrong feature count")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	X, y := separableData()
	tree, err := Fit(X, y, Config{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := Marshal(tree)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("marshaled model is empty")
	}

	restored, err := Unmarshal(raw)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for i, row := range X {
		want, _ := tree.Predict(row)
		got, err := restored.Predict(row)
		if err != nil {
			t.Fatalf("predict restored row %d: %v", i, err)
		}
		if got != want {
			t.Errorf("row %d: restored model predicted %q, original %q", i, got, want)
		}
	}
}

func TestMarshalUnfitted(t *testing.T) {
	if _, err := Marshal(nil); err == nil {
		t.Fatal("expected error for nil tree")
	}
	if _, err := Marshal(&Tree{}); err == nil {
		t.Fatal("expected error for unfitted tree")
	}
}

func depth(n *Node) int {
	if n == nil || n.Leaf {
		return 0
	}
	left := depth(n.Left)
	right := depth(n.Right)
	if left > right {
		return left + 1
	}
	return right + 1
}
