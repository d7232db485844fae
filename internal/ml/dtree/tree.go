// Package dtree implements a small CART-style decision tree classifier over
// numeric features, used by the training entrypoint.
package dtree

import (
	"errors"
	"fmt"
	"sort"
)

type Config struct {
	MaxDepth        int
	MinSamplesSplit int
}

func (c Config) withDefaults() Config {
	if c.MaxDepth <= 0 {
		c.MaxDepth = 8
	}
	if c.MinSamplesSplit < 2 {
		c.MinSamplesSplit = 2
	}
	return c
}

type Node struct {
	Leaf      bool
	Class     string
	Samples   int
	Feature   int
	Threshold float64
	Left      *Node
	Right     *Node
}

type Tree struct {
	Features int
	Classes  []string
	Root     *Node
}

// Fit trains a tree on the row-major feature matrix X with labels y. Splits
// minimize weighted Gini impurity; ties keep the earlier feature and lower
// threshold so training is deterministic.
func Fit(X [][]float64, y []string, cfg Config) (*Tree, error) {
	if len(X) == 0 {
		return nil, errors.New("training data is empty")
	}
	if len(X) != len(y) {
		return nil, fmt.Errorf("feature rows (%d) and labels (%d) differ", len(X), len(y))
	}
	width := len(X[0])
	if width == 0 {
		return nil, errors.New("training data has no features")
	}
	for i, row := range X {
		if len(row) != width {
			return nil, fmt.Errorf("row %d has %d features, want %d", i, len(row), width)
		}
	}
	cfg = cfg.withDefaults()

	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}

	tree := &Tree{
		Features: width,
		Classes:  distinctClasses(y),
	}
	tree.Root = grow(X, y, idx, cfg, 0)
	return tree, nil
}

func (t *Tree) Predict(row []float64) (string, error) {
	if t == nil || t.Root == nil {
		return "", errors.New("tree is not fitted")
	}
	if len(row) != t.Features {
		return "", fmt.Errorf("row has %d features, want %d", len(row), t.Features)
	}
	node := t.Root
	for !node.Leaf {
		if row[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Class, nil
}

// Accuracy scores the tree against a held-out split. The result is a fraction
// in [0, 1].
func Accuracy(t *Tree, X [][]float64, y []string) (float64, error) {
	if len(X) == 0 {
		return 0, errors.New("evaluation data is empty")
	}
	if len(X) != len(y) {
		return 0, fmt.Errorf("feature rows (%d) and labels (%d) differ", len(X), len(y))
	}
	correct := 0
	for i, row := range X {
		pred, err := t.Predict(row)
		if err != nil {
			return 0, err
		}
		if pred == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(X)), nil
}

func grow(X [][]float64, y []string, idx []int, cfg Config, depth int) *Node {
	counts := classCounts(y, idx)
	if depth >= cfg.MaxDepth || len(idx) < cfg.MinSamplesSplit || len(counts) == 1 {
		return leaf(counts, len(idx))
	}

	feature, threshold, ok := bestSplit(X, y, idx)
	if !ok {
		return leaf(counts, len(idx))
	}

	left := make([]int, 0, len(idx))
	right := make([]int, 0, len(idx))
	for _, i := range idx {
		if X[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return leaf(counts, len(idx))
	}

	return &Node{
		Samples:   len(idx),
		Feature:   feature,
		Threshold: threshold,
		Left:      grow(X, y, left, cfg, depth+1),
		Right:     grow(X, y, right, cfg, depth+1),
	}
}

func bestSplit(X [][]float64, y []string, idx []int) (int, float64, bool) {
	bestGini := gini(classCounts(y, idx), len(idx))
	bestFeature := -1
	bestThreshold := 0.0
	found := false

	width := len(X[idx[0]])
	for f := 0; f < width; f++ {
		values := make([]float64, 0, len(idx))
		for _, i := range idx {
			values = append(values, X[i][f])
		}
		sort.Float64s(values)

		for v := 1; v < len(values); v++ {
			if values[v] == values[v-1] {
				continue
			}
			threshold := (values[v] + values[v-1]) / 2

			leftCounts := map[string]int{}
			rightCounts := map[string]int{}
			leftN, rightN := 0, 0
			for _, i := range idx {
				if X[i][f] <= threshold {
					leftCounts[y[i]]++
					leftN++
				} else {
					rightCounts[y[i]]++
					rightN++
				}
			}
			weighted := (float64(leftN)*gini(leftCounts, leftN) + float64(rightN)*gini(rightCounts, rightN)) / float64(len(idx))
			if weighted < bestGini {
				bestGini = weighted
				bestFeature = f
				bestThreshold = threshold
				found = true
			}
		}
	}
	return bestFeature, bestThreshold, found
}

func gini(counts map[string]int, total int) float64 {
	if total == 0 {
		return 0
	}
	impurity := 1.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		impurity -= p * p
	}
	return impurity
}

func classCounts(y []string, idx []int) map[string]int {
	counts := make(map[string]int)
	for _, i := range idx {
		counts[y[i]]++
	}
	return counts
}

func leaf(counts map[string]int, samples int) *Node {
	best := ""
	bestCount := -1
	for _, class := range sortedKeys(counts) {
		if counts[class] > bestCount {
			best = class
			bestCount = counts[class]
		}
	}
	return &Node{Leaf: true, Class: best, Samples: samples}
}

func distinctClasses(y []string) []string {
	set := make(map[string]struct{}, 4)
	for _, class := range y {
		set[class] = struct{}{}
	}
	return sortedKeys(setToCounts(set))
}

func setToCounts(set map[string]struct{}) map[string]int {
	counts := make(map[string]int, len(set))
	for k := range set {
		counts[k] = 1
	}
	return counts
}

func sortedKeys(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
