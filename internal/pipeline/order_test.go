package pipeline

import (
	"reflect"
	"testing"
)

func TestBuildOrderDeterministic(t *testing.T) {
	def := validDefinition()

	first, err := BuildOrder(def)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := BuildOrder(def)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected deterministic order, got %v vs %v", first, second)
	}

	want := []string{StepStatistics, StepCreateDataset, StepPlaceholder, StepTraining, StepNotify}
	if !reflect.DeepEqual(first, want) {
		t.Fatalf("order = %v, want %v", first, want)
	}
}

func TestBuildOrderRespectsEdges(t *testing.T) {
	order, err := BuildOrder(validDefinition())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pos := make(map[string]int, len(order))
	for i, name := range order {
		pos[name] = i
	}
	if pos[StepCreateDataset] >= pos[StepTraining] {
		t.Fatalf("create-dataset at %d not before train-model at %d", pos[StepCreateDataset], pos[StepTraining])
	}
	if pos[StepNotify] != len(order)-1 {
		t.Fatalf("exit handler at %d, want last", pos[StepNotify])
	}
}

func TestBuildOrderDetectsCycle(t *testing.T) {
	def := validDefinition()
	def.Dependencies = append(def.Dependencies, Dependency{From: StepTraining, To: StepCreateDataset})
	if _, err := BuildOrder(def); err == nil {
		t.Fatal("expected cycle error")
	}
}
