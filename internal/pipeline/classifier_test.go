package pipeline

import (
	"reflect"
	"testing"
)

func classifierParams() Params {
	return Params{
		SourceTable: "bq://acme-prod.fraud.transactions",
		DestTable:   "bq://acme-prod.fraud.transactions_prepared",
		Bucket:      "quarry-pipelines",
		ProjectID:   "acme-prod",
		JobID:       "job-20260824-01",
		Recipients:  []string{"ml-oncall@acme.example"},
		Region:      "us-central1",
	}
}

const testTrainingImage = "ghcr.io/acme/fraud-trainer:1.4.0"

func TestBuildClassifierPipelineShape(t *testing.T) {
	def, err := BuildClassifierPipeline(classifierParams(), testTrainingImage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(def.Steps) != 5 {
		t.Fatalf("got %d steps, want 5", len(def.Steps))
	}
	for _, name := range []string{StepCreateDataset, StepPlaceholder, StepStatistics, StepTraining, StepNotify} {
		if _, ok := def.Step(name); !ok {
			t.Errorf("step %q missing", name)
		}
	}

	if !def.Precedes(StepCreateDataset, StepTraining) {
		t.Error("create-dataset must precede train-model")
	}
	if len(def.Dependencies) != 1 {
		t.Errorf("got %d dependency edges, want 1", len(def.Dependencies))
	}
}

func TestBuildClassifierPipelineExitHandlerScope(t *testing.T) {
	def, err := BuildClassifierPipeline(classifierParams(), testTrainingImage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if def.ExitHandler != StepNotify {
		t.Fatalf("exit handler = %q, want %q", def.ExitHandler, StepNotify)
	}
	for _, name := range []string{StepCreateDataset, StepPlaceholder, StepStatistics, StepTraining} {
		if !def.InScope(name) {
			t.Errorf("step %q is outside the exit handler scope", name)
		}
	}
	if def.InScope(StepNotify) {
		t.Error("exit handler must not be inside its own scope")
	}
}

func TestBuildClassifierPipelineTrainingStep(t *testing.T) {
	params := classifierParams()
	def, err := BuildClassifierPipeline(params, testTrainingImage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	training, ok := def.Step(StepTraining)
	if !ok {
		t.Fatal("train-model step missing")
	}
	if training.Image != testTrainingImage {
		t.Errorf("training image = %q, want %q", training.Image, testTrainingImage)
	}
	wantEnv := []EnvVar{{Name: "GCS_BUCKET", Value: params.Bucket}}
	if !reflect.DeepEqual(training.Env, wantEnv) {
		t.Errorf("training env = %v, want %v", training.Env, wantEnv)
	}
	if got := training.Params["modelDir"]; got != "quarry-pipelines/job-20260824-01/model" {
		t.Errorf("modelDir = %q", got)
	}
}

func TestBuildClassifierPipelineRejectsMissingImage(t *testing.T) {
	if _, err := BuildClassifierPipeline(classifierParams(), "  "); err == nil {
		t.Fatal("expected error for missing training image")
	}
}

func TestBuildClassifierPipelineRejectsBadParams(t *testing.T) {
	params := classifierParams()
	params.Recipients = nil
	if _, err := BuildClassifierPipeline(params, testTrainingImage); err == nil {
		t.Fatal("expected error for missing recipients")
	}
}
