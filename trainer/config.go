package main

import (
	"fmt"
	"strings"

	"github.com/quarry-ml/quarry-go/internal/platform/env"
)

// The label column separated from the features before fitting.
const labelColumn = "Class"

// Env contract fixed by the managed training service.
const (
	envTrainingDataURI = "AIP_TRAINING_DATA_URI"
	envTestDataURI     = "AIP_TEST_DATA_URI"
	envModelDir        = "AIP_MODEL_DIR"
	envBucket          = "GCS_BUCKET"
)

type trainerConfig struct {
	TrainingDataURI string
	TestDataURI     string
	ModelDir        string
	Bucket          string
	MaxDepth        int
}

func configFromEnv() (trainerConfig, error) {
	var cfg trainerConfig
	var err error
	if cfg.TrainingDataURI, err = env.Require(envTrainingDataURI); err != nil {
		return trainerConfig{}, err
	}
	if cfg.TestDataURI, err = env.Require(envTestDataURI); err != nil {
		return trainerConfig{}, err
	}
	if cfg.ModelDir, err = env.Require(envModelDir); err != nil {
		return trainerConfig{}, err
	}
	if cfg.Bucket, err = env.Require(envBucket); err != nil {
		return trainerConfig{}, err
	}
	if cfg.MaxDepth, err = env.Int("QUARRY_TRAIN_MAX_DEPTH", 8); err != nil {
		return trainerConfig{}, err
	}
	return cfg, nil
}

// modelKey derives the object key for the serialized model from the model
// directory. The directory may carry a gs:// scheme and the bucket name;
// both are stripped since the bucket is addressed separately.
func modelKey(modelDir, bucket string) (string, error) {
	dir := strings.TrimSpace(modelDir)
	dir = strings.TrimPrefix(dir, "gs://")
	dir = strings.Trim(dir, "/")
	if dir == "" {
		return "", fmt.Errorf("model dir is required")
	}
	if dir == bucket {
		return "model.json", nil
	}
	dir = strings.TrimPrefix(dir, bucket+"/")
	return dir + "/model.json", nil
}
