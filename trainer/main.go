// Command trainer is the training entrypoint run by the managed training
// service. It reads its inputs from the AIP_* environment contract, fits a
// decision-tree classifier, and uploads the serialized model. Every failure
// is fatal and surfaces as a failed training job.
package main

import (
	"bytes"
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/quarry-ml/quarry-go/internal/ml/dtree"
	"github.com/quarry-ml/quarry-go/internal/platform/objectstore"
	"github.com/quarry-ml/quarry-go/internal/platform/warehouse"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := configFromEnv()
	if err != nil {
		logger.Error("invalid env", "error", err)
		os.Exit(2)
	}

	whCfg, err := warehouse.ConfigFromEnv()
	if err != nil {
		logger.Error("invalid warehouse config", "error", err)
		os.Exit(2)
	}
	db, err := warehouse.Open(ctx, whCfg)
	if err != nil {
		logger.Error("warehouse unavailable", "error", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	storeCfg, err := objectstore.ConfigFromEnv()
	if err != nil {
		logger.Error("invalid object store config", "error", err)
		os.Exit(2)
	}
	storeClient, err := objectstore.NewClient(storeCfg)
	if err != nil {
		logger.Error("object store client init failed", "error", err)
		os.Exit(2)
	}
	store, err := objectstore.NewMinioStore(storeClient)
	if err != nil {
		logger.Error("object store init failed", "error", err)
		os.Exit(2)
	}
	if err := objectstore.CheckBucket(ctx, storeClient, cfg.Bucket); err != nil {
		logger.Error("model bucket unavailable", "bucket", cfg.Bucket, "error", err)
		os.Exit(1)
	}

	trainX, trainY, err := loadSplit(ctx, db, cfg.TrainingDataURI)
	if err != nil {
		logger.Error("load training data failed", "uri", cfg.TrainingDataURI, "error", err)
		os.Exit(1)
	}
	testX, testY, err := loadSplit(ctx, db, cfg.TestDataURI)
	if err != nil {
		logger.Error("load test data failed", "uri", cfg.TestDataURI, "error", err)
		os.Exit(1)
	}
	logger.Info("datasets loaded", "train_rows", len(trainX), "test_rows", len(testX))

	tree, err := dtree.Fit(trainX, trainY, dtree.Config{MaxDepth: cfg.MaxDepth})
	if err != nil {
		logger.Error("training failed", "error", err)
		os.Exit(1)
	}
	score, err := dtree.Accuracy(tree, testX, testY)
	if err != nil {
		logger.Error("evaluation failed", "error", err)
		os.Exit(1)
	}
	logger.Info("model evaluated", "accuracy", score)

	raw, err := dtree.Marshal(tree)
	if err != nil {
		logger.Error("serialize model failed", "error", err)
		os.Exit(1)
	}
	key, err := modelKey(cfg.ModelDir, cfg.Bucket)
	if err != nil {
		logger.Error("invalid model dir", "model_dir", cfg.ModelDir, "error", err)
		os.Exit(2)
	}
	if err := store.Put(ctx, cfg.Bucket, key, bytes.NewReader(raw), int64(len(raw)), "application/json"); err != nil {
		logger.Error("model upload failed", "bucket", cfg.Bucket, "key", key, "error", err)
		os.Exit(1)
	}
	logger.Info("model uploaded", "bucket", cfg.Bucket, "key", key, "bytes", len(raw))
}

// loadSplit reads one table of a prepared dataset split and separates the
// label column from the feature columns.
func loadSplit(ctx context.Context, db *sql.DB, uri string) ([][]float64, []string, error) {
	ref, err := warehouse.ParseTableRef(uri)
	if err != nil {
		return nil, nil, err
	}
	frame, err := warehouse.ReadFrame(ctx, db, ref)
	if err != nil {
		return nil, nil, err
	}
	return frame.SplitLabel(labelColumn)
}
