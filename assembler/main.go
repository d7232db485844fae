// Command assembler compiles the tabular classifier pipeline to a portable
// definition, stages it under the pipeline root, and submits it to the
// execution service.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/quarry-ml/quarry-go/internal/pipeline"
	"github.com/quarry-ml/quarry-go/internal/platform/objectstore"
	"github.com/quarry-ml/quarry-go/internal/submit"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := parseConfig(os.Args[1:], os.Stderr)
	if err != nil {
		logger.Error("invalid arguments", "error", err)
		os.Exit(2)
	}

	params := pipeline.Params{
		SourceTable: cfg.SourceTable,
		DestTable:   cfg.DestTable,
		Bucket:      cfg.Bucket,
		ProjectID:   cfg.ProjectID,
		JobID:       cfg.JobID,
		Recipients:  cfg.Recipients,
		Region:      region,
	}
	def, err := pipeline.BuildClassifierPipeline(params, cfg.TrainingImage)
	if err != nil {
		logger.Error("pipeline build failed", "error", err)
		os.Exit(2)
	}

	raw, err := pipeline.MarshalDefinition(def)
	if err != nil {
		logger.Error("pipeline compile failed", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(pipeline.CompiledFileName, raw, 0o644); err != nil {
		logger.Error("write compiled definition failed", "file", pipeline.CompiledFileName, "error", err)
		os.Exit(1)
	}
	logger.Info("pipeline compiled", "file", pipeline.CompiledFileName, "steps", len(def.Steps))

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

	rootBucket, rootPrefix, err := splitObjectPath(cfg.PipelineRoot)
	if err != nil {
		logger.Error("invalid pipeline root", "error", err)
		os.Exit(2)
	}
	if err := objectstore.EnsureBucket(ctx, storeClient, rootBucket, storeCfg.Region); err != nil {
		logger.Error("ensure staging bucket failed", "bucket", rootBucket, "error", err)
		os.Exit(1)
	}
	stagedKey := stagedDefinitionKey(rootPrefix, cfg.JobID)
	if err := store.Put(ctx, rootBucket, stagedKey, bytes.NewReader(raw), int64(len(raw)), "application/json"); err != nil {
		logger.Error("stage compiled definition failed", "bucket", rootBucket, "key", stagedKey, "error", err)
		os.Exit(1)
	}
	logger.Info("compiled definition staged", "bucket", rootBucket, "key", stagedKey)

	profilePath, err := submit.ProfilePath()
	if err != nil {
		logger.Error("resolve submit profile failed", "error", err)
		os.Exit(2)
	}
	profile, err := submit.LoadProfile(profilePath)
	if err != nil {
		logger.Error("load submit profile failed", "path", profilePath, "error", err)
		os.Exit(2)
	}
	client, err := submit.NewClient(ctx, profile)
	if err != nil {
		logger.Error("submit client init failed", "error", err)
		os.Exit(2)
	}

	handle, err := client.SubmitJob(ctx, submit.SubmitRequest{
		PipelineName:  cfg.PipelineName,
		JobID:         cfg.JobID,
		PipelineRoot:  cfg.PipelineRoot,
		Region:        region,
		Definition:    json.RawMessage(raw),
		EnableCaching: true,
	})
	if err != nil {
		logger.Error("pipeline submission failed", "error", err)
		os.Exit(1)
	}
	logger.Info("pipeline job submitted", "job", handle.Name, "state", handle.State)
}

func stagedDefinitionKey(rootPrefix, jobID string) string {
	if rootPrefix == "" {
		return jobID + "/" + pipeline.CompiledFileName
	}
	return rootPrefix + "/" + jobID + "/" + pipeline.CompiledFileName
}
