// Command statworker profiles a warehouse table and uploads the resulting
// statistics document to the artifact bucket. It prints the artifact path on
// stdout so a calling step can record where the document landed.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/quarry-ml/quarry-go/internal/platform/objectstore"
	"github.com/quarry-ml/quarry-go/internal/platform/warehouse"
	"github.com/quarry-ml/quarry-go/internal/stats"
)

type config struct {
	SourceTable string
	Bucket      string
	JobID       string
	ProjectID   string
}

func parseConfig(args []string, output io.Writer) (config, error) {
	fs := flag.NewFlagSet("statworker", flag.ContinueOnError)
	fs.SetOutput(output)

	var cfg config
	fs.StringVar(&cfg.SourceTable, "bq-source", "", "source table URI")
	fs.StringVar(&cfg.Bucket, "bucket", "", "artifact bucket")
	fs.StringVar(&cfg.JobID, "job-id", "", "pipeline job id")
	fs.StringVar(&cfg.ProjectID, "project-id", "", "project id")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if fs.NArg() > 0 {
		return config{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	missing := make([]string, 0, 4)
	for _, f := range []struct {
		name  string
		value string
	}{
		{"bq-source", cfg.SourceTable},
		{"bucket", cfg.Bucket},
		{"job-id", cfg.JobID},
		{"project-id", cfg.ProjectID},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, "--"+f.name)
		}
	}
	if len(missing) > 0 {
		return config{}, fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := parseConfig(os.Args[1:], os.Stderr)
	if err != nil {
		logger.Error("invalid arguments", "error", err)
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
		logger.Error("artifact bucket unavailable", "bucket", cfg.Bucket, "error", err)
		os.Exit(1)
	}

	ref, err := warehouse.ParseTableRef(cfg.SourceTable)
	if err != nil {
		logger.Error("invalid source table", "uri", cfg.SourceTable, "error", err)
		os.Exit(2)
	}
	frame, err := warehouse.ReadFrame(ctx, db, ref)
	if err != nil {
		logger.Error("read source table failed", "uri", cfg.SourceTable, "error", err)
		os.Exit(1)
	}

	doc, err := stats.Describe(frame, cfg.SourceTable, cfg.JobID, time.Now().UTC())
	if err != nil {
		logger.Error("statistics failed", "error", err)
		os.Exit(1)
	}
	raw, err := stats.Encode(doc)
	if err != nil {
		logger.Error("encode statistics failed", "error", err)
		os.Exit(1)
	}

	key, err := stats.ArtifactKey(cfg.JobID)
	if err != nil {
		logger.Error("invalid job id", "job_id", cfg.JobID, "error", err)
		os.Exit(2)
	}
	if err := store.Put(ctx, cfg.Bucket, key, bytes.NewReader(raw), int64(len(raw)), "application/json"); err != nil {
		logger.Error("statistics upload failed", "bucket", cfg.Bucket, "key", key, "error", err)
		os.Exit(1)
	}
	logger.Info("statistics uploaded", "bucket", cfg.Bucket, "key", key, "columns", len(doc.Columns))

	path, err := stats.ArtifactPath(cfg.Bucket, cfg.JobID)
	if err != nil {
		logger.Error("resolve artifact path failed", "error", err)
		os.Exit(1)
	}
	fmt.Println(path)
}
