package main

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// Region the execution service runs pipeline jobs in. Fixed for the
// walkthrough, like the recipients' notification component.
const region = "us-central1"

type config struct {
	Bucket        string
	PipelineRoot  string
	PipelineName  string
	ProjectID     string
	SourceTable   string
	DestTable     string
	TrainingImage string
	JobID         string
	Recipients    []string
}

type recipientList []string

func (r *recipientList) String() string {
	return strings.Join(*r, ",")
}

func (r *recipientList) Set(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("recipient must not be blank")
	}
	*r = append(*r, value)
	return nil
}

// parseConfig parses the assembler flags. Every flag is required; a missing
// one fails here, before anything is compiled or submitted.
func parseConfig(args []string, output io.Writer) (config, error) {
	fs := flag.NewFlagSet("assembler", flag.ContinueOnError)
	fs.SetOutput(output)

	var cfg config
	var recipients recipientList
	fs.StringVar(&cfg.Bucket, "bucket", "", "artifact bucket")
	fs.StringVar(&cfg.PipelineRoot, "pipeline-root", "", "pipeline root path (bucket/prefix)")
	fs.StringVar(&cfg.PipelineName, "pipeline-name", "", "pipeline name")
	fs.StringVar(&cfg.ProjectID, "project-id", "", "project id")
	fs.StringVar(&cfg.SourceTable, "bq-source", "", "source table URI")
	fs.StringVar(&cfg.DestTable, "bq-dest", "", "destination table URI")
	fs.StringVar(&cfg.TrainingImage, "training-container-uri", "", "training container image")
	fs.StringVar(&cfg.JobID, "job-id", "", "pipeline job id")
	fs.Var(&recipients, "recipients", "notification recipient (repeatable)")

	if err := fs.Parse(args); err != nil {
		return config{}, err
	}
	if fs.NArg() > 0 {
		return config{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	cfg.Recipients = recipients

	missing := make([]string, 0, 9)
	for _, f := range []struct {
		name  string
		value string
	}{
		{"bucket", cfg.Bucket},
		{"pipeline-root", cfg.PipelineRoot},
		{"pipeline-name", cfg.PipelineName},
		{"project-id", cfg.ProjectID},
		{"bq-source", cfg.SourceTable},
		{"bq-dest", cfg.DestTable},
		{"training-container-uri", cfg.TrainingImage},
		{"job-id", cfg.JobID},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, "--"+f.name)
		}
	}
	if len(cfg.Recipients) == 0 {
		missing = append(missing, "--recipients")
	}
	if len(missing) > 0 {
		return config{}, fmt.Errorf("missing required flags: %s", strings.Join(missing, ", "))
	}
	return cfg, nil
}

// splitObjectPath splits a [gs://]bucket/prefix path into bucket and prefix.
func splitObjectPath(path string) (string, string, error) {
	trimmed := strings.TrimSpace(path)
	trimmed = strings.TrimPrefix(trimmed, "gs://")
	trimmed = strings.Trim(trimmed, "/")
	if trimmed == "" {
		return "", "", fmt.Errorf("object path is required")
	}
	bucket, prefix, _ := strings.Cut(trimmed, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("object path %q has no bucket", path)
	}
	return bucket, prefix, nil
}
