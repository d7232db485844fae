package main

import (
	"io"
	"strings"
	"testing"
)

func fullArgs() []string {
	return []string{
		"--bq-source", "bq://acme-prod.fraud.transactions",
		"--bucket", "quarry-pipelines",
		"--job-id", "job-1",
		"--project-id", "acme-prod",
	}
}

func TestParseConfigAllFlags(t *testing.T) {
	cfg, err := parseConfig(fullArgs(), io.Discard)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SourceTable != "bq://acme-prod.fraud.transactions" || cfg.JobID != "job-1" {
		t.Fatalf("config = %+v", cfg)
	}
}

func TestParseConfigMissingFlagFails(t *testing.T) {
	for _, omit := range []string{"--bq-source", "--bucket", "--job-id", "--project-id"} {
		t.Run("without "+omit, func(t *testing.T) {
			full := fullArgs()
			args := make([]string, 0, len(full))
			for i := 0; i < len(full); i += 2 {
				if full[i] == omit {
					continue
				}
				args = append(args, full[i], full[i+1])
			}

			_, err := parseConfig(args, io.Discard)
			if err == nil {
				t.Fatalf("expected error when %s is omitted", omit)
			}
			if !strings.Contains(err.Error(), omit) {
				t.Fatalf("error %q does not name %s", err, omit)
			}
		})
	}
}

func TestParseConfigRejectsPositionalArgs(t *testing.T) {
	if _, err := parseConfig(append(fullArgs(), "extra"), io.Discard); err == nil {
		t.Fatal("expected error for positional arguments")
	}
}
