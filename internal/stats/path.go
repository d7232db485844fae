package stats

import (
	"fmt"
	"strings"
)

// ArtifactKey is the object key for a job's statistics artifact. The layout
// {job_id}/statistics/stats.pb is a contract with downstream consumers.
func ArtifactKey(jobID string) (string, error) {
	jobID = strings.TrimSpace(jobID)
	if jobID == "" {
		return "", fmt.Errorf("job id is required")
	}
	return jobID + "/statistics/stats.pb", nil
}

// ArtifactPath is the bucket-qualified location reported to downstream steps.
func ArtifactPath(bucket, jobID string) (string, error) {
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return "", fmt.Errorf("bucket is required")
	}
	key, err := ArtifactKey(jobID)
	if err != nil {
		return "", err
	}
	return bucket + "/" + key, nil
}
