package pipeline

import (
	"fmt"
	"strings"
)

// Step names of the classifier pipeline.
const (
	StepCreateDataset = "create-dataset"
	StepPlaceholder   = "placeholder"
	StepStatistics    = "collect-statistics"
	StepTraining      = "train-model"
	StepNotify        = "notify"
)

// Builtin component refs resolved by the execution service.
const (
	usesDatasetCreate = "tabular-dataset-create@v1"
	usesEmailNotify   = "email-notify@v1"
)

// Images for the lightweight custom steps. The training image is a parameter
// because it is rebuilt per tutorial walkthrough; these two are not.
const (
	placeholderImage = "ghcr.io/quarry-ml/placeholder:0.4.2"
	statworkerImage  = "ghcr.io/quarry-ml/statworker:0.4.2"
)

// BuildClassifierPipeline assembles the five-node classifier pipeline:
// dataset creation feeding training, placeholder and statistics running
// independently, and an email notification wrapping everything as an exit
// handler.
func BuildClassifierPipeline(params Params, trainingImage string) (Definition, error) {
	trainingImage = strings.TrimSpace(trainingImage)
	if trainingImage == "" {
		return Definition{}, fmt.Errorf("training container image is required")
	}
	if err := params.Validate(); err != nil {
		return Definition{}, err
	}

	builder := NewBuilder("classifier-"+params.JobID, params)
	builder.WithExitHandler(
		Step{
			Name: StepNotify,
			Uses: usesEmailNotify,
			Params: map[string]string{
				"recipients": strings.Join(params.Recipients, ","),
			},
		},
		func(b *Builder) {
			b.Add(Step{
				Name: StepCreateDataset,
				Uses: usesDatasetCreate,
				Params: map[string]string{
					"sourceTable": params.SourceTable,
					"destTable":   params.DestTable,
					"projectId":   params.ProjectID,
					"region":      params.Region,
				},
			})
			b.Add(Step{
				Name:  StepPlaceholder,
				Image: placeholderImage,
			})
			b.Add(Step{
				Name:  StepStatistics,
				Image: statworkerImage,
				Args: []string{
					"--bq-source", params.SourceTable,
					"--bucket", params.Bucket,
					"--job-id", params.JobID,
					"--project-id", params.ProjectID,
				},
			})
			b.Add(Step{
				Name:  StepTraining,
				Image: trainingImage,
				Env: []EnvVar{
					{Name: "GCS_BUCKET", Value: params.Bucket},
				},
				Params: map[string]string{
					"modelDir": params.Bucket + "/" + params.JobID + "/model",
				},
			})
			b.Dependency(StepCreateDataset, StepTraining)
		},
	)
	return builder.Build()
}
