package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
)

// CompiledFileName is the fixed local filename the compiled definition is
// written to before submission.
const CompiledFileName = "classifier_pipeline.json"

// MarshalDefinition serializes a definition with stable field names.
func MarshalDefinition(def Definition) ([]byte, error) {
	if err := Validate(def); err != nil {
		return nil, err
	}

	order, err := BuildOrder(def)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]Step, len(def.Steps))
	for _, step := range def.Steps {
		byName[step.Name] = step
	}

	payload := definitionPayload{
		APIVersion: def.APIVersion,
		Kind:       def.Kind,
		Metadata: metadataPayload{
			Name:   def.Metadata.Name,
			Labels: def.Metadata.Labels,
		},
		Params: paramsPayload{
			SourceTable: def.Params.SourceTable,
			DestTable:   def.Params.DestTable,
			Bucket:      def.Params.Bucket,
			ProjectID:   def.Params.ProjectID,
			JobID:       def.Params.JobID,
			Recipients:  def.Params.Recipients,
			Region:      def.Params.Region,
		},
		Steps:        make([]stepPayload, 0, len(def.Steps)),
		Dependencies: make([]dependencyPayload, 0, len(def.Dependencies)),
		ExitHandler:  def.ExitHandler,
		Scope:        def.Scope,
	}
	for _, name := range order {
		step := byName[name]
		envs := make([]envPayload, 0, len(step.Env))
		for _, e := range step.Env {
			envs = append(envs, envPayload{Name: e.Name, Value: e.Value})
		}
		payload.Steps = append(payload.Steps, stepPayload{
			Name:    step.Name,
			Uses:    step.Uses,
			Image:   step.Image,
			Command: step.Command,
			Args:    step.Args,
			Env:     envs,
			Params:  step.Params,
		})
	}
	for _, dep := range def.Dependencies {
		payload.Dependencies = append(payload.Dependencies, dependencyPayload{
			From: dep.From,
			To:   dep.To,
		})
	}
	return json.MarshalIndent(payload, "", "  ")
}

// UnmarshalDefinition parses a compiled definition document.
func UnmarshalDefinition(raw []byte) (Definition, error) {
	var payload definitionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Definition{}, fmt.Errorf("decode definition: %w", err)
	}

	def := Definition{
		APIVersion: payload.APIVersion,
		Kind:       payload.Kind,
		Metadata: Metadata{
			Name:   payload.Metadata.Name,
			Labels: payload.Metadata.Labels,
		},
		Params: Params{
			SourceTable: payload.Params.SourceTable,
			DestTable:   payload.Params.DestTable,
			Bucket:      payload.Params.Bucket,
			ProjectID:   payload.Params.ProjectID,
			JobID:       payload.Params.JobID,
			Recipients:  payload.Params.Recipients,
			Region:      payload.Params.Region,
		},
		Steps:        make([]Step, 0, len(payload.Steps)),
		Dependencies: make([]Dependency, 0, len(payload.Dependencies)),
		ExitHandler:  payload.ExitHandler,
		Scope:        payload.Scope,
	}
	for _, step := range payload.Steps {
		envs := make([]EnvVar, 0, len(step.Env))
		for _, e := range step.Env {
			envs = append(envs, EnvVar{Name: e.Name, Value: e.Value})
		}
		def.Steps = append(def.Steps, Step{
			Name:    step.Name,
			Uses:    step.Uses,
			Image:   step.Image,
			Command: step.Command,
			Args:    step.Args,
			Env:     envs,
			Params:  step.Params,
		})
	}
	for _, dep := range payload.Dependencies {
		def.Dependencies = append(def.Dependencies, Dependency{From: dep.From, To: dep.To})
	}
	if err := Validate(def); err != nil {
		return Definition{}, err
	}
	return def, nil
}

// WriteDefinitionFile compiles the definition and writes it to
// CompiledFileName in dir.
func WriteDefinitionFile(dir string, def Definition) (string, error) {
	raw, err := MarshalDefinition(def)
	if err != nil {
		return "", err
	}
	path := dir + string(os.PathSeparator) + CompiledFileName
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", fmt.Errorf("write compiled definition: %w", err)
	}
	return path, nil
}

type definitionPayload struct {
	APIVersion   string              `json:"apiVersion"`
	Kind         string              `json:"kind"`
	Metadata     metadataPayload     `json:"metadata"`
	Params       paramsPayload       `json:"params"`
	Steps        []stepPayload       `json:"steps"`
	Dependencies []dependencyPayload `json:"dependencies"`
	ExitHandler  string              `json:"exitHandler,omitempty"`
	Scope        []string            `json:"scope,omitempty"`
}

type metadataPayload struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels,omitempty"`
}

type paramsPayload struct {
	SourceTable string   `json:"sourceTable"`
	DestTable   string   `json:"destTable"`
	Bucket      string   `json:"bucket"`
	ProjectID   string   `json:"projectId"`
	JobID       string   `json:"jobId"`
	Recipients  []string `json:"recipients"`
	Region      string   `json:"region"`
}

type stepPayload struct {
	Name    string            `json:"name"`
	Uses    string            `json:"uses,omitempty"`
	Image   string            `json:"image,omitempty"`
	Command []string          `json:"command,omitempty"`
	Args    []string          `json:"args,omitempty"`
	Env     []envPayload      `json:"env,omitempty"`
	Params  map[string]string `json:"params,omitempty"`
}

type envPayload struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type dependencyPayload struct {
	From string `json:"from"`
	To   string `json:"to"`
}
