// Package pipeline models a static pipeline definition: named steps, their
// dependency edges, and an optional exit handler that runs after every other
// step in its scope, regardless of outcome. Definitions are compiled to a
// portable JSON document and handed to the execution service; nothing here
// schedules or runs steps.
package pipeline

import (
	"errors"
	"fmt"
	"strings"
)

const (
	APIVersion = "quarry/v1"
	Kind       = "Pipeline"
)

// Params is the immutable parameter record fixed at submission time and
// threaded unchanged into every step.
type Params struct {
	SourceTable string
	DestTable   string
	Bucket      string
	ProjectID   string
	JobID       string
	Recipients  []string
	Region      string
}

func (p Params) Validate() error {
	if strings.TrimSpace(p.SourceTable) == "" {
		return errors.New("source table is required")
	}
	if strings.TrimSpace(p.DestTable) == "" {
		return errors.New("destination table is required")
	}
	if strings.TrimSpace(p.Bucket) == "" {
		return errors.New("bucket is required")
	}
	if strings.TrimSpace(p.ProjectID) == "" {
		return errors.New("project id is required")
	}
	if strings.TrimSpace(p.JobID) == "" {
		return errors.New("job id is required")
	}
	if len(p.Recipients) == 0 {
		return errors.New("at least one recipient is required")
	}
	for i, r := range p.Recipients {
		if strings.TrimSpace(r) == "" {
			return fmt.Errorf("recipient[%d] is blank", i)
		}
	}
	if strings.TrimSpace(p.Region) == "" {
		return errors.New("region is required")
	}
	return nil
}

type EnvVar struct {
	Name  string
	Value string
}

// Step is one node of the graph. Uses names a builtin component provided by
// the execution service; Image names a container the service runs. Exactly
// one of the two must be set.
type Step struct {
	Name    string
	Uses    string
	Image   string
	Command []string
	Args    []string
	Env     []EnvVar
	Params  map[string]string
}

type Dependency struct {
	From string
	To   string
}

type Metadata struct {
	Name   string
	Labels map[string]string
}

// Definition is the full pipeline document. ExitHandler, when set, names the
// step that runs unconditionally after every step in Scope has finished.
type Definition struct {
	APIVersion   string
	Kind         string
	Metadata     Metadata
	Params       Params
	Steps        []Step
	Dependencies []Dependency
	ExitHandler  string
	Scope        []string
}

// StepNames returns the declared step names in declaration order.
func (d Definition) StepNames() []string {
	names := make([]string, 0, len(d.Steps))
	for _, step := range d.Steps {
		names = append(names, step.Name)
	}
	return names
}

// Step returns the named step.
func (d Definition) Step(name string) (Step, bool) {
	for _, step := range d.Steps {
		if step.Name == name {
			return step, true
		}
	}
	return Step{}, false
}

// InScope reports whether the named step is inside the exit handler scope.
func (d Definition) InScope(name string) bool {
	for _, s := range d.Scope {
		if s == name {
			return true
		}
	}
	return false
}

// Precedes reports whether a dependency edge orders from before to.
func (d Definition) Precedes(from, to string) bool {
	for _, dep := range d.Dependencies {
		if dep.From == from && dep.To == to {
			return true
		}
	}
	return false
}
