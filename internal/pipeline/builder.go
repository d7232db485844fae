package pipeline

import (
	"fmt"
	"strings"
)

// Builder assembles a Definition step by step. Steps added inside a
// WithExitHandler body are recorded inside the handler's scope.
type Builder struct {
	def       Definition
	inHandler bool
	errs      []string
}

func NewBuilder(name string, params Params) *Builder {
	return &Builder{
		def: Definition{
			APIVersion: APIVersion,
			Kind:       Kind,
			Metadata: Metadata{
				Name: strings.TrimSpace(name),
				Labels: map[string]string{
					"job-id": strings.TrimSpace(params.JobID),
				},
			},
			Params:       params,
			Steps:        []Step{},
			Dependencies: []Dependency{},
			Scope:        []string{},
		},
	}
}

// Add declares a step. Inside a WithExitHandler body the step also joins the
// handler's scope.
func (b *Builder) Add(step Step) *Builder {
	b.def.Steps = append(b.def.Steps, step)
	if b.inHandler {
		b.def.Scope = append(b.def.Scope, step.Name)
	}
	return b
}

// Dependency declares that from must finish successfully before to starts.
func (b *Builder) Dependency(from, to string) *Builder {
	b.def.Dependencies = append(b.def.Dependencies, Dependency{From: from, To: to})
	return b
}

// WithExitHandler registers handler to run on every exit path of the step
// group declared by body, whether those steps succeed or fail.
func (b *Builder) WithExitHandler(handler Step, body func(*Builder)) *Builder {
	if b.inHandler {
		b.errs = append(b.errs, "nested exit handler scopes are not supported")
		return b
	}
	if b.def.ExitHandler != "" {
		b.errs = append(b.errs, "exit handler already registered")
		return b
	}
	b.def.ExitHandler = handler.Name
	b.def.Steps = append(b.def.Steps, handler)

	b.inHandler = true
	body(b)
	b.inHandler = false
	return b
}

// Build validates the assembled definition and returns it.
func (b *Builder) Build() (Definition, error) {
	if len(b.errs) > 0 {
		return Definition{}, fmt.Errorf("build pipeline: %s", strings.Join(b.errs, "; "))
	}
	if err := Validate(b.def); err != nil {
		return Definition{}, err
	}
	return b.def, nil
}
