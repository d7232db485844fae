package pipeline

import (
	"fmt"
	"regexp"
	"strings"
)

var stepName = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// ValidationError aggregates definition validation issues.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "pipeline validation failed"
	}
	return "pipeline validation failed: " + strings.Join(e.Issues, "; ")
}

func (e *ValidationError) Add(issue string) {
	if strings.TrimSpace(issue) == "" {
		return
	}
	e.Issues = append(e.Issues, issue)
}

func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Issues) == 0 {
		return nil
	}
	return e
}

// Validate performs strict validation of a Definition.
func Validate(def Definition) error {
	issues := &ValidationError{}

	if def.APIVersion != APIVersion {
		issues.Add(fmt.Sprintf("apiVersion must be %q", APIVersion))
	}
	if def.Kind != Kind {
		issues.Add(fmt.Sprintf("kind must be %q", Kind))
	}
	if strings.TrimSpace(def.Metadata.Name) == "" {
		issues.Add("metadata.name is required")
	}
	if err := def.Params.Validate(); err != nil {
		issues.Add("params: " + err.Error())
	}
	if len(def.Steps) == 0 {
		issues.Add("steps must contain at least one step")
		return issues.OrNil()
	}

	names := make(map[string]struct{}, len(def.Steps))
	for i, step := range def.Steps {
		name := strings.TrimSpace(step.Name)
		if name == "" {
			issues.Add(fmt.Sprintf("step[%d] name is required", i))
			continue
		}
		if !stepName.MatchString(name) {
			issues.Add(fmt.Sprintf("step[%s] name must match %s", name, stepName))
		}
		if _, exists := names[name]; exists {
			issues.Add(fmt.Sprintf("duplicate step name %q", name))
		}
		names[name] = struct{}{}

		uses := strings.TrimSpace(step.Uses) != ""
		image := strings.TrimSpace(step.Image) != ""
		switch {
		case uses && image:
			issues.Add(fmt.Sprintf("step[%s] must set only one of uses and image", name))
		case !uses && !image:
			issues.Add(fmt.Sprintf("step[%s] must set uses or image", name))
		case uses && (len(step.Command) > 0 || len(step.Args) > 0):
			issues.Add(fmt.Sprintf("step[%s] is builtin and must not set command or args", name))
		}
	}

	adj := make(map[string][]string, len(names))
	for _, dep := range def.Dependencies {
		from := strings.TrimSpace(dep.From)
		to := strings.TrimSpace(dep.To)
		if from == "" || to == "" {
			issues.Add("dependency edges must specify from and to")
			continue
		}
		if from == to {
			issues.Add(fmt.Sprintf("dependency %q has self-edge", from))
			continue
		}
		if _, ok := names[from]; !ok {
			issues.Add(fmt.Sprintf("dependency from %q not found", from))
			continue
		}
		if _, ok := names[to]; !ok {
			issues.Add(fmt.Sprintf("dependency to %q not found", to))
			continue
		}
		if def.ExitHandler != "" && (from == def.ExitHandler || to == def.ExitHandler) {
			issues.Add(fmt.Sprintf("exit handler %q must not appear in dependency edges", def.ExitHandler))
			continue
		}
		adj[from] = append(adj[from], to)
	}

	if hasCycle(adj, names) {
		issues.Add("dependency graph contains a cycle")
	}

	validateExitHandler(def, names, issues)

	return issues.OrNil()
}

func validateExitHandler(def Definition, names map[string]struct{}, issues *ValidationError) {
	handler := strings.TrimSpace(def.ExitHandler)
	if handler == "" {
		if len(def.Scope) > 0 {
			issues.Add("scope set without exit handler")
		}
		return
	}
	if _, ok := names[handler]; !ok {
		issues.Add(fmt.Sprintf("exit handler %q not found", handler))
		return
	}
	if len(def.Scope) == 0 {
		issues.Add("exit handler scope is empty")
		return
	}

	scoped := make(map[string]struct{}, len(def.Scope))
	for _, name := range def.Scope {
		if name == handler {
			issues.Add(fmt.Sprintf("exit handler %q must not be inside its own scope", handler))
			continue
		}
		if _, ok := names[name]; !ok {
			issues.Add(fmt.Sprintf("scope step %q not found", name))
			continue
		}
		scoped[name] = struct{}{}
	}
	for name := range names {
		if name == handler {
			continue
		}
		if _, ok := scoped[name]; !ok {
			issues.Add(fmt.Sprintf("step %q is outside the exit handler scope", name))
		}
	}
}

func hasCycle(adj map[string][]string, nodes map[string]struct{}) bool {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[string]int, len(nodes))
	var visit func(string) bool
	visit = func(node string) bool {
		switch state[node] {
		case visiting:
			return true
		case done:
			return false
		}
		state[node] = visiting
		for _, next := range adj[node] {
			if visit(next) {
				return true
			}
		}
		state[node] = done
		return false
	}

	for node := range nodes {
		if state[node] == unvisited {
			if visit(node) {
				return true
			}
		}
	}
	return false
}
