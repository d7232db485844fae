package warehouse

import (
	"fmt"
	"strings"
)

// Scheme is the URI prefix accepted (and stripped) on table references, as in
// bq://project.dataset.table.
const Scheme = "bq://"

// TableRef names a warehouse table. Project is informational; Dataset maps to
// the schema and Table to the relation.
type TableRef struct {
	Project string
	Dataset string
	Table   string
}

func (r TableRef) String() string {
	if r.Project == "" {
		return r.Dataset + "." + r.Table
	}
	return r.Project + "." + r.Dataset + "." + r.Table
}

// Relation returns the schema-qualified, quoted relation name for SQL use.
func (r TableRef) Relation() string {
	return quoteIdent(r.Dataset) + "." + quoteIdent(r.Table)
}

// ParseTableRef parses a table URI of the form [bq://][project.]dataset.table.
func ParseTableRef(uri string) (TableRef, error) {
	raw := strings.TrimSpace(uri)
	raw = strings.TrimPrefix(raw, Scheme)
	if raw == "" {
		return TableRef{}, fmt.Errorf("table reference is required")
	}

	parts := strings.Split(raw, ".")
	for i, part := range parts {
		if strings.TrimSpace(part) == "" {
			return TableRef{}, fmt.Errorf("table reference %q has empty segment %d", uri, i)
		}
	}

	switch len(parts) {
	case 2:
		return TableRef{Dataset: parts[0], Table: parts[1]}, nil
	case 3:
		return TableRef{Project: parts[0], Dataset: parts[1], Table: parts[2]}, nil
	default:
		return TableRef{}, fmt.Errorf("table reference %q must be [project.]dataset.table", uri)
	}
}

func quoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
