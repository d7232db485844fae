// Package stats computes descriptive statistics over a table frame for the
// statistics pipeline step.
package stats

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/quarry-ml/quarry-go/internal/table"
)

const statisticsSchemaV1 = "quarry.statistics.v1"

type TableStatistics struct {
	Schema     string            `json:"schema"`
	Source     string            `json:"source"`
	JobID      string            `json:"job_id"`
	ComputedAt time.Time         `json:"computed_at"`
	Rows       int               `json:"rows"`
	Columns    []ColumnSummary   `json:"columns"`
	Labels     map[string]string `json:"labels,omitempty"`
}

type ColumnSummary struct {
	Name    string          `json:"name"`
	Kind    string          `json:"kind"`
	Count   int             `json:"count"`
	Nulls   int             `json:"nulls"`
	Numeric *NumericSummary `json:"numeric,omitempty"`
	Text    *TextSummary    `json:"text,omitempty"`
}

type NumericSummary struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

type TextSummary struct {
	Distinct int `json:"distinct"`
}

// Describe computes per-column descriptive statistics for the frame.
func Describe(frame table.Frame, source, jobID string, now time.Time) (TableStatistics, error) {
	if err := frame.Validate(); err != nil {
		return TableStatistics{}, err
	}

	out := TableStatistics{
		Schema:     statisticsSchemaV1,
		Source:     source,
		JobID:      jobID,
		ComputedAt: now.UTC(),
		Rows:       frame.Rows(),
		Columns:    make([]ColumnSummary, 0, len(frame.Cols)),
	}

	for i, col := range frame.Cols {
		summary := ColumnSummary{Name: frame.Names[i]}
		if col.Numeric {
			summary.Kind = "numeric"
			summary.Count = len(col.Floats)
			summary.Numeric, summary.Nulls = summarizeNumeric(col.Floats)
		} else {
			summary.Kind = "text"
			summary.Count = len(col.Strings)
			summary.Text, summary.Nulls = summarizeText(col)
		}
		out.Columns = append(out.Columns, summary)
	}
	return out, nil
}

// Encode renders the statistics document as the artifact body.
func Encode(s TableStatistics) ([]byte, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode statistics: %w", err)
	}
	return raw, nil
}

func summarizeNumeric(values []float64) (*NumericSummary, int) {
	nulls := 0
	n := 0
	sum := 0.0
	min := math.Inf(1)
	max := math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			nulls++
			continue
		}
		n++
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if n == 0 {
		return nil, nulls
	}

	mean := sum / float64(n)
	variance := 0.0
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		d := v - mean
		variance += d * d
	}
	variance /= float64(n)

	return &NumericSummary{
		Mean:   mean,
		StdDev: math.Sqrt(variance),
		Min:    min,
		Max:    max,
	}, nulls
}

func summarizeText(col table.Column) (*TextSummary, int) {
	nulls := 0
	distinct := make(map[string]struct{})
	for i, v := range col.Strings {
		if i < len(col.Nulls) && col.Nulls[i] {
			nulls++
			continue
		}
		distinct[v] = struct{}{}
	}
	return &TextSummary{Distinct: len(distinct)}, nulls
}
