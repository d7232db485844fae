package stats

import (
	"math"
	"testing"
	"time"

	"github.com/quarry-ml/quarry-go/internal/table"
)

func TestDescribeNumericColumn(t *testing.T) {
	frame := table.Frame{
		Names: []string{"amount"},
		Cols: []table.Column{
			{Numeric: true, Floats: []float64{1, 2, 3, 4, math.NaN()}},
		},
	}

	got, err := Describe(frame, "fraud.transactions", "job-1", time.Unix(1700000000, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Rows != 5 {
		t.Fatalf("rows = %d, want 5", got.Rows)
	}
	if len(got.Columns) != 1 {
		t.Fatalf("columns = %d, want 1", len(got.Columns))
	}

	col := got.Columns[0]
	if col.Kind != "numeric" || col.Count != 5 || col.Nulls != 1 {
		t.Fatalf("column summary = %+v", col)
	}
	if col.Numeric == nil {
		t.Fatal("numeric summary missing")
	}
	if col.Numeric.Mean != 2.5 {
		t.Errorf("mean = %v, want 2.5", col.Numeric.Mean)
	}
	if col.Numeric.Min != 1 || col.Numeric.Max != 4 {
		t.Errorf("min/max = %v/%v, want 1/4", col.Numeric.Min, col.Numeric.Max)
	}
	if want := math.Sqrt(1.25); math.Abs(col.Numeric.StdDev-want) > 1e-12 {
		t.Errorf("std dev = %v, want %v", col.Numeric.StdDev, want)
	}
}

func TestDescribeTextColumn(t *testing.T) {
	frame := table.Frame{
		Names: []string{"merchant"},
		Cols: []table.Column{
			{Strings: []string{"a", "b", "a", ""}, Nulls: []bool{false, false, false, true}},
		},
	}

	got, err := Describe(frame, "fraud.transactions", "job-1", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	col := got.Columns[0]
	if col.Kind != "text" || col.Nulls != 1 {
		t.Fatalf("column summary = %+v", col)
	}
	if col.Text == nil || col.Text.Distinct != 2 {
		t.Fatalf("text summary = %+v, want 2 distinct", col.Text)
	}
}

func TestDescribeAllNullNumericColumn(t *testing.T) {
	frame := table.Frame{
		Names: []string{"v"},
		Cols:  []table.Column{{Numeric: true, Floats: []float64{math.NaN(), math.NaN()}}},
	}
	got, err := Describe(frame, "s.t", "job-1", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	col := got.Columns[0]
	if col.Nulls != 2 || col.Numeric != nil {
		t.Fatalf("all-null column summary = %+v", col)
	}
}

func TestArtifactKey(t *testing.T) {
	key, err := ArtifactKey("job-42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "job-42/statistics/stats.pb"; key != want {
		t.Fatalf("key = %q, want %q", key, want)
	}

	if _, err := ArtifactKey("  "); err == nil {
		t.Fatal("expected error for blank job id")
	}
}

func TestArtifactPath(t *testing.T) {
	path, err := ArtifactPath("quarry-artifacts", "job-42")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := "quarry-artifacts/job-42/statistics/stats.pb"; path != want {
		t.Fatalf("path = %q, want %q", path, want)
	}
}

func TestEncodeNonEmpty(t *testing.T) {
	raw, err := Encode(TableStatistics{Schema: statisticsSchemaV1, JobID: "j"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("encoded statistics are empty")
	}
}
