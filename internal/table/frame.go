package table

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Frame is a columnar view of a tabular dataset. Columns are parallel to
// Names; every column holds the same number of rows.
type Frame struct {
	Names []string
	Cols  []Column
}

// Column holds either numeric or text values. For numeric columns NaN marks
// a null cell; for text columns the Nulls slice does.
type Column struct {
	Numeric bool
	Floats  []float64
	Strings []string
	Nulls   []bool
}

func (c Column) Len() int {
	if c.Numeric {
		return len(c.Floats)
	}
	return len(c.Strings)
}

// Rows returns the number of rows in the frame.
func (f Frame) Rows() int {
	if len(f.Cols) == 0 {
		return 0
	}
	return f.Cols[0].Len()
}

// Col returns the column with the given name.
func (f Frame) Col(name string) (Column, bool) {
	for i, n := range f.Names {
		if n == name {
			return f.Cols[i], true
		}
	}
	return Column{}, false
}

func (f Frame) Validate() error {
	if len(f.Names) != len(f.Cols) {
		return fmt.Errorf("frame has %d names but %d columns", len(f.Names), len(f.Cols))
	}
	seen := make(map[string]struct{}, len(f.Names))
	for i, name := range f.Names {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("column[%d] name is required", i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("duplicate column name %q", name)
		}
		seen[name] = struct{}{}
	}
	rows := -1
	for i, col := range f.Cols {
		if rows == -1 {
			rows = col.Len()
			continue
		}
		if col.Len() != rows {
			return fmt.Errorf("column %q has %d rows, want %d", f.Names[i], col.Len(), rows)
		}
	}
	return nil
}

// SplitLabel removes the named label column and returns the remaining columns
// as a row-major feature matrix plus the label values formatted as strings.
// Every feature column must be numeric and free of nulls.
func (f Frame) SplitLabel(label string) ([][]float64, []string, error) {
	if err := f.Validate(); err != nil {
		return nil, nil, err
	}
	if f.Rows() == 0 {
		return nil, nil, errors.New("frame has no rows")
	}

	labelIdx := -1
	for i, name := range f.Names {
		if name == label {
			labelIdx = i
			break
		}
	}
	if labelIdx == -1 {
		return nil, nil, fmt.Errorf("label column %q not found", label)
	}

	rows := f.Rows()
	features := make([][]float64, rows)
	for r := range features {
		features[r] = make([]float64, 0, len(f.Cols)-1)
	}
	for i, col := range f.Cols {
		if i == labelIdx {
			continue
		}
		if !col.Numeric {
			return nil, nil, fmt.Errorf("feature column %q is not numeric", f.Names[i])
		}
		for r := 0; r < rows; r++ {
			v := col.Floats[r]
			if math.IsNaN(v) {
				return nil, nil, fmt.Errorf("feature column %q has null at row %d", f.Names[i], r)
			}
			features[r] = append(features[r], v)
		}
	}

	labels := make([]string, rows)
	labelCol := f.Cols[labelIdx]
	for r := 0; r < rows; r++ {
		if labelCol.Numeric {
			v := labelCol.Floats[r]
			if math.IsNaN(v) {
				return nil, nil, fmt.Errorf("label column %q has null at row %d", label, r)
			}
			labels[r] = strconv.FormatFloat(v, 'g', -1, 64)
			continue
		}
		if r < len(labelCol.Nulls) && labelCol.Nulls[r] {
			return nil, nil, fmt.Errorf("label column %q has null at row %d", label, r)
		}
		labels[r] = labelCol.Strings[r]
	}
	return features, labels, nil
}
