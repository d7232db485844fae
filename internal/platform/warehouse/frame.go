package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/quarry-ml/quarry-go/internal/table"
)

// ReadFrame loads the full contents of the referenced table into a Frame.
// Column order follows the table definition. Numeric SQL types become float64
// columns with NaN for NULL; everything else is read as text.
func ReadFrame(ctx context.Context, db *sql.DB, ref TableRef) (table.Frame, error) {
	if db == nil {
		return table.Frame{}, fmt.Errorf("warehouse handle is required")
	}

	rows, err := db.QueryContext(ctx, "SELECT * FROM "+ref.Relation())
	if err != nil {
		return table.Frame{}, fmt.Errorf("read table %s: %w", ref, err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return table.Frame{}, fmt.Errorf("columns of %s: %w", ref, err)
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		return table.Frame{}, fmt.Errorf("column types of %s: %w", ref, err)
	}

	frame := table.Frame{
		Names: names,
		Cols:  make([]table.Column, len(names)),
	}
	for i, ct := range types {
		frame.Cols[i].Numeric = isNumericType(ct.DatabaseTypeName())
	}

	dest := make([]any, len(names))
	for rows.Next() {
		for i := range dest {
			if frame.Cols[i].Numeric {
				dest[i] = new(sql.NullFloat64)
			} else {
				dest[i] = new(sql.NullString)
			}
		}
		if err := rows.Scan(dest...); err != nil {
			return table.Frame{}, fmt.Errorf("scan row of %s: %w", ref, err)
		}
		for i := range dest {
			col := &frame.Cols[i]
			if col.Numeric {
				v := dest[i].(*sql.NullFloat64)
				if v.Valid {
					col.Floats = append(col.Floats, v.Float64)
				} else {
					col.Floats = append(col.Floats, math.NaN())
				}
				continue
			}
			v := dest[i].(*sql.NullString)
			col.Strings = append(col.Strings, v.String)
			col.Nulls = append(col.Nulls, !v.Valid)
		}
	}
	if err := rows.Err(); err != nil {
		return table.Frame{}, fmt.Errorf("read table %s: %w", ref, err)
	}
	if err := frame.Validate(); err != nil {
		return table.Frame{}, fmt.Errorf("table %s: %w", ref, err)
	}
	return frame, nil
}

func isNumericType(typeName string) bool {
	switch typeName {
	case "INT2", "INT4", "INT8", "FLOAT4", "FLOAT8", "NUMERIC", "DECIMAL":
		return true
	default:
		return false
	}
}
