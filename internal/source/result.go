package source

import (
	"fmt"
	"strings"
	"time"
)

// ResultSet holds the tabular output of a query with all values rendered
// as strings.
type ResultSet struct {
	Columns []string
	Rows    [][]string
}

// Summary returns a one-line description of the result shape.
func (rs *ResultSet) Summary() string {
	return fmt.Sprintf("query returned %d rows, %d columns", len(rs.Rows), len(rs.Columns))
}

// Render returns the summary followed by a pipe-delimited preview of up to
// maxRows rows. The output is intended as model context, not display.
func (rs *ResultSet) Render(maxRows int) string {
	var b strings.Builder
	b.WriteString(rs.Summary())

	if len(rs.Columns) == 0 {
		return b.String()
	}

	b.WriteString("\n\n")
	b.WriteString(strings.Join(rs.Columns, " | "))

	shown := len(rs.Rows)
	if maxRows > 0 && shown > maxRows {
		shown = maxRows
	}
	for _, row := range rs.Rows[:shown] {
		b.WriteString("\n")
		b.WriteString(strings.Join(row, " | "))
	}
	if remaining := len(rs.Rows) - shown; remaining > 0 {
		fmt.Fprintf(&b, "\n... (%d more rows)", remaining)
	}
	return b.String()
}

// formatValue renders a scanned database value as a string.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	case string:
		return val
	default:
		return fmt.Sprint(val)
	}
}
