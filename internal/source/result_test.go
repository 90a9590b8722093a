package source

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResultSet_Summary(t *testing.T) {
	rs := &ResultSet{
		Columns: []string{"name", "count"},
		Rows:    [][]string{{"a", "1"}, {"b", "2"}},
	}
	assert.Equal(t, "query returned 2 rows, 2 columns", rs.Summary())
}

func TestResultSet_Render(t *testing.T) {
	rs := &ResultSet{
		Columns: []string{"name", "count"},
		Rows:    [][]string{{"a", "1"}, {"b", "2"}, {"c", "3"}},
	}

	out := rs.Render(2)
	assert.Contains(t, out, "query returned 3 rows, 2 columns")
	assert.Contains(t, out, "name | count")
	assert.Contains(t, out, "a | 1")
	assert.Contains(t, out, "b | 2")
	assert.NotContains(t, out, "c | 3")
	assert.Contains(t, out, "... (1 more rows)")
}

func TestResultSet_RenderAllRowsWithinLimit(t *testing.T) {
	rs := &ResultSet{
		Columns: []string{"x"},
		Rows:    [][]string{{"1"}},
	}
	out := rs.Render(20)
	assert.Contains(t, out, "1")
	assert.NotContains(t, out, "more rows")
}

func TestResultSet_RenderEmpty(t *testing.T) {
	rs := &ResultSet{}
	assert.Equal(t, "query returned 0 rows, 0 columns", rs.Render(20))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "NULL", formatValue(nil))
	assert.Equal(t, "hello", formatValue("hello"))
	assert.Equal(t, "bytes", formatValue([]byte("bytes")))
	assert.Equal(t, "42", formatValue(int64(42)))
	assert.Equal(t, "3.5", formatValue(3.5))

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-03-01T12:00:00Z", formatValue(ts))
}
