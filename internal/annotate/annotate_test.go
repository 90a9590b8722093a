package annotate

import (
	"context"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// funcGenerator adapts a function to the completion interface.
type funcGenerator func(ctx context.Context, system, prompt string) (string, error)

func (f funcGenerator) Complete(ctx context.Context, system, prompt string) (string, error) {
	return f(ctx, system, prompt)
}

const twoTableSchema = `CREATE TABLE employees (
  id INTEGER NOT NULL,
  name TEXT
);

CREATE TABLE salaries (
  employee_id INTEGER NOT NULL,
  amount NUMERIC
)`

func TestAnnotate(t *testing.T) {
	gen := funcGenerator(func(ctx context.Context, system, prompt string) (string, error) {
		if strings.Contains(prompt, "employees") {
			return "Employee records.", nil
		}
		return "Salary history per employee.", nil
	})

	out, err := New(gen, 2).Annotate(context.Background(), twoTableSchema)
	require.NoError(t, err)

	assert.Contains(t, out, "-- Employee records.\nCREATE TABLE employees")
	assert.Contains(t, out, "-- Salary history per employee.\nCREATE TABLE salaries")

	// Table order is preserved.
	assert.Less(t, strings.Index(out, "employees"), strings.Index(out, "salaries"))
}

func TestAnnotate_FailedTableGetsPlaceholder(t *testing.T) {
	gen := funcGenerator(func(ctx context.Context, system, prompt string) (string, error) {
		if strings.Contains(prompt, "salaries") {
			return "", eris.New("overloaded")
		}
		return "Employee records.", nil
	})

	out, err := New(gen, 2).Annotate(context.Background(), twoTableSchema)
	require.NoError(t, err)

	assert.Contains(t, out, "-- Employee records.")
	assert.Contains(t, out, "-- "+noDescription+"\nCREATE TABLE salaries")
}

func TestAnnotate_BlankDescriptionGetsPlaceholder(t *testing.T) {
	gen := funcGenerator(func(ctx context.Context, system, prompt string) (string, error) {
		return "", nil
	})

	out, err := New(gen, 1).Annotate(context.Background(), twoTableSchema)
	require.NoError(t, err)
	assert.Contains(t, out, noDescription)
}

func TestAnnotate_MultiLineDescriptionIsCommented(t *testing.T) {
	gen := funcGenerator(func(ctx context.Context, system, prompt string) (string, error) {
		return "Line one.\nLine two.", nil
	})

	out, err := New(gen, 1).Annotate(context.Background(), "CREATE TABLE t (x INTEGER)")
	require.NoError(t, err)
	assert.Contains(t, out, "-- Line one.\n-- Line two.\nCREATE TABLE t")
}

func TestAnnotate_NoTablesReturnsInputUnchanged(t *testing.T) {
	gen := funcGenerator(func(ctx context.Context, system, prompt string) (string, error) {
		t.Fatal("should not be called")
		return "", nil
	})

	out, err := New(gen, 1).Annotate(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestAnnotate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	gen := funcGenerator(func(ctx context.Context, system, prompt string) (string, error) {
		cancel()
		<-ctx.Done()
		return "", ctx.Err()
	})

	_, err := New(gen, 1).Annotate(ctx, twoTableSchema)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSplitTables(t *testing.T) {
	blocks := splitTables(twoTableSchema)
	require.Len(t, blocks, 2)
	assert.Contains(t, blocks[0], "employees")
	assert.Contains(t, blocks[1], "salaries")
	// Trailing semicolons are stripped.
	assert.NotContains(t, blocks[0], ";")
}

func TestSplitTables_IgnoresNonTableBlocks(t *testing.T) {
	blocks := splitTables("CREATE INDEX idx ON t(x);\n\nCREATE TABLE t (x INTEGER)")
	require.Len(t, blocks, 1)
	assert.Contains(t, blocks[0], "CREATE TABLE t")
}
