package agent

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

// execErrorPrefix marks an execution failure in State.ExecutionResult.
// Routing detects failure by this marker; execution errors are never raised
// to the controller.
const execErrorPrefix = "execution error:"

func isExecutionError(result string) bool {
	return strings.HasPrefix(result, execErrorPrefix)
}

// executeQuery runs the validated query against the selected source with a
// bounded timeout. Success resets both error counters; failure is encoded in
// state and counted against the execution ceiling.
func (c *Controller) executeQuery(ctx context.Context, st *State) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.ExecTimeout)
	defer cancel()

	outcome, err := c.data.Execute(ctx, st.Source.ID, st.Query)
	if err != nil || !outcome.Success {
		detail := outcome.Text
		if err != nil {
			detail = err.Error()
		}
		st.ExecutionResult = execErrorPrefix + " " + detail
		st.ValidationErrCount = 0
		st.ExecutionErrCount++

		zap.L().Warn("agent: query execution failed",
			zap.String("source_id", st.Source.ID),
			zap.Int("execution_errors", st.ExecutionErrCount),
			zap.String("detail", detail),
		)
		return
	}

	st.ExecutionResult = outcome.Text
	st.ValidationErrCount = 0
	st.ExecutionErrCount = 0
	zap.L().Debug("agent: query executed", zap.String("source_id", st.Source.ID))
}
