package agent

import "fmt"

// maxErrorCount is the ceiling on consecutive same-category failures before
// the run gives up and routes to synthesis with a failure context.
const maxErrorCount = 3

// exhausted reports whether a failure counter has reached the retry ceiling.
func exhausted(count int) bool {
	return count >= maxErrorCount
}

const validationFeedback = `Your previous query was rejected for the following reason: %s
Generate a new, safe query that does not contain forbidden keywords.`

const executionFeedback = `Your previously generated query failed with a database error.
FAILED QUERY: %s
DATABASE ERROR: %s
Correct the query based on the error.`

// feedbackFor builds the error-feedback block injected into the next
// generation attempt. It is the shared half of the bounded-retry idiom used
// by both the validation and the execution retry paths; returns "" when the
// prior attempt did not fail.
func feedbackFor(st *State) string {
	switch {
	case st.ValidationErr != "" && st.ValidationErrCount > 0:
		return fmt.Sprintf(validationFeedback, st.ValidationErr)
	case isExecutionError(st.ExecutionResult) && st.ExecutionErrCount > 0:
		return fmt.Sprintf(executionFeedback, st.Query, st.ExecutionResult)
	}
	return ""
}
