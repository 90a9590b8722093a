package agent

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// denyList holds the mutating/DDL keywords a generated query may never
// contain as a standalone token.
var denyList = []string{
	"drop", "delete", "update", "insert", "truncate",
	"alter", "create", "grant", "revoke",
}

// ForbiddenKeywords tokenizes the query on whitespace and returns every
// deny-listed keyword found, in deny-list order. Case-insensitive, no I/O.
func ForbiddenKeywords(query string) []string {
	tokens := make(map[string]bool)
	for _, tok := range strings.Fields(strings.ToLower(query)) {
		tokens[tok] = true
	}

	var found []string
	for _, kw := range denyList {
		if tokens[kw] {
			found = append(found, kw)
		}
	}
	return found
}

// validateQuery is the state machine gate in front of execution. A rejection
// is not an error: it is recorded in state and counted against the ceiling so
// routing can decide between regeneration and giving up.
func (c *Controller) validateQuery(st *State) {
	found := ForbiddenKeywords(st.Query)
	if len(found) == 0 {
		st.ValidationErr = ""
		st.ValidationErrCount = 0
		return
	}

	quoted := make([]string, len(found))
	for i, kw := range found {
		quoted[i] = "'" + kw + "'"
	}
	st.ValidationErr = fmt.Sprintf("query contains forbidden keyword(s): %s", strings.Join(quoted, ", "))
	st.ValidationErrCount++

	zap.L().Warn("agent: query rejected",
		zap.Strings("keywords", found),
		zap.Int("validation_errors", st.ValidationErrCount),
	)
}
