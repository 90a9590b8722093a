package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const generateSystemPrompt = `You write read-only SQL for a database assistant. Given a schema and a question, respond with a valid JSON object: {"query": "<single SQL statement>"}. Return JSON only, no commentary.`

const generateUserPrompt = `Schema:
%s

%sQuestion: %s
%s
JSON:`

// generateQuery asks the generator for a structured query payload and parses
// out the query text. Any port or parse failure here is fatal to the run;
// retries are driven by the controller re-entering this stage from a
// validation or execution failure, never by this stage itself.
func (c *Controller) generateQuery(ctx context.Context, st *State) error {
	feedback := feedbackFor(st)
	if feedback != "" {
		feedback = "\n" + feedback + "\n"
	}

	ctx, cancel := context.WithTimeout(ctx, c.opts.GenTimeout)
	defer cancel()

	prompt := fmt.Sprintf(generateUserPrompt, st.SourceSchema, historyBlock(st.History), st.Question, feedback)
	out, err := c.gen.Complete(ctx, generateSystemPrompt, prompt)
	if err != nil {
		return eris.Wrap(err, "agent: generate query")
	}

	query, err := parseQueryPayload(out)
	if err != nil {
		return eris.Wrap(err, "agent: parse generated query")
	}

	st.Query = query
	st.ValidationErr = ""
	st.ExecutionResult = ""
	zap.L().Debug("agent: query generated", zap.String("query", query))
	return nil
}

// parseQueryPayload extracts the query text from a {"query": "..."} payload,
// tolerating a surrounding markdown fence.
func parseQueryPayload(text string) (string, error) {
	var payload struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(stripFences(text)), &payload); err != nil {
		return "", eris.Wrap(ErrGeneration, "unmarshal query payload")
	}
	if payload.Query == "" {
		return "", eris.Wrap(ErrGeneration, "empty query in payload")
	}
	return payload.Query, nil
}
