package agent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const synthesizeSystemPrompt = `You are a database assistant answering a user in natural language. Use the provided context to answer their question. If the context describes a failure, apologize briefly and explain what went wrong in plain language; never show stack traces or internal error codes.`

const synthesizeUserPrompt = `%sQuestion: %s

Context:
%s

Answer:`

const successContext = `The query below was executed successfully to answer the user's question.
Query: %s
Result: %s`

const failureContext = `Attempts to answer the user's question failed after repeated retries.
Failure category: %s
Last error: %s`

// declineMessage is the fixed response for questions outside the assistant's
// scope. Deterministic; the unsupported path performs no I/O.
const declineMessage = "Sorry, I can't help with that question. I can only answer questions about your registered data sources - try asking about the data itself, such as lookups, counts, or reports."

// synthesize produces the final natural-language response from either a
// success context or a failure context, falling back to a deterministic
// template on a port error so the run always terminates with a response.
func (c *Controller) synthesize(ctx context.Context, st *State) {
	block := synthesisContext(st)

	genCtx, cancel := context.WithTimeout(ctx, c.opts.GenTimeout)
	defer cancel()

	prompt := fmt.Sprintf(synthesizeUserPrompt, historyBlock(st.History), st.Question, block)
	out, err := c.gen.Complete(genCtx, synthesizeSystemPrompt, prompt)
	if err != nil || strings.TrimSpace(out) == "" {
		zap.L().Warn("agent: response synthesis failed, using fallback", zap.Error(err))
		st.FinalResponse = fallbackResponse(st)
		return
	}
	st.FinalResponse = strings.TrimSpace(out)
}

// synthesisContext builds the context block: a failure block naming the
// category that hit the ceiling, or a success block with query and result.
func synthesisContext(st *State) string {
	switch {
	case exhausted(st.ValidationErrCount):
		return fmt.Sprintf(failureContext, "query validation", st.ValidationErr)
	case exhausted(st.ExecutionErrCount):
		return fmt.Sprintf(failureContext, "query execution", st.ExecutionResult)
	default:
		return fmt.Sprintf(successContext, st.Query, st.ExecutionResult)
	}
}

func fallbackResponse(st *State) string {
	switch {
	case exhausted(st.ValidationErrCount):
		return fmt.Sprintf("I wasn't able to produce a safe query for that question. Last problem: %s", st.ValidationErr)
	case exhausted(st.ExecutionErrCount):
		return fmt.Sprintf("I wasn't able to run a query for that question. Last problem: %s", st.ExecutionResult)
	default:
		return fmt.Sprintf("The query ran successfully. %s", st.ExecutionResult)
	}
}

// declineUnsupported is the terminal stage for non-SQL questions.
func declineUnsupported(st *State) {
	st.FinalResponse = declineMessage
}
