package agent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

const intentSystemPrompt = `You classify user questions for a database assistant. Respond with exactly one word: SQL if the question can be answered by querying a database (data lookups, counts, reports, analysis of stored records), otherwise OTHER.`

const intentUserPrompt = `%sQuestion: %s

Label:`

// classifyIntent sets st.Intent from a single classification call. It fails
// open: a port error defaults the intent to SQL so classification problems
// never block the user from the main path.
func (c *Controller) classifyIntent(ctx context.Context, st *State) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.GenTimeout)
	defer cancel()

	prompt := fmt.Sprintf(intentUserPrompt, historyBlock(st.History), st.Question)
	label, err := c.gen.Complete(ctx, intentSystemPrompt, prompt)
	if err != nil {
		zap.L().Warn("agent: intent classification failed, defaulting to SQL", zap.Error(err))
		st.Intent = IntentSQL
		return
	}

	if strings.EqualFold(strings.TrimSpace(label), string(IntentSQL)) {
		st.Intent = IntentSQL
	} else {
		st.Intent = IntentOther
	}
	zap.L().Debug("agent: intent classified", zap.String("intent", string(st.Intent)))
}
