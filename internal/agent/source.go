package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const selectSourceSystemPrompt = `You pick the data source best suited to answer a user's question. Respond with the display name of exactly one source from the provided list, and nothing else.`

const selectSourceUserPrompt = `Available sources:
%s

%sQuestion: %s

Source:`

// selectSource chooses a source profile for the run and derives the schema
// context for generation. Zero available sources is fatal; an unmatched or
// failed selection falls back to the first listed profile.
func (c *Controller) selectSource(ctx context.Context, st *State) error {
	sources, err := c.data.ListSources(ctx)
	if err != nil {
		return eris.Wrap(err, "agent: list sources")
	}
	if len(sources) == 0 {
		return eris.Wrap(ErrNoSources, "agent: select source")
	}

	var options strings.Builder
	for _, s := range sources {
		fmt.Fprintf(&options, "- %s: %s\n", s.DisplayName, s.Description)
	}

	genCtx, cancel := context.WithTimeout(ctx, c.opts.GenTimeout)
	defer cancel()

	prompt := fmt.Sprintf(selectSourceUserPrompt, options.String(), historyBlock(st.History), st.Question)
	choice, err := c.gen.Complete(genCtx, selectSourceSystemPrompt, prompt)
	if err != nil {
		zap.L().Warn("agent: source selection call failed, using first source", zap.Error(err))
		choice = ""
	}

	selected := matchSource(sources, strings.TrimSpace(choice))
	if selected == nil {
		zap.L().Info("agent: no source matched selection, using first source",
			zap.String("selection", strings.TrimSpace(choice)),
		)
		selected = &sources[0]
	}

	st.Source = selected
	st.SourceSchema = schemaContext(selected)
	zap.L().Debug("agent: source selected",
		zap.String("source_id", selected.ID),
		zap.String("display_name", selected.DisplayName),
	)
	return nil
}

// matchSource resolves a model-chosen display name to a descriptor: exact
// match first, then substring in either direction. Returns nil if nothing
// matches or the choice is empty.
func matchSource(sources []SourceDescriptor, choice string) *SourceDescriptor {
	if choice == "" {
		return nil
	}
	for i := range sources {
		if strings.EqualFold(sources[i].DisplayName, choice) {
			return &sources[i]
		}
	}
	lower := strings.ToLower(choice)
	for i := range sources {
		name := strings.ToLower(sources[i].DisplayName)
		if strings.Contains(name, lower) || strings.Contains(lower, name) {
			return &sources[i]
		}
	}
	return nil
}

// schemaContext returns the grounding text for generation: the source's
// schema payload when present, else a minimal description of the connection.
func schemaContext(s *SourceDescriptor) string {
	if s.SchemaText != "" {
		return s.SchemaText
	}
	return fmt.Sprintf("Source type: %s\nHost: %s\nPort: %d\nNo detailed schema information is available. Use standard SQL syntax.",
		s.Driver, s.Host, s.Port)
}
