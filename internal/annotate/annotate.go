// Package annotate enriches schema text with model-written table
// descriptions so that query generation has business context to work with.
package annotate

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/askdb/internal/agent"
)

const defaultConcurrency = 8

// noDescription marks tables whose annotation call failed. Annotation is
// best effort; one bad table must not sink the rest.
const noDescription = "No description available."

const annotateSystemPrompt = `You are a data documentation assistant. Given the DDL for one database table, write a single short paragraph describing what the table contains and what it would be used for. Respond with the paragraph only.`

const annotateUserPrompt = `Table definition:
%s

Description:`

// Annotator writes per-table descriptions into schema text.
type Annotator struct {
	gen         agent.Generator
	concurrency int
}

// New creates an Annotator. Concurrency bounds the number of in-flight
// description calls.
func New(gen agent.Generator, concurrency int) *Annotator {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Annotator{gen: gen, concurrency: concurrency}
}

// Annotate returns the schema with a comment block above each table
// definition. Tables whose description call fails are annotated with a
// placeholder. The input is returned unchanged when it contains no tables.
func (a *Annotator) Annotate(ctx context.Context, schema string) (string, error) {
	blocks := splitTables(schema)
	if len(blocks) == 0 {
		return schema, nil
	}

	descriptions := make([]string, len(blocks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)

	for i, block := range blocks {
		g.Go(func() error {
			desc, err := a.gen.Complete(gctx, annotateSystemPrompt, fmt.Sprintf(annotateUserPrompt, block))
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				zap.L().Warn("table annotation failed",
					zap.Int("table_index", i),
					zap.Error(err))
				desc = ""
			}
			if desc == "" {
				desc = noDescription
			}
			descriptions[i] = desc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", err
	}

	annotated := make([]string, len(blocks))
	for i, block := range blocks {
		annotated[i] = comment(descriptions[i]) + "\n" + block
	}
	return strings.Join(annotated, "\n\n"), nil
}

// splitTables breaks schema text into per-table blocks on blank lines.
// Blocks that do not look like table definitions are dropped.
func splitTables(schema string) []string {
	var blocks []string
	for _, block := range strings.Split(schema, "\n\n") {
		block = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(block), ";"))
		if block == "" {
			continue
		}
		upper := strings.ToUpper(block)
		if strings.Contains(upper, "TABLE ") {
			blocks = append(blocks, block)
		}
	}
	return blocks
}

// comment renders text as SQL line comments.
func comment(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, line := range lines {
		lines[i] = "-- " + line
	}
	return strings.Join(lines, "\n")
}
