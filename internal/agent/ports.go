package agent

import "context"

// Generator is the text-completion port. Implementations live outside the
// core (internal/llm); tests substitute a mock.
type Generator interface {
	// Complete performs a single-shot completion and returns the response text.
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// DataAccess is the data-source port: source discovery and query execution.
// Implementations (internal/source) own connection pooling, caching, and any
// internal synchronization; the core only requires that repeated calls within
// one run are idempotent reads.
type DataAccess interface {
	ListSources(ctx context.Context) ([]SourceDescriptor, error)
	Execute(ctx context.Context, sourceID, query string) (ExecutionOutcome, error)
}

// SourceDescriptor identifies a queryable data source and its schema context.
type SourceDescriptor struct {
	ID          string
	DisplayName string
	Description string

	// SchemaText is the textual schema used to ground query generation.
	// May be empty, in which case a minimal description is derived from
	// the connection fields below.
	SchemaText string

	Driver string
	Host   string
	Port   int
}

// ExecutionOutcome is the result of running a query against a source.
// Failures are reported in-band: Success false with Text describing the error.
type ExecutionOutcome struct {
	Success bool
	Text    string
}
