package agent

// Intent is the classified category of an incoming question.
type Intent string

const (
	// IntentUnknown means classification has not run yet.
	IntentUnknown Intent = ""
	// IntentSQL marks questions answerable by querying a data source.
	IntentSQL Intent = "SQL"
	// IntentOther marks everything else.
	IntentOther Intent = "OTHER"
)

// Message is one prior conversation turn supplied by the caller.
type Message struct {
	Role    string `json:"role"` // "user" or "assistant"
	Content string `json:"content"`
}

// State is the single unit of truth threaded through one workflow run.
// It is exclusively owned by its run and never shared across runs.
type State struct {
	// Immutable inputs.
	Question string
	History  []Message

	// Set once by the intent stage, never revisited.
	Intent Intent

	// Set once by the source stage, read thereafter.
	Source       *SourceDescriptor
	SourceSchema string

	// Current best query text, overwritten on every (re)generation.
	Query string

	// Non-empty only immediately after a failed validation; cleared on a
	// successful validation or a new generation.
	ValidationErr      string
	ValidationErrCount int

	// Outcome text of the last execution attempt. Failures carry the
	// execErrorPrefix marker so routing can detect them without an error value.
	ExecutionResult   string
	ExecutionErrCount int

	// Set exactly once by a terminal stage; marks run completion.
	FinalResponse string
}
