package agent

import "github.com/rotisserie/eris"

// Fatal run errors. These are the only errors that escape Controller.Run;
// retryable validation and execution failures are encoded in State instead.
var (
	// ErrNoSources means the data port reported zero available sources.
	ErrNoSources = eris.New("agent: no data sources available")

	// ErrGeneration means the generation stage could not produce a parseable
	// query payload. The controller's own retry loop re-enters generation on
	// validation/execution failures; a generation failure itself is terminal.
	ErrGeneration = eris.New("agent: query generation failed")
)
