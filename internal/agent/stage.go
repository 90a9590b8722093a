package agent

// Stage identifies one unit of work in the pipeline. The topology is fixed:
// stages are dispatched through the controller's function table and routing
// is decided by the pure functions in routing.go.
type Stage int

const (
	StageClassifyIntent Stage = iota
	StageSelectSource
	StageGenerateQuery
	StageValidateQuery
	StageExecuteQuery
	StageSynthesize
	StageDeclineUnsupported
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageClassifyIntent:
		return "classify_intent"
	case StageSelectSource:
		return "select_source"
	case StageGenerateQuery:
		return "generate_query"
	case StageValidateQuery:
		return "validate_query"
	case StageExecuteQuery:
		return "execute_query"
	case StageSynthesize:
		return "synthesize"
	case StageDeclineUnsupported:
		return "decline_unsupported"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}
