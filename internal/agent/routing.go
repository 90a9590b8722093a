package agent

// Routing policy: pure functions mapping the current state to the next stage.
// The ceiling check always wins over the retry check so the run can never
// loop past the error budget.

func routeAfterIntent(st *State) Stage {
	if st.Intent == IntentSQL {
		return StageSelectSource
	}
	return StageDeclineUnsupported
}

func routeAfterValidation(st *State) Stage {
	if exhausted(st.ValidationErrCount) {
		return StageSynthesize
	}
	if st.ValidationErr != "" {
		return StageGenerateQuery
	}
	return StageExecuteQuery
}

func routeAfterExecution(st *State) Stage {
	if exhausted(st.ExecutionErrCount) {
		return StageSynthesize
	}
	if isExecutionError(st.ExecutionResult) {
		return StageGenerateQuery
	}
	return StageSynthesize
}
