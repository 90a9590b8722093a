package agent

import (
	"context"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestExecuteQuery_SuccessResetsBothCounters(t *testing.T) {
	data := &mockDataAccess{}
	data.On("Execute", mock.Anything, "hr-prod", "SELECT * FROM employees").
		Return(ExecutionOutcome{Success: true, Text: "query returned 42 rows, 3 columns"}, nil).Once()

	c := New(&mockGenerator{}, data, Options{})
	src := testSources()[0]
	st := &State{
		Query:              "SELECT * FROM employees",
		Source:             &src,
		ValidationErrCount: 2,
		ExecutionErrCount:  1,
	}

	c.executeQuery(context.Background(), st)

	assert.Equal(t, "query returned 42 rows, 3 columns", st.ExecutionResult)
	assert.False(t, isExecutionError(st.ExecutionResult))
	assert.Equal(t, 0, st.ValidationErrCount)
	assert.Equal(t, 0, st.ExecutionErrCount)
}

func TestExecuteQuery_OutcomeFailureMarksResult(t *testing.T) {
	data := &mockDataAccess{}
	data.On("Execute", mock.Anything, "hr-prod", "SELECT * FROM emp").
		Return(ExecutionOutcome{Success: false, Text: `relation "emp" does not exist`}, nil).Once()

	c := New(&mockGenerator{}, data, Options{})
	src := testSources()[0]
	st := &State{Query: "SELECT * FROM emp", Source: &src, ValidationErrCount: 1}

	c.executeQuery(context.Background(), st)

	assert.True(t, isExecutionError(st.ExecutionResult))
	assert.Contains(t, st.ExecutionResult, `relation "emp" does not exist`)
	assert.Equal(t, 0, st.ValidationErrCount)
	assert.Equal(t, 1, st.ExecutionErrCount)
}

func TestExecuteQuery_PortErrorIsAbsorbed(t *testing.T) {
	data := &mockDataAccess{}
	data.On("Execute", mock.Anything, "hr-prod", "SELECT 1").
		Return(ExecutionOutcome{}, eris.New("connection refused")).Once()

	c := New(&mockGenerator{}, data, Options{})
	src := testSources()[0]
	st := &State{Query: "SELECT 1", Source: &src}

	c.executeQuery(context.Background(), st)

	assert.True(t, isExecutionError(st.ExecutionResult))
	assert.Contains(t, st.ExecutionResult, "connection refused")
	assert.Equal(t, 1, st.ExecutionErrCount)
}

func TestExecuteQuery_ConsecutiveFailuresAccumulate(t *testing.T) {
	data := &mockDataAccess{}
	data.On("Execute", mock.Anything, "hr-prod", "SELECT 1").
		Return(ExecutionOutcome{}, eris.New("timeout")).Times(3)

	c := New(&mockGenerator{}, data, Options{})
	src := testSources()[0]
	st := &State{Query: "SELECT 1", Source: &src}

	for i := 1; i <= 3; i++ {
		c.executeQuery(context.Background(), st)
		assert.Equal(t, i, st.ExecutionErrCount)
	}
	assert.Equal(t, StageSynthesize, routeAfterExecution(st))
}
