package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSynthesize_SuccessContext(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Complete", mock.Anything, synthesizeSystemPrompt, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "executed successfully") &&
			strings.Contains(prompt, "SELECT * FROM employees") &&
			strings.Contains(prompt, "42 rows")
	})).Return("There are 42 employees on record.", nil).Once()

	c := New(gen, &mockDataAccess{}, Options{})
	st := &State{
		Question:        "Show all employees",
		Query:           "SELECT * FROM employees",
		ExecutionResult: "query returned 42 rows, 3 columns",
	}

	c.synthesize(context.Background(), st)

	assert.Equal(t, "There are 42 employees on record.", st.FinalResponse)
	gen.AssertExpectations(t)
}

func TestSynthesize_ValidationFailureContext(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Complete", mock.Anything, synthesizeSystemPrompt, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "query validation") &&
			strings.Contains(prompt, "'drop'")
	})).Return("I couldn't build a safe query for that request.", nil).Once()

	c := New(gen, &mockDataAccess{}, Options{})
	st := &State{
		Question:           "Remove the employees table",
		ValidationErr:      "query contains forbidden keyword(s): 'drop'",
		ValidationErrCount: maxErrorCount,
	}

	c.synthesize(context.Background(), st)
	assert.Equal(t, "I couldn't build a safe query for that request.", st.FinalResponse)
}

func TestSynthesize_ExecutionFailureContext(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Complete", mock.Anything, synthesizeSystemPrompt, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "query execution") &&
			strings.Contains(prompt, "relation \"emp\" does not exist")
	})).Return("I couldn't run a working query against the database.", nil).Once()

	c := New(gen, &mockDataAccess{}, Options{})
	st := &State{
		Question:          "Show all employees",
		Query:             "SELECT * FROM emp",
		ExecutionResult:   execErrorPrefix + ` relation "emp" does not exist`,
		ExecutionErrCount: maxErrorCount,
	}

	c.synthesize(context.Background(), st)
	assert.NotEmpty(t, st.FinalResponse)
}

func TestSynthesize_PortErrorUsesFallback(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Complete", mock.Anything, synthesizeSystemPrompt, mock.AnythingOfType("string")).
		Return("", eris.New("model unavailable")).Once()

	c := New(gen, &mockDataAccess{}, Options{})
	st := &State{
		Question:        "Show all employees",
		Query:           "SELECT * FROM employees",
		ExecutionResult: "query returned 42 rows, 3 columns",
	}

	c.synthesize(context.Background(), st)

	assert.NotEmpty(t, st.FinalResponse)
	assert.Contains(t, st.FinalResponse, "42 rows")
}

func TestSynthesize_EmptyCompletionUsesFallback(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Complete", mock.Anything, synthesizeSystemPrompt, mock.AnythingOfType("string")).
		Return("   \n", nil).Once()

	c := New(gen, &mockDataAccess{}, Options{})
	st := &State{
		Question:           "Remove the table",
		ValidationErr:      "query contains forbidden keyword(s): 'drop'",
		ValidationErrCount: maxErrorCount,
	}

	c.synthesize(context.Background(), st)
	assert.Contains(t, st.FinalResponse, "'drop'")
}

func TestDeclineUnsupported(t *testing.T) {
	st := &State{Question: "What's the weather?"}
	declineUnsupported(st)
	assert.Equal(t, declineMessage, st.FinalResponse)
}
