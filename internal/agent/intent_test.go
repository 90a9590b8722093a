package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestClassifyIntent_SQLLabel(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Complete", mock.Anything, intentSystemPrompt, mock.AnythingOfType("string")).
		Return("  sql \n", nil).Once()

	c := New(gen, &mockDataAccess{}, Options{})
	st := &State{Question: "How many employees do we have?"}

	c.classifyIntent(context.Background(), st)

	assert.Equal(t, IntentSQL, st.Intent)
	gen.AssertExpectations(t)
}

func TestClassifyIntent_OtherLabel(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Complete", mock.Anything, intentSystemPrompt, mock.AnythingOfType("string")).
		Return("OTHER", nil).Once()

	c := New(gen, &mockDataAccess{}, Options{})
	st := &State{Question: "What's the weather?"}

	c.classifyIntent(context.Background(), st)

	assert.Equal(t, IntentOther, st.Intent)
}

func TestClassifyIntent_PortErrorFailsOpen(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Complete", mock.Anything, intentSystemPrompt, mock.AnythingOfType("string")).
		Return("", eris.New("model unavailable")).Once()

	c := New(gen, &mockDataAccess{}, Options{})
	st := &State{Question: "How many employees do we have?"}

	c.classifyIntent(context.Background(), st)

	assert.Equal(t, IntentSQL, st.Intent)
}

func TestClassifyIntent_PromptIncludesHistory(t *testing.T) {
	gen := &mockGenerator{}
	gen.On("Complete", mock.Anything, intentSystemPrompt, mock.MatchedBy(func(prompt string) bool {
		return strings.Contains(prompt, "user: show me last month's totals") &&
			strings.Contains(prompt, "Question: And this month?")
	})).Return("SQL", nil).Once()

	c := New(gen, &mockDataAccess{}, Options{})
	st := &State{
		Question: "And this month?",
		History:  []Message{{Role: "user", Content: "show me last month's totals"}},
	}

	c.classifyIntent(context.Background(), st)
	gen.AssertExpectations(t)
}
