// Package agent implements the question-to-answer workflow: classify the
// question, pick a data source, generate a read-only query, validate and
// execute it, and synthesize a natural-language answer. Validation and
// execution failures feed a bounded retry loop back through generation; the
// stage topology is fixed and checked at compile time.
package agent

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Options tunes the per-call timeouts applied to port calls. Zero values
// take the defaults below.
type Options struct {
	// GenTimeout bounds classification, generation, and synthesis calls.
	GenTimeout time.Duration
	// ExecTimeout bounds query execution.
	ExecTimeout time.Duration
}

const (
	defaultGenTimeout  = 15 * time.Second
	defaultExecTimeout = 45 * time.Second
)

func (o Options) withDefaults() Options {
	if o.GenTimeout <= 0 {
		o.GenTimeout = defaultGenTimeout
	}
	if o.ExecTimeout <= 0 {
		o.ExecTimeout = defaultExecTimeout
	}
	return o
}

// Controller owns the stage table and routing policy and drives one run to a
// terminal state. A single Controller serves many concurrent runs; all
// per-run state lives in the State value created by Run.
type Controller struct {
	gen  Generator
	data DataAccess
	opts Options
}

// New creates a Controller with explicitly injected ports.
func New(gen Generator, data DataAccess, opts Options) *Controller {
	return &Controller{
		gen:  gen,
		data: data,
		opts: opts.withDefaults(),
	}
}

// Run answers one question, driving the pipeline until a terminal stage sets
// the final response. Only fatal errors (no sources, generation failure,
// cancellation) are returned; retryable failures are absorbed by the routing
// policy. The returned string is always non-empty on a nil error.
func (c *Controller) Run(ctx context.Context, question string, history []Message) (string, error) {
	st := &State{Question: question, History: history}
	log := zap.L().With(zap.String("run_id", uuid.NewString()))
	log.Info("agent: run started", zap.String("question", question))

	stage := StageClassifyIntent
	for stage != StageDone {
		if err := ctx.Err(); err != nil {
			return "", eris.Wrap(err, "agent: run cancelled")
		}

		log.Debug("agent: entering stage", zap.Stringer("stage", stage))
		next, err := c.step(ctx, stage, st)
		if err != nil {
			log.Error("agent: run failed", zap.Stringer("stage", stage), zap.Error(err))
			return "", err
		}
		stage = next
	}

	log.Info("agent: run complete",
		zap.Int("validation_errors", st.ValidationErrCount),
		zap.Int("execution_errors", st.ExecutionErrCount),
	)
	return st.FinalResponse, nil
}

// step invokes one stage and returns the next stage from the routing policy.
func (c *Controller) step(ctx context.Context, stage Stage, st *State) (Stage, error) {
	switch stage {
	case StageClassifyIntent:
		c.classifyIntent(ctx, st)
		return routeAfterIntent(st), nil

	case StageSelectSource:
		if err := c.selectSource(ctx, st); err != nil {
			return StageDone, err
		}
		return StageGenerateQuery, nil

	case StageGenerateQuery:
		if err := c.generateQuery(ctx, st); err != nil {
			return StageDone, err
		}
		return StageValidateQuery, nil

	case StageValidateQuery:
		c.validateQuery(st)
		return routeAfterValidation(st), nil

	case StageExecuteQuery:
		c.executeQuery(ctx, st)
		return routeAfterExecution(st), nil

	case StageSynthesize:
		c.synthesize(ctx, st)
		return StageDone, nil

	case StageDeclineUnsupported:
		declineUnsupported(st)
		return StageDone, nil

	default:
		return StageDone, eris.Errorf("agent: no handler for stage %s", stage)
	}
}
