package main

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/askdb/internal/agent"
	"github.com/sells-group/askdb/internal/annotate"
	"github.com/sells-group/askdb/internal/llm"
	"github.com/sells-group/askdb/internal/source"
	anthropicpkg "github.com/sells-group/askdb/pkg/anthropic"
)

// appEnv holds the initialized clients and services shared by the ask,
// serve, and annotate commands.
type appEnv struct {
	Sources   *source.Service
	Completer *llm.Completer
	Agent     *agent.Controller
	Annotator *annotate.Annotator
}

// Close releases resources held by the environment.
func (e *appEnv) Close() {
	if e.Sources != nil {
		_ = e.Sources.Close()
	}
}

// initEnv loads the source registry and builds the agent with its ports.
// Callers should defer env.Close().
func initEnv() (*appEnv, error) {
	if cfg.Anthropic.Key == "" {
		return nil, eris.New("ASKDB_ANTHROPIC_KEY is required")
	}

	reg, err := source.LoadRegistry(cfg.Sources.File)
	if err != nil {
		return nil, err
	}
	svc := source.NewService(reg)

	client := anthropicpkg.NewClient(cfg.Anthropic.Key)
	completer := llm.New(client, cfg.Anthropic)

	ctrl := agent.New(completer, svc, agent.Options{
		GenTimeout:  time.Duration(cfg.Agent.GenTimeoutSecs) * time.Second,
		ExecTimeout: time.Duration(cfg.Agent.ExecTimeoutSecs) * time.Second,
	})

	return &appEnv{
		Sources:   svc,
		Completer: completer,
		Agent:     ctrl,
		Annotator: annotate.New(completer, cfg.Annotate.Concurrency),
	}, nil
}
