package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/askdb/internal/agent"
)

var servePort int

// questionRunner answers one question. Satisfied by *agent.Controller.
type questionRunner interface {
	Run(ctx context.Context, question string, history []agent.Message) (string, error)
}

// sourceCatalog exposes source listing and schema management. Satisfied by
// *source.Service.
type sourceCatalog interface {
	ListSources(ctx context.Context) ([]agent.SourceDescriptor, error)
	Schema(ctx context.Context, sourceID string) (string, error)
	SetSchema(sourceID, schema string)
}

// schemaAnnotator writes table descriptions into schema text. Satisfied by
// *annotate.Annotator.
type schemaAnnotator interface {
	Annotate(ctx context.Context, schema string) (string, error)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initEnv()
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(env.Agent, env.Sources, env.Annotator),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

func newRouter(runner questionRunner, catalog sourceCatalog, annotator schemaAnnotator) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		descs, err := catalog.ListSources(req.Context())
		if err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"status": "degraded"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sources": len(descs)})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/chat", handleChat(runner))
		r.Get("/sources", handleListSources(catalog))
		r.Post("/sources/{id}/annotate", handleAnnotate(catalog, annotator))
	})

	return r
}

type chatRequest struct {
	Question string          `json:"question"`
	History  []agent.Message `json:"history,omitempty"`
}

type chatResponse struct {
	Answer string `json:"answer"`
}

func handleChat(runner questionRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body chatRequest
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if body.Question == "" {
			writeError(w, http.StatusBadRequest, "question is required")
			return
		}

		answer, err := runner.Run(req.Context(), body.Question, body.History)
		if err != nil {
			zap.L().Error("chat run failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "run failed")
			return
		}
		writeJSON(w, http.StatusOK, chatResponse{Answer: answer})
	}
}

type sourceResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	Description string `json:"description,omitempty"`
	Driver      string `json:"driver"`
	HasSchema   bool   `json:"has_schema"`
}

func handleListSources(catalog sourceCatalog) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		descs, err := catalog.ListSources(req.Context())
		if err != nil {
			zap.L().Error("list sources failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "list sources failed")
			return
		}

		out := make([]sourceResponse, 0, len(descs))
		for _, d := range descs {
			out = append(out, sourceResponse{
				ID:          d.ID,
				DisplayName: d.DisplayName,
				Description: d.Description,
				Driver:      d.Driver,
				HasSchema:   d.SchemaText != "",
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type annotateResponse struct {
	Source string `json:"source"`
	Schema string `json:"schema"`
}

func handleAnnotate(catalog sourceCatalog, annotator schemaAnnotator) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		sourceID := chi.URLParam(req, "id")

		schema, err := catalog.Schema(req.Context(), sourceID)
		if err != nil {
			writeError(w, http.StatusNotFound, fmt.Sprintf("unknown source %q", sourceID))
			return
		}
		if schema == "" {
			writeError(w, http.StatusUnprocessableEntity, "source has no schema to annotate")
			return
		}

		annotated, err := annotator.Annotate(req.Context(), schema)
		if err != nil {
			zap.L().Error("annotation failed", zap.String("source", sourceID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "annotation failed")
			return
		}
		catalog.SetSchema(sourceID, annotated)

		writeJSON(w, http.StatusOK, annotateResponse{Source: sourceID, Schema: annotated})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
