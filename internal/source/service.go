package source

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/askdb/internal/agent"
)

// previewRows limits how many result rows are rendered into the execution
// result string fed back to the model.
const previewRows = 20

// Service exposes the registry's sources for query execution. It opens
// connections lazily and caches introspected schemas per source.
type Service struct {
	registry *Registry
	opener   func(ctx context.Context, p Profile) (conn, error)

	mu      sync.Mutex
	conns   map[string]conn
	schemas map[string]string
}

// NewService creates a Service over a loaded registry.
func NewService(reg *Registry) *Service {
	return &Service{
		registry: reg,
		opener:   openConn,
		conns:    make(map[string]conn),
		schemas:  make(map[string]string),
	}
}

// ListSources returns a descriptor for every registered source. Schema text
// comes from the profile when curated, otherwise from live introspection.
// Introspection failures leave SchemaText empty rather than failing the
// listing.
func (s *Service) ListSources(ctx context.Context) ([]agent.SourceDescriptor, error) {
	descs := make([]agent.SourceDescriptor, 0, len(s.registry.Sources))
	for _, p := range s.registry.Sources {
		desc := agent.SourceDescriptor{
			ID:          p.ID,
			DisplayName: p.DisplayName,
			Description: p.Description,
			Driver:      p.Driver,
			Host:        p.Host,
			Port:        p.Port,
		}

		schema, err := s.schemaFor(ctx, p)
		if err != nil {
			zap.L().Warn("schema introspection failed",
				zap.String("source", p.ID),
				zap.Error(err))
		}
		desc.SchemaText = schema

		descs = append(descs, desc)
	}
	return descs, nil
}

// Execute runs a query against the named source. Driver and query errors
// are reported in the outcome; only an unknown source ID is returned as an
// error.
func (s *Service) Execute(ctx context.Context, sourceID, query string) (agent.ExecutionOutcome, error) {
	p := s.registry.Find(sourceID)
	if p == nil {
		return agent.ExecutionOutcome{}, eris.Errorf("source: unknown source %q", sourceID)
	}

	c, err := s.conn(ctx, *p)
	if err != nil {
		return agent.ExecutionOutcome{Success: false, Text: err.Error()}, nil
	}

	rs, err := c.Query(ctx, query)
	if err != nil {
		return agent.ExecutionOutcome{Success: false, Text: err.Error()}, nil
	}

	return agent.ExecutionOutcome{Success: true, Text: rs.Render(previewRows)}, nil
}

// Rows runs a query and returns the full result set. Used by exports, which
// need every row rather than a preview.
func (s *Service) Rows(ctx context.Context, sourceID, query string) (*ResultSet, error) {
	p := s.registry.Find(sourceID)
	if p == nil {
		return nil, eris.Errorf("source: unknown source %q", sourceID)
	}
	c, err := s.conn(ctx, *p)
	if err != nil {
		return nil, err
	}
	return c.Query(ctx, query)
}

// Schema returns the schema text for one source, introspecting if needed.
func (s *Service) Schema(ctx context.Context, sourceID string) (string, error) {
	p := s.registry.Find(sourceID)
	if p == nil {
		return "", eris.Errorf("source: unknown source %q", sourceID)
	}
	return s.schemaFor(ctx, *p)
}

// SetSchema overrides the cached schema text for a source. Annotation uses
// this to install enriched schema descriptions.
func (s *Service) SetSchema(sourceID, schema string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.schemas[sourceID] = schema
}

// Registry returns the underlying registry.
func (s *Service) Registry() *Registry {
	return s.registry
}

// Close closes all open connections.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var firstErr error
	for id, c := range s.conns {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = eris.Wrapf(err, "source: close %s", id)
		}
		delete(s.conns, id)
	}
	return firstErr
}

func (s *Service) conn(ctx context.Context, p Profile) (conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.conns[p.ID]; ok {
		return c, nil
	}
	c, err := s.opener(ctx, p)
	if err != nil {
		return nil, err
	}
	s.conns[p.ID] = c
	return c, nil
}

func (s *Service) schemaFor(ctx context.Context, p Profile) (string, error) {
	s.mu.Lock()
	cached, ok := s.schemas[p.ID]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	if p.Schema != "" {
		s.SetSchema(p.ID, p.Schema)
		return p.Schema, nil
	}

	c, err := s.conn(ctx, p)
	if err != nil {
		return "", err
	}
	schema, err := c.Schema(ctx)
	if err != nil {
		return "", err
	}
	s.SetSchema(p.ID, schema)
	return schema, nil
}
