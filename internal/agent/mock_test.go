package agent

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// --- Generator Mock ---

type mockGenerator struct {
	mock.Mock
}

func (m *mockGenerator) Complete(ctx context.Context, system, prompt string) (string, error) {
	args := m.Called(ctx, system, prompt)
	return args.String(0), args.Error(1)
}

// --- DataAccess Mock ---

type mockDataAccess struct {
	mock.Mock
}

func (m *mockDataAccess) ListSources(ctx context.Context) ([]SourceDescriptor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]SourceDescriptor), args.Error(1)
}

func (m *mockDataAccess) Execute(ctx context.Context, sourceID, query string) (ExecutionOutcome, error) {
	args := m.Called(ctx, sourceID, query)
	return args.Get(0).(ExecutionOutcome), args.Error(1)
}

// testSources is a small fixture shared across stage tests.
func testSources() []SourceDescriptor {
	return []SourceDescriptor{
		{
			ID:          "hr-prod",
			DisplayName: "HR Analytics",
			Description: "employee and department records",
			SchemaText:  "CREATE TABLE employees (employee_id INT, name VARCHAR(100), department VARCHAR(50));",
			Driver:      "postgres",
			Host:        "db.internal",
			Port:        5432,
		},
		{
			ID:          "web-logs",
			DisplayName: "Web Logs",
			Description: "site traffic logs",
			Driver:      "sqlite",
		},
	}
}
