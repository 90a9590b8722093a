package source

import (
	"context"

	"github.com/rotisserie/eris"
)

// conn is a live connection to one data source.
type conn interface {
	// Schema introspects the database and returns a textual schema
	// description suitable for query generation prompts.
	Schema(ctx context.Context) (string, error)
	// Query runs a read-only SQL statement and returns the result set.
	Query(ctx context.Context, query string) (*ResultSet, error)
	Close() error
}

// openConn dials the backend described by the profile.
func openConn(ctx context.Context, p Profile) (conn, error) {
	switch p.Driver {
	case DriverPostgres:
		return openPostgres(ctx, p.DSN)
	case DriverSQLite:
		return openSQLite(p.DSN)
	default:
		return nil, eris.Errorf("source: unsupported driver %q", p.Driver)
	}
}
