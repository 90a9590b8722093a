package source

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// pgxQuerier is the subset of pgxpool.Pool used here. pgxmock satisfies it.
type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close()
}

// postgresConn implements conn over a pgx connection pool.
type postgresConn struct {
	pool pgxQuerier
}

func openPostgres(ctx context.Context, dsn string) (*postgresConn, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	cfg.MaxConns = 4
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &postgresConn{pool: pool}, nil
}

const introspectColumns = `
SELECT table_name, column_name, data_type, is_nullable
FROM information_schema.columns
WHERE table_schema = 'public'
ORDER BY table_name, ordinal_position`

func (c *postgresConn) Schema(ctx context.Context) (string, error) {
	rows, err := c.pool.Query(ctx, introspectColumns)
	if err != nil {
		return "", eris.Wrap(err, "postgres: introspect schema")
	}
	defer rows.Close()

	var b strings.Builder
	var currentTable string
	for rows.Next() {
		var table, column, dataType, nullable string
		if err := rows.Scan(&table, &column, &dataType, &nullable); err != nil {
			return "", eris.Wrap(err, "postgres: scan column")
		}

		if table != currentTable {
			if currentTable != "" {
				b.WriteString(")\n\n")
			}
			fmt.Fprintf(&b, "TABLE %s (", table)
			currentTable = table
		} else {
			b.WriteString(",")
		}

		fmt.Fprintf(&b, "\n  %s %s", column, dataType)
		if nullable == "NO" {
			b.WriteString(" NOT NULL")
		}
	}
	if err := rows.Err(); err != nil {
		return "", eris.Wrap(err, "postgres: introspect iterate")
	}
	if currentTable != "" {
		b.WriteString(")\n")
	}
	return b.String(), nil
}

func (c *postgresConn) Query(ctx context.Context, query string) (*ResultSet, error) {
	rows, err := c.pool.Query(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: query")
	}
	defer rows.Close()

	rs := &ResultSet{}
	for _, fd := range rows.FieldDescriptions() {
		rs.Columns = append(rs.Columns, string(fd.Name))
	}

	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, eris.Wrap(err, "postgres: read row")
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "postgres: query iterate")
	}
	return rs, nil
}

func (c *postgresConn) Close() error {
	c.pool.Close()
	return nil
}
