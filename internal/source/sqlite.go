package source

import (
	"context"
	"database/sql"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// sqliteConn implements conn over modernc.org/sqlite.
type sqliteConn struct {
	db *sql.DB
}

func openSQLite(dsn string) (*sqliteConn, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &sqliteConn{db: db}, nil
}

func (c *sqliteConn) Schema(ctx context.Context) (string, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT sql FROM sqlite_master
		 WHERE type = 'table' AND name NOT LIKE 'sqlite_%' AND sql IS NOT NULL
		 ORDER BY name`,
	)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: introspect schema")
	}
	defer rows.Close()

	var ddl []string
	for rows.Next() {
		var stmt string
		if err := rows.Scan(&stmt); err != nil {
			return "", eris.Wrap(err, "sqlite: scan ddl")
		}
		ddl = append(ddl, stmt)
	}
	if err := rows.Err(); err != nil {
		return "", eris.Wrap(err, "sqlite: introspect iterate")
	}
	return strings.Join(ddl, ";\n\n"), nil
}

func (c *sqliteConn) Query(ctx context.Context, query string) (*ResultSet, error) {
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: query")
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: columns")
	}

	rs := &ResultSet{Columns: cols}
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan row")
		}

		row := make([]string, len(values))
		for i, v := range values {
			row[i] = formatValue(v)
		}
		rs.Rows = append(rs.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: query iterate")
	}
	return rs, nil
}

func (c *sqliteConn) Close() error {
	return c.db.Close()
}
