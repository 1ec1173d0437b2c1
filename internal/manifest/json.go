package manifest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"

	"destiny2-go/internal/d2"
)

// GetJSON returns the raw JSON stored under hash in tableName. The table
// name is matched case-insensitively against the database schema, which
// varies between manifest versions; a missing table or row yields "".
func (m *SQLiteManifest) GetJSON(ctx context.Context, tableName string, hash d2.Hash) (string, error) {
	conn, err := m.db.Conn(ctx)
	if err != nil {
		return "", fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Close()

	table, err := findTable(ctx, conn, tableName)
	if err != nil {
		return "", err
	}
	if table == "" {
		m.logger.Debug("manifest table not found", "table", tableName)
		return "", nil
	}

	query, args, err := squirrel.
		Select("json").
		From(quoteIdent(table)).
		Where(squirrel.Eq{"id": hash.Key()}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("building json query: %w", err)
	}

	var raw sql.NullString
	if err := conn.QueryRowContext(ctx, query, args...).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("querying %s: %w", table, err)
	}
	return raw.String, nil
}

// GetJSONMany returns the raw JSON stored under hashes in tableName.
// Duplicate hashes collapse; a missing table yields an empty slice.
func (m *SQLiteManifest) GetJSONMany(ctx context.Context, tableName string, hashes []d2.Hash) ([]string, error) {
	keys := d2.Keys(hashes)
	if len(keys) == 0 {
		return []string{}, nil
	}

	conn, err := m.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Close()

	table, err := findTable(ctx, conn, tableName)
	if err != nil {
		return nil, err
	}
	if table == "" {
		m.logger.Debug("manifest table not found", "table", tableName)
		return []string{}, nil
	}

	query, args, err := squirrel.
		Select("json").
		From(quoteIdent(table)).
		Where(squirrel.Eq{"id": keys}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building json query: %w", err)
	}

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()

	docs := []string{}
	for rows.Next() {
		var raw sql.NullString
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", table, err)
		}
		docs = append(docs, raw.String)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", table, err)
	}
	return docs, nil
}

// TableNames lists the tables in the manifest database.
func (m *SQLiteManifest) TableNames(ctx context.Context) ([]string, error) {
	query, args, err := squirrel.
		Select("name").
		From("sqlite_master").
		Where(squirrel.Eq{"type": "table"}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building table query: %w", err)
	}

	rows, err := m.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scanning table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// findTable returns the stored name of tableName, matched case-insensitively,
// or "" when the database has no such table.
func findTable(ctx context.Context, q queryer, tableName string) (string, error) {
	query, args, err := squirrel.
		Select("name").
		From("sqlite_master").
		Where(squirrel.Eq{"type": "table"}).
		Where("name = ? COLLATE NOCASE", tableName).
		Limit(1).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("building table lookup: %w", err)
	}

	var name string
	if err := q.QueryRowContext(ctx, query, args...).Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("checking table %q: %w", tableName, err)
	}
	return name, nil
}

// quoteIdent quotes name for use as an SQL identifier.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
