package manifest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"destiny2-go/internal/d2"
)

// Load returns the definition of kind stored under hash.
// A hash with no row yields an error wrapping ErrNotFound.
func Load[T any](ctx context.Context, m *SQLiteManifest, kind Kind[T], hash d2.Hash) (*T, error) {
	ck := cacheKey{table: kind.Table, key: hash.Key()}
	raw, hit := m.cachedJSON(ck)
	if !hit {
		query, args, err := squirrel.
			Select("json").
			From(kind.Table).
			Where(squirrel.Eq{"id": hash.Key()}).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("building %s query: %w", kind.Name, err)
		}

		if err := m.db.QueryRowContext(ctx, query, args...).Scan(&raw); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("%s %s: %w", kind.Name, hash, ErrNotFound)
			}
			return nil, fmt.Errorf("loading %s %s: %w", kind.Name, hash, err)
		}
	}

	def, err := decode[T](raw)
	if err != nil {
		return nil, fmt.Errorf("decoding %s %s: %w", kind.Name, hash, err)
	}

	// Only rows that decode are cached.
	if !hit && m.cache != nil {
		m.cache.Add(ck, raw)
	}
	return def, nil
}

// cachedJSON returns the stored JSON for ck if it is cached. Every hit is
// decoded afresh, so callers never share a definition.
func (m *SQLiteManifest) cachedJSON(ck cacheKey) (string, bool) {
	if m.cache == nil {
		return "", false
	}
	return m.cache.Get(ck)
}

// LoadMany returns the definitions of kind stored under hashes. Duplicate
// hashes collapse, hashes without a row are skipped, and the result order
// follows the database rather than the input.
func LoadMany[T any](ctx context.Context, m *SQLiteManifest, kind Kind[T], hashes []d2.Hash) ([]*T, error) {
	keys := d2.Keys(hashes)
	if len(keys) == 0 {
		return []*T{}, nil
	}

	query, args, err := squirrel.
		Select("json").
		From(kind.Table).
		Where(squirrel.Eq{"id": keys}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building %s query: %w", kind.Name, err)
	}

	return queryDefinitions(ctx, m.db, kind, query, args, nil)
}

// LoadWhere scans every definition of kind and keeps those accepted by keep.
func LoadWhere[T any](ctx context.Context, m *SQLiteManifest, kind Kind[T], keep func(*T) bool) ([]*T, error) {
	query, args, err := squirrel.Select("json").From(kind.Table).ToSql()
	if err != nil {
		return nil, fmt.Errorf("building %s query: %w", kind.Name, err)
	}

	return queryDefinitions(ctx, m.db, kind, query, args, keep)
}

func queryDefinitions[T any](ctx context.Context, q queryer, kind Kind[T], query string, args []any, keep func(*T) bool) ([]*T, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s definitions: %w", kind.Name, err)
	}
	defer rows.Close()

	defs := []*T{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning %s row: %w", kind.Name, err)
		}
		def, err := decode[T](raw)
		if err != nil {
			return nil, fmt.Errorf("decoding %s definition: %w", kind.Name, err)
		}
		if keep != nil && !keep(def) {
			continue
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s rows: %w", kind.Name, err)
	}

	return defs, nil
}

func decode[T any](raw string) (*T, error) {
	var def T
	if err := json.Unmarshal([]byte(raw), &def); err != nil {
		return nil, err
	}
	return &def, nil
}
