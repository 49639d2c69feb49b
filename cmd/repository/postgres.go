package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/lib/pq"
)

// pgCollection stores each document as JSONB in a table named after the
// collection: (id text primary key, doc jsonb, created_at timestamptz).
type pgCollection[T any] struct {
	db    *sql.DB
	table string
}

// NewPostgresCollection uses the table created by migration.sql for name.
func NewPostgresCollection[T any](db *sql.DB, name string) Collection[T] {
	return &pgCollection[T]{db: db, table: pq.QuoteIdentifier(name)}
}

var fieldName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// buildWhere renders f as a WHERE clause over the doc column. Placeholders
// start at $1.
func buildWhere(f Filter) (string, []any, error) {
	conds, args, err := buildConds(f, 0)
	if err != nil || len(conds) == 0 {
		return "", nil, err
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

// buildConds renders the conditions of f with placeholders numbered after
// offset.
func buildConds(f Filter, offset int) ([]string, []any, error) {
	var (
		conds []string
		args  []any
	)
	for _, field := range sortedKeys(f.Equal) {
		if !fieldName.MatchString(field) {
			return nil, nil, fmt.Errorf("invalid field name %q", field)
		}
		args = append(args, fmt.Sprint(f.Equal[field]))
		conds = append(conds, fmt.Sprintf("doc->>'%s' = $%d", field, offset+len(args)))
	}
	for _, field := range sortedKeys(f.Match) {
		if !fieldName.MatchString(field) {
			return nil, nil, fmt.Errorf("invalid field name %q", field)
		}
		args = append(args, f.Match[field])
		conds = append(conds, fmt.Sprintf("doc->>'%s' ~* $%d", field, offset+len(args)))
	}
	return conds, args, nil
}

func pgErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return fmt.Errorf("%w: %s", ErrDuplicateKey, pqErr.Constraint)
	}
	return err
}

func (c *pgCollection[T]) Find(ctx context.Context, f Filter) ([]T, error) {
	where, args, err := buildWhere(f)
	if err != nil {
		return nil, err
	}
	query := "SELECT doc FROM " + c.table + where + " ORDER BY created_at;"
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error in query: %w", err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (c *pgCollection[T]) FindOne(ctx context.Context, f Filter) (*T, error) {
	found, err := c.Find(ctx, f)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, ErrNoDocument
	}
	return &found[0], nil
}

func (c *pgCollection[T]) FindByID(ctx context.Context, id string) (*T, error) {
	var raw []byte
	query := "SELECT doc FROM " + c.table + " WHERE id = $1;"
	if err := c.db.QueryRowContext(ctx, query, id).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoDocument
		}
		return nil, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *pgCollection[T]) Insert(ctx context.Context, id string, doc *T) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	query := "INSERT INTO " + c.table + " (id, doc) VALUES ($1, $2);"
	if _, err := c.db.ExecContext(ctx, query, id, string(raw)); err != nil {
		return pgErr(err)
	}
	return nil
}

func (c *pgCollection[T]) UpdateByID(ctx context.Context, id string, set Fields) (bool, error) {
	return c.UpdateWhere(ctx, id, All(), set)
}

func (c *pgCollection[T]) UpdateWhere(ctx context.Context, id string, where Filter, set Fields) (bool, error) {
	patch := make(Fields, len(set)+1)
	for k, v := range set {
		patch[k] = v
	}
	patch["updatedAt"] = time.Now().UTC()
	raw, err := json.Marshal(patch)
	if err != nil {
		return false, err
	}

	conds, args, err := buildConds(where, 2)
	if err != nil {
		return false, err
	}
	query := "UPDATE " + c.table + " SET doc = doc || $1::jsonb WHERE id = $2"
	for _, cond := range conds {
		query += " AND " + cond
	}
	res, err := c.db.ExecContext(ctx, query+";", append([]any{string(raw), id}, args...)...)
	if err != nil {
		return false, pgErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("error cheking update: %w", err)
	}
	return n > 0, nil
}

func (c *pgCollection[T]) Append(ctx context.Context, id, field string, value any) (*T, error) {
	if !fieldName.MatchString(field) {
		return nil, fmt.Errorf("invalid field name %q", field)
	}
	item, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(
		"UPDATE %s SET doc = jsonb_set(doc || jsonb_build_object('updatedAt', $1::text), '{%s}', "+
			"COALESCE(doc->'%s', '[]'::jsonb) || jsonb_build_array($2::jsonb)) WHERE id = $3 RETURNING doc;",
		c.table, field, field)
	var raw []byte
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if err := c.db.QueryRowContext(ctx, query, now, string(item), id).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoDocument
		}
		return nil, err
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (c *pgCollection[T]) DeleteByID(ctx context.Context, id string) (bool, error) {
	res, err := c.db.ExecContext(ctx, "DELETE FROM "+c.table+" WHERE id = $1;", id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
