package sku

import (
	"context"
	"errors"
	"fmt"

	"backoffice/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

// PGSource implements Source over product_categories and products.
type PGSource struct {
	q    dbx.Querier
	lock bool
}

// NewPGSource returns a Source that takes a row lock on the category. Use it
// with a pgx.Tx.
func NewPGSource(q dbx.Querier) *PGSource {
	return &PGSource{q: q, lock: true}
}

// NewReadOnlySource skips the row lock, for previews outside a transaction.
func NewReadOnlySource(q dbx.Querier) *PGSource {
	return &PGSource{q: q}
}

func (s *PGSource) LockCategory(ctx context.Context, categoryID int64) (string, bool, error) {
	query := `SELECT prefix, status FROM product_categories WHERE id = $1`
	if s.lock {
		query += ` FOR UPDATE`
	}

	var prefix, status string
	if err := s.q.QueryRow(ctx, query, categoryID).Scan(&prefix, &status); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, ErrCategoryNotFound
		}
		return "", false, fmt.Errorf("lock category: %w", err)
	}
	return prefix, status == "active", nil
}

func (s *PGSource) MaxSequence(ctx context.Context, prefix string) (int, error) {
	var max int
	err := s.q.QueryRow(ctx, `
		SELECT COALESCE(MAX(CAST(SUBSTRING(sku FROM $2::int) AS BIGINT)), 0)
		FROM products
		WHERE sku ~ $1
	`, "^"+prefix+"[0-9]+$", len(prefix)+1).Scan(&max)
	if err != nil {
		return 0, err
	}
	return max, nil
}

func (s *PGSource) Exists(ctx context.Context, sku string) (bool, error) {
	var exists bool
	err := s.q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE sku = $1)`, sku).Scan(&exists)
	return exists, err
}
