package categories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"backoffice/internal/infra/dbx"
	"backoffice/internal/sku"

	"github.com/jackc/pgx/v5"
)

type Repository struct {
	q dbx.Querier
}

func NewRepository(q dbx.Querier) *Repository {
	return &Repository{q: q}
}

const selectCategory = `
	SELECT c.id, c.name, c.prefix, c.description, c.status, c.created_at, c.updated_at,
	       (SELECT COUNT(*) FROM products p WHERE p.category_id = c.id) AS product_count
	FROM product_categories c`

func scanCategory(row pgx.Row, c *Category) error {
	return row.Scan(&c.ID, &c.Name, &c.Prefix, &c.Description, &c.Status,
		&c.CreatedAt, &c.UpdatedAt, &c.ProductCount)
}

func validate(c *Category) error {
	if c == nil {
		return ErrInvalidName
	}
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return ErrInvalidName
	}
	prefix, err := sku.NormalizePrefix(c.Prefix)
	if err != nil {
		return err
	}
	c.Prefix = prefix
	if c.Status == "" {
		c.Status = StatusActive
	}
	if c.Status != StatusActive && c.Status != StatusInactive {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, c.Status)
	}
	return nil
}

func (r *Repository) Create(ctx context.Context, c *Category) (*Category, error) {
	if err := validate(c); err != nil {
		return nil, err
	}

	err := r.q.QueryRow(ctx, `
		INSERT INTO product_categories (name, prefix, description, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, c.Name, c.Prefix, c.Description, c.Status).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if dbx.PgCode(err) == dbx.CodeUniqueViolation {
			return nil, ErrDuplicatePrefix
		}
		return nil, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Category, error) {
	c := &Category{}
	if err := scanCategory(r.q.QueryRow(ctx, selectCategory+` WHERE c.id = $1`, id), c); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *Repository) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Category, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 30
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.q.Query(ctx, `
		SELECT c.id, c.name, c.prefix, c.description, c.status, c.created_at, c.updated_at,
		       (SELECT COUNT(*) FROM products p WHERE p.category_id = c.id) AS product_count,
		       COUNT(*) OVER() AS total_count
		FROM product_categories c
		WHERE ($1 = '' OR c.status = $1)
		  AND ($2 = '' OR c.name ILIKE '%' || $2 || '%' OR c.prefix ILIKE $2 || '%')
		ORDER BY c.prefix ASC
		LIMIT $3 OFFSET $4
	`, f.Status, dbx.EscapeLike(f.Search), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var (
		list  []*Category
		total int
	)
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Prefix, &c.Description, &c.Status,
			&c.CreatedAt, &c.UpdatedAt, &c.ProductCount, &total); err != nil {
			return nil, 0, fmt.Errorf("scan category: %w", err)
		}
		list = append(list, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}

	if len(list) == 0 && offset > 0 {
		if err := r.q.QueryRow(ctx, `
			SELECT COUNT(*) FROM product_categories
			WHERE ($1 = '' OR status = $1)
			  AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR prefix ILIKE $2 || '%')
		`, f.Status, dbx.EscapeLike(f.Search)).Scan(&total); err != nil {
			return nil, 0, fmt.Errorf("count categories: %w", err)
		}
	}

	return list, total, nil
}

// Update changes the supplied fields. Existing SKUs embed the prefix, so it
// is frozen once the category has products. The category row is locked
// first; product inserts take a key-share lock on it through the foreign
// key, so no product can appear between the check and the write. Run it on
// a tx-scoped repository (storage.Container.WithTx) for the lock to hold.
func (r *Repository) Update(ctx context.Context, id int64, in UpdateInput) (*Category, error) {
	set, args, prefix, err := updateSet(in)
	if err != nil {
		return nil, err
	}

	var current string
	if err := r.q.QueryRow(ctx,
		`SELECT prefix FROM product_categories WHERE id = $1 FOR UPDATE`, id,
	).Scan(&current); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("lock category: %w", err)
	}

	if prefix != "" && prefix != current {
		var used bool
		if err := r.q.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM products WHERE category_id = $1)`, id,
		).Scan(&used); err != nil {
			return nil, fmt.Errorf("check category products: %w", err)
		}
		if used {
			return nil, ErrPrefixInUse
		}
	}

	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)

	c := &Category{}
	err = scanCategory(r.q.QueryRow(ctx, fmt.Sprintf(`
		WITH c AS (
			UPDATE product_categories
			SET %s, updated_at = now()
			WHERE id = $%d
			RETURNING *
		)
		SELECT c.id, c.name, c.prefix, c.description, c.status, c.created_at, c.updated_at,
		       (SELECT COUNT(*) FROM products p WHERE p.category_id = c.id) AS product_count
		FROM c`, strings.Join(set, ", "), len(args)), args...), c)
	if err != nil {
		if dbx.PgCode(err) == dbx.CodeUniqueViolation {
			return nil, ErrDuplicatePrefix
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update category: %w", err)
	}
	return c, nil
}

// updateSet validates and normalizes the supplied fields into SET clauses
// with positional args starting at $1. prefix is the normalized new prefix,
// "" when unchanged.
func updateSet(in UpdateInput) (set []string, args []any, prefix string, err error) {
	param := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if in.Prefix != nil {
		if prefix, err = sku.NormalizePrefix(*in.Prefix); err != nil {
			return nil, nil, "", err
		}
		set = append(set, "prefix = "+param(prefix))
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, nil, "", ErrInvalidName
		}
		set = append(set, "name = "+param(name))
	}
	if in.Description != nil {
		set = append(set, "description = "+param(*in.Description))
	}
	if in.Status != nil {
		if *in.Status != StatusActive && *in.Status != StatusInactive {
			return nil, nil, "", fmt.Errorf("%w: %q", ErrInvalidStatus, *in.Status)
		}
		set = append(set, "status = "+param(*in.Status))
	}
	return set, args, prefix, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM product_categories WHERE id = $1`, id)
	if err != nil {
		if dbx.PgCode(err) == dbx.CodeForeignKeyViolation {
			return ErrHasProducts
		}
		return fmt.Errorf("delete category: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Seed inserts the given categories, skipping any whose prefix already
// exists. One bad row does not stop the rest.
func (r *Repository) Seed(ctx context.Context, defaults []Category) (*SeedResult, error) {
	res := &SeedResult{}
	for _, d := range defaults {
		c := d
		if err := validate(&c); err != nil {
			res.Skipped = append(res.Skipped, d.Prefix)
			continue
		}
		cmd, err := r.q.Exec(ctx, `
			INSERT INTO product_categories (name, prefix, description, status)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (prefix) DO NOTHING
		`, c.Name, c.Prefix, c.Description, c.Status)
		if err != nil {
			return res, fmt.Errorf("seed %s: %w", c.Prefix, err)
		}
		if cmd.RowsAffected() == 0 {
			res.Skipped = append(res.Skipped, c.Prefix)
			continue
		}
		res.Inserted = append(res.Inserted, c.Prefix)
	}
	return res, nil
}
