package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"backoffice/internal/infra/dbx"
	"backoffice/internal/sku"

	"github.com/jackc/pgx/v5"
)

// Repository implements Store. Create and PreviewSKU need the category row
// lock, so Create must run on a tx-scoped repository (storage.Container.WithTx).
type Repository struct {
	q   dbx.Querier
	gen *sku.Generator
}

func NewRepository(q dbx.Querier, gen *sku.Generator) *Repository {
	if gen == nil {
		gen = sku.NewGenerator(sku.DefaultWidth)
	}
	return &Repository{q: q, gen: gen}
}

const productColumns = `
	p.id, p.sku, p.name, p.description, p.defects, p.category_id, c.name,
	p.price_excluding_vat, p.stock_quantity, p.status, p.image_path, p.created_at, p.updated_at`

const productFrom = `
	FROM products p
	JOIN product_categories c ON c.id = p.category_id`

func scanProduct(row pgx.Row, p *Product, extra ...any) error {
	dest := []any{
		&p.ID, &p.SKU, &p.Name, &p.Description, &p.Defects, &p.CategoryID, &p.CategoryName,
		&p.PriceExcludingVAT, &p.StockQuantity, &p.Status, &p.ImagePath, &p.CreatedAt, &p.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

func validateProduct(p *Product) error {
	if p == nil {
		return ErrInvalidName
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return ErrInvalidName
	}
	if p.CategoryID <= 0 {
		return ErrCategoryRequired
	}
	if p.PriceExcludingVAT.IsNegative() {
		return ErrInvalidPrice
	}
	if p.StockQuantity < 0 {
		return ErrInvalidStock
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	if !validStatus(p.Status) {
		return ErrInvalidStatus
	}
	p.Status = ReconcileStatus(p.Status, p.StockQuantity)
	return nil
}

// Create allocates the SKU and inserts the product. Any SKU set by the
// caller is ignored.
func (r *Repository) Create(ctx context.Context, p *Product) (*Product, error) {
	if err := validateProduct(p); err != nil {
		return nil, err
	}

	code, err := r.gen.Next(ctx, sku.NewPGSource(r.q), p.CategoryID)
	if err != nil {
		return nil, err
	}
	p.SKU = code

	err = r.q.QueryRow(ctx, `
		INSERT INTO products (sku, name, description, defects, category_id,
		                      price_excluding_vat, stock_quantity, status, image_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, p.SKU, p.Name, p.Description, p.Defects, p.CategoryID,
		p.PriceExcludingVAT, p.StockQuantity, p.Status, p.ImagePath,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if dbx.PgCode(err) == dbx.CodeUniqueViolation {
			return nil, ErrDuplicateSKU
		}
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

// PreviewSKU returns the SKU the next Create in the category would get.
func (r *Repository) PreviewSKU(ctx context.Context, categoryID int64) (string, error) {
	return r.gen.Next(ctx, sku.NewReadOnlySource(r.q), categoryID)
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Product, error) {
	p := &Product{}
	err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+productFrom+` WHERE p.id = $1`, id), p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *Repository) GetBySKU(ctx context.Context, code string) (*Product, error) {
	p := &Product{}
	err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+productFrom+` WHERE p.sku = $1`,
		strings.ToUpper(strings.TrimSpace(code))), p)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product by sku: %w", err)
	}
	return p, nil
}

func (r *Repository) List(ctx context.Context, f ListFilter, limit, offset int) ([]*Product, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	where := []string{"1=1"}
	args := []any{}
	arg := 1

	if f.CategoryID != nil {
		where = append(where, fmt.Sprintf("p.category_id = $%d", arg))
		args = append(args, *f.CategoryID)
		arg++
	}
	if f.Status != "" {
		where = append(where, fmt.Sprintf("p.status = $%d", arg))
		args = append(args, f.Status)
		arg++
	}
	if f.Search != "" {
		where = append(where, fmt.Sprintf("(p.name ILIKE '%%' || $%d || '%%' OR p.sku ILIKE $%d || '%%')", arg, arg))
		args = append(args, dbx.EscapeLike(f.Search))
		arg++
	}
	if f.LowStock {
		where = append(where, fmt.Sprintf("p.stock_quantity <= $%d", arg))
		args = append(args, LowStockThreshold)
		arg++
	}

	query := fmt.Sprintf(`SELECT %s, COUNT(*) OVER() AS total_count %s
		WHERE %s
		ORDER BY p.created_at DESC, p.id DESC
		LIMIT $%d OFFSET $%d`, productColumns, productFrom, strings.Join(where, " AND "), arg, arg+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	list := make([]*Product, 0, limit)
	total := 0
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p, &total); err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration: %w", err)
	}
	return list, total, nil
}

// Update writes only the fields set in in, so a concurrent AdjustStock or
// order is never overwritten with a stale quantity. The stock-driven status
// is reconciled in the same statement against the row's current values.
func (r *Repository) Update(ctx context.Context, id int64, in UpdateInput) (*Product, error) {
	if in.SKU != nil {
		current, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := sku.CheckImmutable(current.SKU, *in.SKU); err != nil {
			return nil, err
		}
	}

	set, args, err := updateSet(in)
	if err != nil {
		return nil, err
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)

	// sku is never part of the SET list
	query := fmt.Sprintf(`
		WITH p AS (
			UPDATE products
			SET %s, updated_at = now()
			WHERE id = $%d
			RETURNING *
		)
		SELECT %s
		FROM p
		JOIN product_categories c ON c.id = p.category_id`,
		strings.Join(set, ", "), len(args), productColumns)

	p := &Product{}
	if err := scanProduct(r.q.QueryRow(ctx, query, args...), p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		if dbx.PgCode(err) == dbx.CodeForeignKeyViolation {
			return nil, fmt.Errorf("category %d: %w", *in.CategoryID, ErrCategoryNotFound)
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return p, nil
}

// updateSet validates the supplied fields and turns them into SET clauses
// with positional args starting at $1.
func updateSet(in UpdateInput) ([]string, []any, error) {
	var (
		set  []string
		args []any
	)
	param := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, nil, ErrInvalidName
		}
		set = append(set, "name = "+param(name))
	}
	if in.Description != nil {
		set = append(set, "description = "+param(*in.Description))
	}
	if in.Defects != nil {
		set = append(set, "defects = "+param(*in.Defects))
	}
	if in.CategoryID != nil {
		if *in.CategoryID <= 0 {
			return nil, nil, ErrCategoryRequired
		}
		set = append(set, "category_id = "+param(*in.CategoryID))
	}
	if in.PriceExcludingVAT != nil {
		if in.PriceExcludingVAT.IsNegative() {
			return nil, nil, ErrInvalidPrice
		}
		set = append(set, "price_excluding_vat = "+param(*in.PriceExcludingVAT))
	}

	stock, status := "stock_quantity", "status"
	if in.StockQuantity != nil {
		if *in.StockQuantity < 0 {
			return nil, nil, ErrInvalidStock
		}
		stock = param(*in.StockQuantity) + "::int"
		set = append(set, "stock_quantity = "+stock)
	}
	if in.Status != nil {
		if !validStatus(*in.Status) {
			return nil, nil, ErrInvalidStatus
		}
		status = param(*in.Status) + "::text"
	}
	if in.StockQuantity != nil || in.Status != nil {
		// same rule as ReconcileStatus
		set = append(set, fmt.Sprintf(`status = CASE
			WHEN %[1]s = 'active' AND %[2]s <= 0 THEN 'out_of_stock'
			WHEN %[1]s = 'out_of_stock' AND %[2]s > 0 THEN 'active'
			ELSE %[1]s END`, status, stock))
	}
	return set, args, nil
}

func (r *Repository) UpdateImagePath(ctx context.Context, id int64, path *string) error {
	cmd, err := r.q.Exec(ctx, `UPDATE products SET image_path = $1, updated_at = now() WHERE id = $2`, path, id)
	if err != nil {
		return fmt.Errorf("update image path: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// AdjustStock applies delta atomically and refuses to go below zero.
func (r *Repository) AdjustStock(ctx context.Context, id int64, delta int) (*Product, error) {
	var stock int
	var status string
	err := r.q.QueryRow(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity + $1,
		    status = CASE
		        WHEN status = 'active' AND stock_quantity + $1 <= 0 THEN 'out_of_stock'
		        WHEN status = 'out_of_stock' AND stock_quantity + $1 > 0 THEN 'active'
		        ELSE status
		    END,
		    updated_at = now()
		WHERE id = $2 AND stock_quantity + $1 >= 0
		RETURNING stock_quantity, status
	`, delta, id).Scan(&stock, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, ErrInsufficientStock
		}
		return nil, fmt.Errorf("adjust stock: %w", err)
	}
	return r.GetByID(ctx, id)
}

// LockForOrder row-locks the given products for the rest of the transaction.
func (r *Repository) LockForOrder(ctx context.Context, ids []int64) (map[int64]*Product, error) {
	rows, err := r.q.Query(ctx, `SELECT `+productColumns+productFrom+`
		WHERE p.id = ANY($1)
		ORDER BY p.id
		FOR UPDATE OF p`, ids)
	if err != nil {
		return nil, fmt.Errorf("lock products: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]*Product, len(ids))
	for rows.Next() {
		var p Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("scan locked product: %w", err)
		}
		out[p.ID] = &p
	}
	return out, rows.Err()
}

// Delete removes the product and returns the deleted row so the caller can
// clean up its image.
func (r *Repository) Delete(ctx context.Context, id int64) (*Product, error) {
	p, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		if dbx.PgCode(err) == dbx.CodeForeignKeyViolation {
			return nil, fmt.Errorf("product %s is referenced by orders: %w", p.SKU, err)
		}
		return nil, fmt.Errorf("delete product: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return nil, ErrNotFound
	}
	return p, nil
}
