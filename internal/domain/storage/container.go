package storage

import (
	"context"
	"fmt"

	"backoffice/internal/domain/categories"
	"backoffice/internal/domain/dashboard"
	"backoffice/internal/domain/orders"
	"backoffice/internal/domain/payments"
	"backoffice/internal/domain/products"
	"backoffice/internal/domain/users"
	"backoffice/internal/domain/vouchers"
	"backoffice/internal/infra/dbx"
	"backoffice/internal/pricing"
	"backoffice/internal/sku"

	"github.com/jackc/pgx/v5"
)

// TxBeginner is satisfied by *pgxpool.Pool.
type TxBeginner interface {
	dbx.Querier
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// Deps are the non-database collaborators some repositories need.
type Deps struct {
	SKU         *sku.Generator
	OrderNumber *orders.NumberGenerator
	Pricing     *pricing.Calculator
}

type Container struct {
	pool       TxBeginner
	deps       Deps
	Categories categories.Store
	Products   products.Store
	Users      users.Store
	Vouchers   vouchers.Store
	Orders     orders.Store
	Payments   payments.Store
	PayLogs    *payments.LogsRepository
	Dashboard  dashboard.Store

	// TxScope builds the repositories WithTx hands to its callback. Nil
	// means the Postgres repositories bound to the transaction.
	TxScope func(q dbx.Querier) *Tx
}

func NewContainer(db TxBeginner, deps Deps) *Container {
	return &Container{
		pool:       db,
		deps:       deps,
		Categories: categories.NewRepository(db),
		Products:   products.NewRepository(db, deps.SKU),
		Users:      users.NewRepository(db),
		Vouchers:   vouchers.NewRepository(db),
		Orders:     orders.NewRepository(db, deps.OrderNumber, deps.Pricing),
		Payments:   payments.NewRepository(db),
		PayLogs:    payments.NewLogsRepository(db),
		Dashboard:  dashboard.NewRepository(db),
	}
}

// Tx is a temporary, tx-scoped set of repos for atomic units of work.
type Tx struct {
	Categories categories.Store
	Products   products.Store
	Vouchers   vouchers.Store
	Orders     orders.Store
	Payments   payments.Store
}

// WithTx runs fn in one transaction. The transaction commits only if fn
// returns nil.
func (c *Container) WithTx(ctx context.Context, fn func(s *Tx) error) error {
	if c.pool == nil {
		return fmt.Errorf("storage container pool is nil")
	}

	tx, err := c.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback(ctx) // no-op after commit
	}()

	scope := c.TxScope
	if scope == nil {
		scope = c.repositories
	}
	if err := fn(scope(tx)); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (c *Container) repositories(q dbx.Querier) *Tx {
	return &Tx{
		Categories: categories.NewRepository(q),
		Products:   products.NewRepository(q, c.deps.SKU),
		Vouchers:   vouchers.NewRepository(q),
		Orders:     orders.NewRepository(q, c.deps.OrderNumber, c.deps.Pricing),
		Payments:   payments.NewRepository(q),
	}
}
