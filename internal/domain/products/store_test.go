package products

import (
	"context"
	"errors"
	"strings"
	"testing"

	"backoffice/internal/infra/dbx"
	"backoffice/internal/infra/dbx/dbxtest"
	"backoffice/internal/sku"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

func ptr[T any](v T) *T { return &v }

func TestUpdateWritesOnlySuppliedFields(t *testing.T) {
	price := decimal.NewFromInt(120)
	tests := []struct {
		name     string
		in       UpdateInput
		want     []string
		notWant  []string
		wantArgs []any
	}{
		{
			name:     "name only",
			in:       UpdateInput{Name: ptr(" Canvas tote ")},
			want:     []string{"name = $1", "WHERE id = $2"},
			notWant:  []string{"stock_quantity =", "status =", "price_excluding_vat =", "sku ="},
			wantArgs: []any{"Canvas tote", int64(7)},
		},
		{
			name:     "price only",
			in:       UpdateInput{PriceExcludingVAT: &price},
			want:     []string{"price_excluding_vat = $1"},
			notWant:  []string{"stock_quantity =", "status =", "name ="},
			wantArgs: []any{price, int64(7)},
		},
		{
			name:     "stock reconciles status against the current status",
			in:       UpdateInput{StockQuantity: ptr(0)},
			want:     []string{"stock_quantity = $1::int", "WHEN status = 'active' AND $1::int <= 0"},
			wantArgs: []any{0, int64(7)},
		},
		{
			name:     "status reconciles against the current stock",
			in:       UpdateInput{Status: ptr(StatusActive)},
			want:     []string{"WHEN $1::text = 'active' AND stock_quantity <= 0"},
			notWant:  []string{"stock_quantity ="},
			wantArgs: []any{StatusActive, int64(7)},
		},
		{
			name:     "unchanged sku is accepted and never written",
			in:       UpdateInput{SKU: ptr("BAG0007"), Defects: ptr("scuffed corner")},
			want:     []string{"defects = $1"},
			notWant:  []string{"sku ="},
			wantArgs: []any{"scuffed corner", int64(7)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &dbxtest.Recorder{Default: dbxtest.Result{Err: pgx.ErrNoRows}}
			if tt.in.SKU != nil {
				q.Results = []dbxtest.Result{{Values: productRow("BAG0007")}}
			}
			r := NewRepository(q, sku.NewGenerator(sku.DefaultWidth))

			if _, err := r.Update(context.Background(), 7, tt.in); !errors.Is(err, ErrNotFound) {
				t.Fatalf("err = %v, want ErrNotFound from the scripted empty result", err)
			}

			call := q.Last()
			if !strings.Contains(call.SQL, "UPDATE products") {
				t.Fatalf("last statement is not the update: %s", call.SQL)
			}
			for _, s := range tt.want {
				if !strings.Contains(call.SQL, s) {
					t.Fatalf("SQL missing %q:\n%s", s, call.SQL)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(call.SQL, s) {
					t.Fatalf("SQL should not contain %q:\n%s", s, call.SQL)
				}
			}
			if len(call.Args) != len(tt.wantArgs) {
				t.Fatalf("args = %v, want %v", call.Args, tt.wantArgs)
			}
			for i := range tt.wantArgs {
				if d, ok := tt.wantArgs[i].(decimal.Decimal); ok {
					if !d.Equal(call.Args[i].(decimal.Decimal)) {
						t.Fatalf("arg %d = %v, want %v", i, call.Args[i], d)
					}
					continue
				}
				if call.Args[i] != tt.wantArgs[i] {
					t.Fatalf("arg %d = %#v, want %#v", i, call.Args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestUpdateRejects(t *testing.T) {
	tests := []struct {
		name string
		in   UpdateInput
		want error
	}{
		{"blank name", UpdateInput{Name: ptr("   ")}, ErrInvalidName},
		{"zero category", UpdateInput{CategoryID: ptr(int64(0))}, ErrCategoryRequired},
		{"negative price", UpdateInput{PriceExcludingVAT: ptr(decimal.NewFromInt(-5))}, ErrInvalidPrice},
		{"negative stock", UpdateInput{StockQuantity: ptr(-1)}, ErrInvalidStock},
		{"unknown status", UpdateInput{Status: ptr("archived")}, ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &dbxtest.Recorder{}
			r := NewRepository(q, nil)
			if _, err := r.Update(context.Background(), 7, tt.in); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if len(q.Calls) != 0 {
				t.Fatalf("invalid input reached the database: %v", q.Calls)
			}
		})
	}
}

func TestUpdateSKUChangeRejected(t *testing.T) {
	q := &dbxtest.Recorder{Results: []dbxtest.Result{{Values: productRow("BAG0007")}}}
	r := NewRepository(q, nil)

	_, err := r.Update(context.Background(), 7, UpdateInput{SKU: ptr("BAG0099"), Name: ptr("x")})
	if !errors.Is(err, sku.ErrImmutable) {
		t.Fatalf("err = %v, want sku.ErrImmutable", err)
	}
	if len(q.Calls) != 1 {
		t.Fatalf("calls = %d, want only the lookup", len(q.Calls))
	}
}

func TestUpdateUnknownCategory(t *testing.T) {
	q := &dbxtest.Recorder{Default: dbxtest.Result{
		Err: &pgconn.PgError{Code: dbx.CodeForeignKeyViolation},
	}}
	r := NewRepository(q, nil)

	_, err := r.Update(context.Background(), 7, UpdateInput{CategoryID: ptr(int64(99))})
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("err = %v, want ErrCategoryNotFound", err)
	}
}

func TestListEscapesSearch(t *testing.T) {
	stop := errors.New("stop")
	q := &dbxtest.Recorder{Default: dbxtest.Result{Err: stop}}
	r := NewRepository(q, nil)

	if _, _, err := r.List(context.Background(), ListFilter{Search: "50%_off"}, 10, 0); !errors.Is(err, stop) {
		t.Fatalf("err = %v", err)
	}
	call := q.Last()
	if len(call.Args) == 0 || call.Args[0] != `50\%\_off` {
		t.Fatalf("search arg = %v, want escaped wildcards", call.Args)
	}
}

// productRow matches the scan order of productColumns.
func productRow(code string) []any {
	return []any{
		int64(7), code, "Canvas tote", nil, nil, int64(2), "Bags",
		decimal.NewFromInt(100), 3, StatusActive, nil, nil, nil,
	}
}
