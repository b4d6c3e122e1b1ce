package categories

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
)

func TestValidate(t *testing.T) {
	c := &Category{Name: "  เสื้อผ้า ", Prefix: "clth"}
	if err := validate(c); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if c.Prefix != "CLTH" || c.Name != "เสื้อผ้า" || c.Status != StatusActive {
		t.Fatalf("normalized = %+v", c)
	}

	tests := []struct {
		name string
		in   Category
		want error
	}{
		{"empty name", Category{Prefix: "ELC"}, ErrInvalidName},
		{"short prefix", Category{Name: "x", Prefix: "EL"}, sku.ErrInvalidPrefix},
		{"long prefix", Category{Name: "x", Prefix: "ELECT"}, sku.ErrInvalidPrefix},
		{"digit prefix", Category{Name: "x", Prefix: "EL1"}, sku.ErrInvalidPrefix},
		{"bad status", Category{Name: "x", Prefix: "ELC", Status: "deleted"}, ErrInvalidStatus},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			if err := validate(&in); !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}

	bad := &Category{Name: "x", Prefix: "E"}
	if err := validate(bad); !errors.Is(err, sku.ErrInvalidPrefix) {
		t.Fatalf("err = %v, want sku.ErrInvalidPrefix", err)
	}
}

func TestDefaultsAreValid(t *testing.T) {
	seen := map[string]bool{}
	for _, d := range Defaults {
		c := d
		if err := validate(&c); err != nil {
			t.Fatalf("default %q invalid: %v", d.Prefix, err)
		}
		if seen[c.Prefix] {
			t.Fatalf("duplicate default prefix %q", c.Prefix)
		}
		seen[c.Prefix] = true
	}
}

func ptr[T any](v T) *T { return &v }

func categoryRow(prefix string, products int) []any {
	return []any{int64(4), "Electronics", prefix, nil, StatusActive, nil, nil, products}
}

func TestUpdatePrefixFreeze(t *testing.T) {
	tests := []struct {
		name       string
		in         UpdateInput
		results    []dbxtest.Result
		want       error
		wantCalls  int
		wantPrefix string
	}{
		{
			name: "prefix change blocked by products",
			in:   UpdateInput{Prefix: ptr("ELX")},
			results: []dbxtest.Result{
				{Values: []any{"ELC"}},
				{Values: []any{true}},
			},
			want:      ErrPrefixInUse,
			wantCalls: 2,
		},
		{
			name: "prefix change on empty category",
			in:   UpdateInput{Prefix: ptr("elx")},
			results: []dbxtest.Result{
				{Values: []any{"ELC"}},
				{Values: []any{false}},
				{Values: categoryRow("ELX", 0)},
			},
			wantCalls:  3,
			wantPrefix: "ELX",
		},
		{
			name: "same prefix skips the product check",
			in:   UpdateInput{Prefix: ptr(" elc "), Name: ptr("Gadgets")},
			results: []dbxtest.Result{
				{Values: []any{"ELC"}},
				{Values: categoryRow("ELC", 12)},
			},
			wantCalls:  2,
			wantPrefix: "ELC",
		},
		{
			name:      "missing category",
			in:        UpdateInput{Name: ptr("Gadgets")},
			results:   []dbxtest.Result{{Err: pgx.ErrNoRows}},
			want:      ErrNotFound,
			wantCalls: 1,
		},
		{
			name: "prefix taken by another category",
			in:   UpdateInput{Prefix: ptr("BAG")},
			results: []dbxtest.Result{
				{Values: []any{"ELC"}},
				{Values: []any{false}},
				{Err: &pgconn.PgError{Code: dbx.CodeUniqueViolation}},
			},
			want:      ErrDuplicatePrefix,
			wantCalls: 3,
		},
		{
			name:      "blank name",
			in:        UpdateInput{Name: ptr("  ")},
			want:      ErrInvalidName,
			wantCalls: 0,
		},
		{
			name:      "bad prefix",
			in:        UpdateInput{Prefix: ptr("E1")},
			want:      sku.ErrInvalidPrefix,
			wantCalls: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := &dbxtest.Recorder{Results: tt.results}
			c, err := NewRepository(q).Update(context.Background(), 4, tt.in)
			if tt.want != nil {
				if !errors.Is(err, tt.want) {
					t.Fatalf("err = %v, want %v", err, tt.want)
				}
			} else if err != nil {
				t.Fatalf("Update: %v", err)
			}
			if len(q.Calls) != tt.wantCalls {
				t.Fatalf("calls = %d, want %d: %v", len(q.Calls), tt.wantCalls, q.Calls)
			}
			if tt.wantCalls > 0 && !strings.Contains(q.Calls[0].SQL, "FOR UPDATE") {
				t.Fatalf("first statement must lock the category: %s", q.Calls[0].SQL)
			}
			if tt.wantPrefix != "" && c.Prefix != tt.wantPrefix {
				t.Fatalf("prefix = %q, want %q", c.Prefix, tt.wantPrefix)
			}
		})
	}
}

func TestUpdateWritesOnlySuppliedFields(t *testing.T) {
	q := &dbxtest.Recorder{Results: []dbxtest.Result{
		{Values: []any{"ELC"}},
		{Values: categoryRow("ELC", 3)},
	}}
	if _, err := NewRepository(q).Update(context.Background(), 4, UpdateInput{Status: ptr(StatusInactive)}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	call := q.Last()
	if !strings.Contains(call.SQL, "status = $1") || strings.Contains(call.SQL, "prefix = ") || strings.Contains(call.SQL, "name = ") {
		t.Fatalf("unexpected SET list:\n%s", call.SQL)
	}
	if len(call.Args) != 2 || call.Args[0] != StatusInactive || call.Args[1] != int64(4) {
		t.Fatalf("args = %v", call.Args)
	}
}

func TestListEscapesSearch(t *testing.T) {
	stop := errors.New("stop")
	q := &dbxtest.Recorder{Default: dbxtest.Result{Err: stop}}
	if _, _, err := NewRepository(q).List(context.Background(), ListFilter{Search: "ELC_%"}, 10, 0); !errors.Is(err, stop) {
		t.Fatalf("err = %v", err)
	}
	if got := q.Last().Args[1]; got != `ELC\_\%` {
		t.Fatalf("search arg = %v, want escaped wildcards", got)
	}
}
