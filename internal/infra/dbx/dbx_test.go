package dbx

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"tote", "tote"},
		{"100%", `100\%`},
		{"BAG_", `BAG\_`},
		{`a\b`, `a\\b`},
		{`%_\`, `\%\_\\`},
		{"", ""},
	}
	for _, tt := range tests {
		if got := EscapeLike(tt.in); got != tt.want {
			t.Fatalf("EscapeLike(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPgCode(t *testing.T) {
	wrapped := fmt.Errorf("insert: %w", &pgconn.PgError{Code: CodeUniqueViolation, ConstraintName: "products_sku_key"})
	if got := PgCode(wrapped); got != CodeUniqueViolation {
		t.Fatalf("PgCode = %q, want %q", got, CodeUniqueViolation)
	}
	if got := ConstraintName(wrapped); got != "products_sku_key" {
		t.Fatalf("ConstraintName = %q", got)
	}
	if got := PgCode(errors.New("plain")); got != "" {
		t.Fatalf("PgCode(plain) = %q, want empty", got)
	}
}
