package params

import (
	"net/url"
	"strings"
	"testing"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantPage   int
		wantOffset int
	}{
		{"", DefaultLimit, 1, 0},
		{"limit=30&page=2", 30, 2, 30},
		{"limit=0", DefaultLimit, 1, 0},
		{"limit=5000", MaxLimit, 1, 0},
		{"limit=abc&page=-3", DefaultLimit, 1, 0},
		{"limit=10&page=4", 10, 4, 30},
	}

	for _, tt := range tests {
		q, _ := url.ParseQuery(tt.query)
		p := ParsePagination(q)
		if p.Limit != tt.wantLimit || p.Page != tt.wantPage || p.Offset != tt.wantOffset {
			t.Errorf("ParsePagination(%q) = limit %d page %d offset %d, want %d %d %d",
				tt.query, p.Limit, p.Page, p.Offset, tt.wantLimit, tt.wantPage, tt.wantOffset)
		}
	}
}

func TestComputeMeta(t *testing.T) {
	p := Pagination{Limit: 10, Page: 2}
	p.ComputeMeta(25)

	if p.TotalPages != 3 {
		t.Fatalf("TotalPages = %d, want 3", p.TotalPages)
	}
	if !p.HasPrev || !p.HasNext {
		t.Fatalf("HasPrev=%v HasNext=%v, want both true", p.HasPrev, p.HasNext)
	}

	p = Pagination{Limit: 10, Page: 3}
	p.ComputeMeta(25)
	if p.HasNext {
		t.Fatal("last page must not have next")
	}
}

func TestEnum(t *testing.T) {
	q := url.Values{"status": {"active"}}
	v, err := Enum(q, "status", "active", "inactive")
	if err != nil || v != "active" {
		t.Fatalf("Enum = %q, %v", v, err)
	}

	v, err = Enum(url.Values{}, "status", "active")
	if err != nil || v != "" {
		t.Fatalf("empty Enum = %q, %v", v, err)
	}

	if _, err := Enum(url.Values{"status": {"deleted"}}, "status", "active"); err == nil {
		t.Fatal("expected error for value outside the allowed set")
	}
}

func TestOptionalInt64(t *testing.T) {
	v, err := OptionalInt64(url.Values{"category_id": {"12"}}, "category_id")
	if err != nil || v == nil || *v != 12 {
		t.Fatalf("OptionalInt64 = %v, %v", v, err)
	}
	if v, err := OptionalInt64(url.Values{}, "category_id"); err != nil || v != nil {
		t.Fatalf("missing value = %v, %v", v, err)
	}
	if _, err := OptionalInt64(url.Values{"category_id": {"0"}}, "category_id"); err == nil {
		t.Fatal("expected error for non-positive id")
	}
}

func TestSearchIsBounded(t *testing.T) {
	long := strings.Repeat("ก", 150)
	if got := Search(url.Values{"q": {long}}); len([]rune(got)) != 100 {
		t.Fatalf("Search length = %d runes, want 100", len([]rune(got)))
	}
	if got := Search(url.Values{"q": {"  เสื้อ  "}}); got != "เสื้อ" {
		t.Fatalf("Search = %q", got)
	}
}
