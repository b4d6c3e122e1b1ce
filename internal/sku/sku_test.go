package sku

import (
	"context"
	"errors"
	"testing"
)

type fakeSource struct {
	prefix   string
	active   bool
	missing  bool
	taken    map[string]bool
	maxSeq   int
	maxErr   error
	lockCall int
}

func (f *fakeSource) LockCategory(ctx context.Context, categoryID int64) (string, bool, error) {
	f.lockCall++
	if f.missing {
		return "", false, ErrCategoryNotFound
	}
	return f.prefix, f.active, nil
}

func (f *fakeSource) MaxSequence(ctx context.Context, prefix string) (int, error) {
	return f.maxSeq, f.maxErr
}

func (f *fakeSource) Exists(ctx context.Context, sku string) (bool, error) {
	return f.taken[sku], nil
}

func TestFormat(t *testing.T) {
	tests := []struct {
		prefix string
		seq    int
		width  int
		want   string
	}{
		{"ELC", 1, 4, "ELC0001"},
		{"CLTH", 42, 4, "CLTH0042"},
		{"ELC", 12345, 4, "ELC12345"},
		{"BAG", 7, 0, "BAG0007"},
		{"BAG", 7, 6, "BAG000007"},
	}
	for _, tt := range tests {
		if got := Format(tt.prefix, tt.seq, tt.width); got != tt.want {
			t.Errorf("Format(%q, %d, %d) = %q, want %q", tt.prefix, tt.seq, tt.width, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	prefix, seq, err := Parse("CLTH0042")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if prefix != "CLTH" || seq != 42 {
		t.Fatalf("Parse = %q %d", prefix, seq)
	}

	for _, bad := range []string{"", "EL0001", "ELECT0001", "elc0001", "ELC", "ELC-0001"} {
		if _, _, err := Parse(bad); !errors.Is(err, ErrInvalidSKU) {
			t.Errorf("Parse(%q) err = %v, want ErrInvalidSKU", bad, err)
		}
	}
}

func TestNormalizePrefix(t *testing.T) {
	got, err := NormalizePrefix(" elc ")
	if err != nil || got != "ELC" {
		t.Fatalf("NormalizePrefix = %q, %v", got, err)
	}
	for _, bad := range []string{"EL", "ELECT", "E1C", "เสื้อ"} {
		if _, err := NormalizePrefix(bad); !errors.Is(err, ErrInvalidPrefix) {
			t.Errorf("NormalizePrefix(%q) err = %v", bad, err)
		}
	}
}

func TestCheckImmutable(t *testing.T) {
	if err := CheckImmutable("ELC0001", ""); err != nil {
		t.Fatalf("empty request: %v", err)
	}
	if err := CheckImmutable("ELC0001", "ELC0001"); err != nil {
		t.Fatalf("same value: %v", err)
	}
	if err := CheckImmutable("ELC0001", "ELC0002"); !errors.Is(err, ErrImmutable) {
		t.Fatalf("changed value err = %v, want ErrImmutable", err)
	}
}

func TestGeneratorNext(t *testing.T) {
	ctx := context.Background()
	g := NewGenerator(4)

	t.Run("first product in category", func(t *testing.T) {
		src := &fakeSource{prefix: "ELC", active: true}
		got, err := g.Next(ctx, src, 1)
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if got != "ELC0001" {
			t.Fatalf("Next = %q, want ELC0001", got)
		}
		if src.lockCall != 1 {
			t.Fatalf("LockCategory called %d times", src.lockCall)
		}
	})

	t.Run("continues after max", func(t *testing.T) {
		src := &fakeSource{prefix: "ELC", active: true, maxSeq: 41}
		got, err := g.Next(ctx, src, 1)
		if err != nil || got != "ELC0042" {
			t.Fatalf("Next = %q, %v", got, err)
		}
	})

	t.Run("skips taken candidates", func(t *testing.T) {
		src := &fakeSource{
			prefix: "BAG", active: true, maxSeq: 9,
			taken: map[string]bool{"BAG0010": true, "BAG0011": true},
		}
		got, err := g.Next(ctx, src, 1)
		if err != nil || got != "BAG0012" {
			t.Fatalf("Next = %q, %v", got, err)
		}
	})

	t.Run("exhausted", func(t *testing.T) {
		taken := map[string]bool{}
		for i := 1; i <= MaxAttempts; i++ {
			taken[Format("BAG", i, 4)] = true
		}
		src := &fakeSource{prefix: "BAG", active: true, taken: taken}
		if _, err := g.Next(ctx, src, 1); !errors.Is(err, ErrExhausted) {
			t.Fatalf("err = %v, want ErrExhausted", err)
		}
	})

	t.Run("inactive category", func(t *testing.T) {
		src := &fakeSource{prefix: "ELC", active: false}
		if _, err := g.Next(ctx, src, 1); !errors.Is(err, ErrCategoryInactive) {
			t.Fatalf("err = %v, want ErrCategoryInactive", err)
		}
	})

	t.Run("missing category", func(t *testing.T) {
		src := &fakeSource{missing: true}
		if _, err := g.Next(ctx, src, 1); !errors.Is(err, ErrCategoryNotFound) {
			t.Fatalf("err = %v, want ErrCategoryNotFound", err)
		}
	})

	t.Run("corrupt prefix", func(t *testing.T) {
		src := &fakeSource{prefix: "el", active: true}
		if _, err := g.Next(ctx, src, 1); !errors.Is(err, ErrInvalidPrefix) {
			t.Fatalf("err = %v, want ErrInvalidPrefix", err)
		}
	})

	t.Run("store error is wrapped", func(t *testing.T) {
		boom := errors.New("boom")
		src := &fakeSource{prefix: "ELC", active: true, maxErr: boom}
		if _, err := g.Next(ctx, src, 1); !errors.Is(err, boom) {
			t.Fatalf("err = %v, want wrapped boom", err)
		}
	})
}
