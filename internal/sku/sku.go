// Package sku generates and validates product SKUs.
//
// A SKU is the owning category's prefix (3–4 uppercase letters) followed by a
// zero-padded sequence number, e.g. ELC0001. Once a product is created its SKU
// never changes: image filenames and order item snapshots are keyed on it.
package sku

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	DefaultWidth = 4
	// MaxAttempts bounds the uniqueness retries after the max-sequence read.
	MaxAttempts = 100
)

var (
	ErrInvalidPrefix    = errors.New("prefix must be 3-4 uppercase letters")
	ErrInvalidSKU       = errors.New("invalid sku format")
	ErrImmutable        = errors.New("sku cannot be changed after creation")
	ErrExhausted        = errors.New("could not allocate a unique sku")
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryInactive = errors.New("category is inactive")
)

var (
	prefixRe = regexp.MustCompile(`^[A-Z]{3,4}$`)
	skuRe    = regexp.MustCompile(`^([A-Z]{3,4})([0-9]+)$`)
)

// ValidPrefix reports whether p is an acceptable category prefix.
func ValidPrefix(p string) bool {
	return prefixRe.MatchString(p)
}

// NormalizePrefix trims and upper-cases user input before validation.
func NormalizePrefix(p string) (string, error) {
	p = strings.ToUpper(strings.TrimSpace(p))
	if !ValidPrefix(p) {
		return "", ErrInvalidPrefix
	}
	return p, nil
}

// Format renders prefix + seq padded to width digits. Sequences that need
// more digits than width are printed in full.
func Format(prefix string, seq, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	return fmt.Sprintf("%s%0*d", prefix, width, seq)
}

// Parse splits a SKU into its prefix and sequence number.
func Parse(s string) (string, int, error) {
	m := skuRe.FindStringSubmatch(s)
	if m == nil {
		return "", 0, ErrInvalidSKU
	}
	seq, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrInvalidSKU, err)
	}
	return m[1], seq, nil
}

// Valid reports whether s is a well formed SKU.
func Valid(s string) bool {
	return skuRe.MatchString(s)
}

// CheckImmutable returns ErrImmutable when an update tries to set a SKU that
// differs from the stored one. An empty requested value means "unchanged".
func CheckImmutable(current, requested string) error {
	requested = strings.TrimSpace(requested)
	if requested == "" || requested == current {
		return nil
	}
	return ErrImmutable
}

// Source is what the generator needs from storage. Implementations are
// expected to run inside the transaction that inserts the product, so the
// category lock is held until the insert commits.
type Source interface {
	// LockCategory locks the category row and returns its prefix and whether
	// it is active. Returns ErrCategoryNotFound when the row is missing.
	LockCategory(ctx context.Context, categoryID int64) (prefix string, active bool, err error)
	// MaxSequence returns the highest sequence used by SKUs with prefix, 0 if none.
	MaxSequence(ctx context.Context, prefix string) (int, error)
	// Exists reports whether any product already uses sku.
	Exists(ctx context.Context, sku string) (bool, error)
}

type Generator struct {
	Width int
}

func NewGenerator(width int) *Generator {
	if width <= 0 {
		width = DefaultWidth
	}
	return &Generator{Width: width}
}

// Next allocates the next free SKU for the category.
func (g *Generator) Next(ctx context.Context, src Source, categoryID int64) (string, error) {
	prefix, active, err := src.LockCategory(ctx, categoryID)
	if err != nil {
		return "", err
	}
	if !active {
		return "", ErrCategoryInactive
	}
	if !ValidPrefix(prefix) {
		return "", fmt.Errorf("category %d: %w", categoryID, ErrInvalidPrefix)
	}

	max, err := src.MaxSequence(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("max sequence for %s: %w", prefix, err)
	}

	seq := max + 1
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		candidate := Format(prefix, seq, g.Width)
		exists, err := src.Exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check sku %s: %w", candidate, err)
		}
		if !exists {
			return candidate, nil
		}
		seq++
	}
	return "", ErrExhausted
}
