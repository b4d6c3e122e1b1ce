package categories

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound        = errors.New("category not found")
	ErrDuplicatePrefix = errors.New("a category with that prefix already exists")
	ErrPrefixInUse     = errors.New("prefix cannot change while the category has products")
	ErrHasProducts     = errors.New("category has associated products")
	ErrInvalidName     = errors.New("category name cannot be empty")
	ErrInvalidStatus   = errors.New("invalid category status")
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

type Category struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Prefix       string    `json:"prefix"`
	Description  *string   `json:"description,omitempty"`
	Status       string    `json:"status"`
	ProductCount int       `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UpdateInput carries a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Name        *string
	Prefix      *string
	Description *string
	Status      *string
}

type ListFilter struct {
	Status string
	Search string
}

// SeedResult reports what Seed did per row.
type SeedResult struct {
	Inserted []string `json:"inserted"`
	Skipped  []string `json:"skipped"`
}

type Store interface {
	Create(ctx context.Context, c *Category) (*Category, error)
	GetByID(ctx context.Context, id int64) (*Category, error)
	List(ctx context.Context, f ListFilter, limit, offset int) ([]*Category, int, error)
	Update(ctx context.Context, id int64, in UpdateInput) (*Category, error)
	Delete(ctx context.Context, id int64) error
	Seed(ctx context.Context, defaults []Category) (*SeedResult, error)
}

// Defaults is the starter category set for the shop. Names are shown to Thai
// customers; prefixes drive SKUs.
var Defaults = []Category{
	{Name: "เสื้อผ้า", Prefix: "CLTH"},
	{Name: "กระเป๋า", Prefix: "BAG"},
	{Name: "รองเท้า", Prefix: "SHOE"},
	{Name: "เครื่องใช้ไฟฟ้า", Prefix: "ELC"},
	{Name: "ของใช้ในบ้าน", Prefix: "HOME"},
	{Name: "เครื่องประดับ", Prefix: "ACC"},
	{Name: "ของเล่น", Prefix: "TOY"},
	{Name: "หนังสือ", Prefix: "BOOK"},
}
