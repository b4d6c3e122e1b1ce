package main

import (
	"testing"

	"backoffice/internal/domain/orders"
	"backoffice/internal/domain/users"
)

func TestCanSeeOrder(t *testing.T) {
	owner := int64(2)
	own := &orders.Order{UserID: &owner}
	guest := &orders.Order{}

	tests := []struct {
		name string
		user *users.User
		o    *orders.Order
		want bool
	}{
		{"staff sees any order", &users.User{ID: 9, Role: users.RoleStaff}, own, true},
		{"admin sees guest orders", &users.User{ID: 1, Role: users.RoleAdmin}, guest, true},
		{"customer sees own order", &users.User{ID: 2, Role: users.RoleCustomer}, own, true},
		{"customer cannot see another customer's order", &users.User{ID: 3, Role: users.RoleCustomer}, own, false},
		{"customer cannot see guest orders", &users.User{ID: 2, Role: users.RoleCustomer}, guest, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canSeeOrder(tt.user, tt.o); got != tt.want {
				t.Fatalf("got %v want %v", got, tt.want)
			}
		})
	}
}
