package main

import (
	"net/http"
	"testing"

	"backoffice/internal/domain/dashboard"
)

func TestSalesByDayWindow(t *testing.T) {
	tests := []struct {
		query      string
		wantStatus int
		wantDays   int
	}{
		{"", http.StatusOK, 30},
		{"?days=1", http.StatusOK, 1},
		{"?days=91", http.StatusOK, 91},
		{"?days=366", http.StatusOK, dashboard.MaxSalesDays},
		{"?days=0", http.StatusBadRequest, 0},
		{"?days=367", http.StatusBadRequest, 0},
		{"?days=-7", http.StatusBadRequest, 0},
		{"?days=week", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			env := newTestEnv(t)
			mux := env.app.mount()

			req, _ := http.NewRequest(http.MethodGet, "/api/dashboard/sales"+tt.query, nil)
			req.Header.Set("Authorization", bearer(t, env.app, 1, "admin"))
			rr := executeRequest(req, mux)

			checkResponseCode(t, tt.wantStatus, rr.Code)
			if tt.wantStatus != http.StatusOK {
				if e := decodeError(t, rr.Body.String()); e.Code != CodeValidation {
					t.Fatalf("code = %q, want %s", e.Code, CodeValidation)
				}
				if len(env.dashboard.days) != 0 {
					t.Fatalf("store queried with %v for an invalid window", env.dashboard.days)
				}
				return
			}
			if len(env.dashboard.days) != 1 || env.dashboard.days[0] != tt.wantDays {
				t.Fatalf("store queried with %v, want [%d]", env.dashboard.days, tt.wantDays)
			}
		})
	}
}
