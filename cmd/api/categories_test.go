package main

import (
	"net/http"
	"strings"
	"testing"
)

func TestUpdateCategoryPrefix(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		body        string
		wantStatus  int
		wantCode    string
		wantCommits int
		wantPrefix  string
	}{
		{
			name:       "frozen once products exist",
			url:        "/api/categories/2",
			body:       `{"prefix":"BAGS"}`,
			wantStatus: http.StatusConflict,
			wantPrefix: "BAG",
		},
		{
			name:        "free while the category is empty",
			url:         "/api/categories/4",
			body:        `{"prefix":"ELEC"}`,
			wantStatus:  http.StatusOK,
			wantCommits: 1,
			wantPrefix:  "ELEC",
		},
		{
			name:        "other fields stay editable",
			url:         "/api/categories/2",
			body:        `{"name":"Bags and wallets"}`,
			wantStatus:  http.StatusOK,
			wantCommits: 1,
			wantPrefix:  "BAG",
		},
		{
			name:       "unknown category",
			url:        "/api/categories/99",
			body:       `{"name":"x"}`,
			wantStatus: http.StatusNotFound,
			wantCode:   CodeCategoryNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			mux := env.app.mount()

			req, _ := http.NewRequest(http.MethodPatch, tt.url, strings.NewReader(tt.body))
			req.Header.Set("Authorization", bearer(t, env.app, 1, "admin"))
			rr := executeRequest(req, mux)

			checkResponseCode(t, tt.wantStatus, rr.Code)
			if tt.wantCode != "" {
				if e := decodeError(t, rr.Body.String()); e.Code != tt.wantCode {
					t.Fatalf("code = %q, want %s", e.Code, tt.wantCode)
				}
			}

			begun, commits, _ := env.db.counts()
			if begun != 1 || commits != tt.wantCommits {
				t.Fatalf("tx begun=%d commits=%d, want 1/%d", begun, commits, tt.wantCommits)
			}
			if tt.wantPrefix == "" {
				return
			}
			id := int64(2)
			if strings.HasSuffix(tt.url, "/4") {
				id = 4
			}
			if got := env.categories.byID[id].Prefix; got != tt.wantPrefix {
				t.Fatalf("prefix = %s, want %s", got, tt.wantPrefix)
			}
		})
	}
}
