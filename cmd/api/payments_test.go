package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"backoffice/internal/domain/payments"
	"backoffice/internal/mailer"
)

func TestDecidePayment(t *testing.T) {
	tests := []struct {
		name        string
		url         string
		body        string
		wantStatus  int
		wantCode    string
		wantPayment string
		wantMail    string
		wantBegun   int
		wantCommits int
	}{
		{
			name:        "verify pending",
			url:         "/api/payments/21/verify",
			wantStatus:  http.StatusOK,
			wantPayment: payments.StatusVerified,
			wantMail:    mailer.PaymentVerifiedTemplate + " somchai@example.com",
			wantBegun:   1,
			wantCommits: 1,
		},
		{
			name:        "reject pending with reason",
			url:         "/api/payments/21/reject",
			body:        `{"reason":"amount does not match"}`,
			wantStatus:  http.StatusOK,
			wantPayment: payments.StatusRejected,
			wantMail:    mailer.PaymentRejectedTemplate + " somchai@example.com",
			wantBegun:   1,
			wantCommits: 1,
		},
		{
			name:        "reject without reason",
			url:         "/api/payments/21/reject",
			body:        `{}`,
			wantStatus:  http.StatusBadRequest,
			wantCode:    CodeValidation,
			wantPayment: payments.StatusPending,
		},
		{
			name:        "verify already verified",
			url:         "/api/payments/22/verify",
			wantStatus:  http.StatusConflict,
			wantCode:    CodeInvalidTransition,
			wantPayment: payments.StatusVerified,
			wantBegun:   1,
		},
		{
			name:       "unknown payment",
			url:        "/api/payments/99/verify",
			wantStatus: http.StatusNotFound,
			wantCode:   CodePaymentNotFound,
			wantBegun:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			mux := env.app.mount()

			req, _ := http.NewRequest(http.MethodPost, tt.url, strings.NewReader(tt.body))
			req.Header.Set("Authorization", bearer(t, env.app, 1, "admin"))
			rr := executeRequest(req, mux)

			checkResponseCode(t, tt.wantStatus, rr.Code)
			begun, commits, _ := env.db.counts()
			if begun != tt.wantBegun || commits != tt.wantCommits {
				t.Fatalf("tx begun=%d commits=%d, want %d/%d", begun, commits, tt.wantBegun, tt.wantCommits)
			}

			if tt.wantCode != "" {
				if e := decodeError(t, rr.Body.String()); e.Code != tt.wantCode {
					t.Fatalf("code = %q, want %s", e.Code, tt.wantCode)
				}
			}
			if tt.wantPayment != "" {
				id := int64(21)
				if strings.Contains(tt.url, "/22/") {
					id = 22
				}
				if got := env.payments.byID[id].Status; got != tt.wantPayment {
					t.Fatalf("payment status = %s, want %s", got, tt.wantPayment)
				}
			}

			if tt.wantMail == "" {
				select {
				case s := <-env.mail.sent:
					t.Fatalf("unexpected notification %q", s)
				default:
				}
				return
			}
			if got := env.mail.wait(t); got != tt.wantMail {
				t.Fatalf("notification = %q, want %q", got, tt.wantMail)
			}

			var got struct {
				Data payments.Payment `json:"data"`
			}
			if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
				t.Fatal(err)
			}
			if got.Data.VerifiedBy == nil || *got.Data.VerifiedBy != 1 {
				t.Fatalf("verified_by = %v, want the admin", got.Data.VerifiedBy)
			}
		})
	}
}
