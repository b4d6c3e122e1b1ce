package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"backoffice/internal/domain/categories"
	"backoffice/internal/domain/dashboard"
	"backoffice/internal/domain/orders"
	"backoffice/internal/domain/payments"
	"backoffice/internal/domain/products"

	"github.com/shopspring/decimal"
)

func mustDecimal(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decodeError(t *testing.T, body string) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		t.Fatalf("decode error body %q: %v", body, err)
	}
	return env
}

func TestHealthCheck(t *testing.T) {
	app := newTestApplication(t)
	mux := app.mount()

	req, _ := http.NewRequest(http.MethodGet, "/api/health", nil)
	rr := executeRequest(req, mux)
	checkResponseCode(t, http.StatusOK, rr.Code)

	var got struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Data["status"] != "ok" || got.Data["env"] != "test" {
		t.Fatalf("unexpected body %v", got.Data)
	}
}

func TestAuthTokenMiddleware(t *testing.T) {
	app := newTestApplication(t)
	mux := app.mount()

	t.Run("missing header is 401", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/products/next-sku?category_id=1", nil)
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("garbage token is 401", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("suspended user is 403", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", bearer(t, app, 3, "staff"))
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusForbidden, rr.Code)
	})

	t.Run("customer cannot edit the catalogue", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodPatch, "/api/products/7", strings.NewReader(`{"name":"x"}`))
		req.Header.Set("Authorization", bearer(t, app, 2, "customer"))
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusForbidden, rr.Code)
	})

	t.Run("active user reaches the handler", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/auth/me", nil)
		req.Header.Set("Authorization", bearer(t, app, 2, "customer"))
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusOK, rr.Code)
	})
}

func TestUpdateProductRejectsSKUChange(t *testing.T) {
	app := newTestApplication(t)
	mux := app.mount()

	req, _ := http.NewRequest(http.MethodPatch, "/api/products/7", strings.NewReader(`{"sku":"BAG0099","name":"Tote"}`))
	req.Header.Set("Authorization", bearer(t, app, 1, "admin"))
	rr := executeRequest(req, mux)

	checkResponseCode(t, http.StatusBadRequest, rr.Code)
	if env := decodeError(t, rr.Body.String()); env.Code != CodeSKUImmutable {
		t.Fatalf("expected code %s, got %q", CodeSKUImmutable, env.Code)
	}

	// resending the current SKU is not a change
	req, _ = http.NewRequest(http.MethodPatch, "/api/products/7", strings.NewReader(`{"sku":"BAG0007","name":"Tote"}`))
	req.Header.Set("Authorization", bearer(t, app, 1, "admin"))
	rr = executeRequest(req, mux)
	checkResponseCode(t, http.StatusOK, rr.Code)
}

func TestGetProduct(t *testing.T) {
	app := newTestApplication(t)
	mux := app.mount()

	t.Run("by SKU adds the VAT inclusive price", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/products/sku/bag0007", nil)
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusOK, rr.Code)

		var got struct {
			Data struct {
				SKU               string          `json:"sku"`
				PriceIncludingVAT decimal.Decimal `json:"price_including_vat"`
			} `json:"data"`
		}
		if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
			t.Fatal(err)
		}
		if got.Data.SKU != "BAG0007" {
			t.Fatalf("got sku %q", got.Data.SKU)
		}
		if !got.Data.PriceIncludingVAT.Equal(mustDecimal("107")) {
			t.Fatalf("got price incl. VAT %s", got.Data.PriceIncludingVAT)
		}
	})

	t.Run("malformed SKU is 400", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/products/sku/B-1", nil)
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("unknown id is PRODUCT_NOT_FOUND", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "/api/products/99", nil)
		rr := executeRequest(req, mux)
		checkResponseCode(t, http.StatusNotFound, rr.Code)
		if env := decodeError(t, rr.Body.String()); env.Code != CodeProductNotFound {
			t.Fatalf("expected %s, got %q", CodeProductNotFound, env.Code)
		}
	})
}

func TestCreateProductRejectsClientSKU(t *testing.T) {
	app := newTestApplication(t)
	mux := app.mount()

	body := `{"sku":"BAG0001","name":"Tote","category_id":2,"price_excluding_vat":"100","stock_quantity":1}`
	req, _ := http.NewRequest(http.MethodPost, "/api/products", strings.NewReader(body))
	req.Header.Set("Authorization", bearer(t, app, 1, "admin"))
	req.Header.Set("Content-Type", "application/json")
	rr := executeRequest(req, mux)

	checkResponseCode(t, http.StatusBadRequest, rr.Code)
	if env := decodeError(t, rr.Body.String()); env.Code != CodeValidation {
		t.Fatalf("expected %s, got %q", CodeValidation, env.Code)
	}
}

func TestErrorResponseMapping(t *testing.T) {
	app := newTestApplication(t)

	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{fmt.Errorf("create: %w", categories.ErrDuplicatePrefix), http.StatusConflict, CodeDuplicatePrefix},
		{categories.ErrNotFound, http.StatusNotFound, CodeCategoryNotFound},
		{categories.ErrInvalidName, http.StatusBadRequest, CodeValidation},
		{fmt.Errorf("%w: \"deleted\"", categories.ErrInvalidStatus), http.StatusBadRequest, CodeValidation},
		{categories.ErrPrefixInUse, http.StatusConflict, ""},
		{products.ErrInvalidName, http.StatusBadRequest, CodeValidation},
		{products.ErrCategoryRequired, http.StatusBadRequest, CodeValidation},
		{products.ErrInvalidStock, http.StatusBadRequest, CodeValidation},
		{fmt.Errorf("category 99: %w", products.ErrCategoryNotFound), http.StatusNotFound, CodeCategoryNotFound},
		{orders.ErrMissingAddress, http.StatusBadRequest, CodeValidation},
		{payments.ErrNegativeAmount, http.StatusBadRequest, CodeValidation},
		{fmt.Errorf("%w: got 400", dashboard.ErrInvalidDays), http.StatusBadRequest, CodeValidation},
		{errors.New("boom"), http.StatusInternalServerError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			app.errorResponse(rr, req, tt.err)

			checkResponseCode(t, tt.wantStatus, rr.Code)
			if env := decodeError(t, rr.Body.String()); env.Code != tt.wantCode {
				t.Fatalf("expected code %q, got %q", tt.wantCode, env.Code)
			}
		})
	}
}

func TestCustomValidators(t *testing.T) {
	type sample struct {
		Prefix string `validate:"skuprefix"`
		Phone  string `validate:"thaiphone"`
	}

	tests := []struct {
		in    sample
		valid bool
	}{
		{sample{"BAG", "0812345678"}, true},
		{sample{"CLTH", "0612345678"}, true},
		{sample{"bag", "0812345678"}, false},
		{sample{"BAGGY", "0812345678"}, false},
		{sample{"BAG", "021234567"}, false},
		{sample{"BAG", "+66812345678"}, false},
	}
	for _, tt := range tests {
		err := Validate.Struct(tt.in)
		if (err == nil) != tt.valid {
			t.Errorf("%+v: valid=%v, err=%v", tt.in, tt.valid, err)
		}
	}
}
