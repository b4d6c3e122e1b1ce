package main

import (
	"errors"
	"net/http"

	"backoffice/internal/domain/categories"
	"backoffice/internal/domain/dashboard"
	"backoffice/internal/domain/orders"
	"backoffice/internal/domain/payments"
	"backoffice/internal/domain/products"
	"backoffice/internal/domain/users"
	"backoffice/internal/domain/vouchers"
	"backoffice/internal/media"
	"backoffice/internal/sku"

	"github.com/go-playground/validator/v10"
)

// Machine-readable error codes returned in the error envelope.
const (
	CodeSKUImmutable      = "SKU_IMMUTABLE"
	CodeDuplicatePrefix   = "DUPLICATE_PREFIX"
	CodeProductNotFound   = "PRODUCT_NOT_FOUND"
	CodeCategoryNotFound  = "CATEGORY_NOT_FOUND"
	CodeOrderNotFound     = "ORDER_NOT_FOUND"
	CodePaymentNotFound   = "PAYMENT_NOT_FOUND"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeVoucherInvalid    = "VOUCHER_INVALID"
	CodeValidation        = "VALIDATION_ERROR"
)

func (app *application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("internal error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusInternalServerError, "the server encountered a problem")
}

func (app *application) forbiddenResponse(w http.ResponseWriter, r *http.Request) {
	app.logger.Warnw("forbidden", "method", r.Method, "path", r.URL.Path)

	writeJSONError(w, http.StatusForbidden, "forbidden")
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("bad request", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	code := ""
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		code = CodeValidation
	}
	writeJSONErrorCode(w, http.StatusBadRequest, code, err.Error())
}

func (app *application) conflictResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("conflict response", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusConflict, err.Error())
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("not found error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusNotFound, "not found")
}

func (app *application) unauthorizedErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	writeJSONError(w, http.StatusUnauthorized, "unauthorized")
}

func (app *application) unauthorizedBasicErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized basic error", "method", r.Method, "path", r.URL.Path, "error", err.Error())

	w.Header().Set("WWW-Authenticate", `Basic realm="restricted", charset="UTF-8"`)

	writeJSONError(w, http.StatusUnauthorized, "unauthorized")
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request, retryAfter string) {
	app.logger.Warnw("rate limit exceeded", "method", r.Method, "path", r.URL.Path)

	w.Header().Set("Retry-After", retryAfter)

	writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded, retry after: "+retryAfter)
}

type domainError struct {
	target error
	status int
	code   string
}

// domainErrors is checked in order; the first errors.Is match wins.
var domainErrors = []domainError{
	{sku.ErrImmutable, http.StatusBadRequest, CodeSKUImmutable},
	{categories.ErrDuplicatePrefix, http.StatusConflict, CodeDuplicatePrefix},
	{categories.ErrPrefixInUse, http.StatusConflict, ""},
	{categories.ErrHasProducts, http.StatusConflict, ""},
	{categories.ErrNotFound, http.StatusNotFound, CodeCategoryNotFound},
	{categories.ErrInvalidName, http.StatusBadRequest, CodeValidation},
	{categories.ErrInvalidStatus, http.StatusBadRequest, CodeValidation},
	{sku.ErrCategoryNotFound, http.StatusNotFound, CodeCategoryNotFound},
	{sku.ErrCategoryInactive, http.StatusUnprocessableEntity, ""},
	{sku.ErrExhausted, http.StatusConflict, ""},
	{sku.ErrInvalidPrefix, http.StatusBadRequest, CodeValidation},
	{products.ErrNotFound, http.StatusNotFound, CodeProductNotFound},
	{products.ErrDuplicateSKU, http.StatusConflict, ""},
	{products.ErrInsufficientStock, http.StatusConflict, CodeInsufficientStock},
	{products.ErrInvalidPrice, http.StatusBadRequest, CodeValidation},
	{products.ErrInvalidStatus, http.StatusBadRequest, CodeValidation},
	{products.ErrInvalidName, http.StatusBadRequest, CodeValidation},
	{products.ErrCategoryRequired, http.StatusBadRequest, CodeValidation},
	{products.ErrInvalidStock, http.StatusBadRequest, CodeValidation},
	{products.ErrCategoryNotFound, http.StatusNotFound, CodeCategoryNotFound},
	{orders.ErrNotFound, http.StatusNotFound, CodeOrderNotFound},
	{orders.ErrInvalidTransition, http.StatusConflict, CodeInvalidTransition},
	{orders.ErrEmptyOrder, http.StatusBadRequest, CodeValidation},
	{orders.ErrInvalidQuantity, http.StatusBadRequest, CodeValidation},
	{orders.ErrMissingContact, http.StatusBadRequest, CodeValidation},
	{orders.ErrMissingCancelReason, http.StatusBadRequest, CodeValidation},
	{orders.ErrMissingAddress, http.StatusBadRequest, CodeValidation},
	{orders.ErrProductUnavailable, http.StatusConflict, ""},
	{payments.ErrNotFound, http.StatusNotFound, CodePaymentNotFound},
	{payments.ErrInvalidTransition, http.StatusConflict, CodeInvalidTransition},
	{payments.ErrReasonRequired, http.StatusBadRequest, CodeValidation},
	{payments.ErrInvalidMethod, http.StatusBadRequest, CodeValidation},
	{payments.ErrOrderClosed, http.StatusConflict, CodeInvalidTransition},
	{payments.ErrNegativeAmount, http.StatusBadRequest, CodeValidation},
	{vouchers.ErrNotFound, http.StatusNotFound, CodeVoucherInvalid},
	{vouchers.ErrNotApplicable, http.StatusUnprocessableEntity, CodeVoucherInvalid},
	{vouchers.ErrExhausted, http.StatusUnprocessableEntity, CodeVoucherInvalid},
	{vouchers.ErrDuplicateCode, http.StatusConflict, ""},
	{vouchers.ErrInvalid, http.StatusBadRequest, CodeValidation},
	{users.ErrNotFound, http.StatusNotFound, ""},
	{users.ErrDuplicateEmail, http.StatusConflict, ""},
	{users.ErrInvalidRole, http.StatusBadRequest, CodeValidation},
	{users.ErrInvalidStatus, http.StatusBadRequest, CodeValidation},
	{media.ErrUnsupportedType, http.StatusUnsupportedMediaType, ""},
	{media.ErrEmptyFile, http.StatusBadRequest, ""},
	{dashboard.ErrInvalidDays, http.StatusBadRequest, CodeValidation},
}

// errorResponse maps known domain errors to a status and code; anything else
// is a 500.
func (app *application) errorResponse(w http.ResponseWriter, r *http.Request, err error) {
	for _, de := range domainErrors {
		if errors.Is(err, de.target) {
			if de.status >= 500 {
				break
			}
			app.logger.Warnw("request failed", "method", r.Method, "path", r.URL.Path,
				"status", de.status, "code", de.code, "error", err.Error())
			writeJSONErrorCode(w, de.status, de.code, err.Error())
			return
		}
	}
	app.internalServerError(w, r, err)
}
