package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"backoffice/internal/domain/vouchers"
	"backoffice/internal/params"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type VoucherPayload struct {
	Code           string           `json:"code" validate:"required,min=3,max=50"`
	Description    *string          `json:"description,omitempty" validate:"omitempty,max=500"`
	DiscountType   string           `json:"discount_type" validate:"required,oneof=percent fixed"`
	DiscountValue  decimal.Decimal  `json:"discount_value" swaggertype:"string" example:"10"`
	MinOrderAmount decimal.Decimal  `json:"min_order_amount" swaggertype:"string" example:"500.00"`
	MaxDiscount    *decimal.Decimal `json:"max_discount,omitempty" swaggertype:"string"`
	UsageLimit     *int             `json:"usage_limit,omitempty" validate:"omitempty,gte=0"`
	StartsAt       *time.Time       `json:"starts_at,omitempty"`
	ExpiresAt      *time.Time       `json:"expires_at,omitempty"`
	Status         string           `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

func (p VoucherPayload) voucher() *vouchers.Voucher {
	return &vouchers.Voucher{
		Code:           p.Code,
		Description:    p.Description,
		DiscountType:   p.DiscountType,
		DiscountValue:  p.DiscountValue,
		MinOrderAmount: p.MinOrderAmount,
		MaxDiscount:    p.MaxDiscount,
		UsageLimit:     p.UsageLimit,
		StartsAt:       p.StartsAt,
		ExpiresAt:      p.ExpiresAt,
		Status:         p.Status,
	}
}

type ValidateVoucherPayload struct {
	Code     string          `json:"code" validate:"required,max=50"`
	Subtotal decimal.Decimal `json:"subtotal_excluding_vat" swaggertype:"string" example:"1200.00"`
}

type ValidateVoucherResponse struct {
	Code           string          `json:"code"`
	Valid          bool            `json:"valid"`
	Reason         string          `json:"reason,omitempty"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

type VoucherListResponse struct {
	Vouchers   []*vouchers.Voucher `json:"vouchers"`
	Pagination params.Pagination   `json:"pagination"`
}

func voucherIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "voucherID"), 10, 64)
}

// validateVoucherHandler godoc
//
//	@Summary		Check a voucher against a subtotal
//	@Description	Does not redeem the voucher. A voucher that exists but does not apply returns 200 with valid=false and a reason.
//	@Tags			vouchers
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		ValidateVoucherPayload	true	"Code and VAT-exclusive subtotal"
//	@Success		200		{object}	envelope{data=ValidateVoucherResponse}
//	@Failure		404		{object}	error	"VOUCHER_INVALID"
//	@Security		ApiKeyAuth
//	@Router			/vouchers/validate [post]
func (app *application) validateVoucherHandler(w http.ResponseWriter, r *http.Request) {
	var payload ValidateVoucherPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v, err := app.store.Vouchers.GetByCode(r.Context(), payload.Code)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	resp := ValidateVoucherResponse{Code: v.Code, Valid: true}
	resp.DiscountAmount, err = v.Discount(payload.Subtotal, time.Now())
	if err != nil {
		var na *vouchers.NotApplicableError
		if !errors.As(err, &na) {
			app.errorResponse(w, r, err)
			return
		}
		resp.Valid = false
		resp.Reason = na.Reason
	}

	if err := app.jsonResponse(w, http.StatusOK, resp); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listVouchersHandler godoc
//
//	@Summary		List vouchers
//	@Tags			vouchers
//	@Produce		json
//	@Param			status	query		string	false	"Status"	Enums(active,inactive)
//	@Param			q		query		string	false	"Search code"
//	@Param			page	query		int		false	"Page"
//	@Param			limit	query		int		false	"Page size"
//	@Success		200		{object}	envelope{data=VoucherListResponse}
//	@Security		ApiKeyAuth
//	@Router			/vouchers [get]
func (app *application) listVouchersHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status, err := params.Enum(q, "status", vouchers.StatusActive, vouchers.StatusInactive)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	p := params.ParsePagination(q)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	list, total, err := app.store.Vouchers.List(ctx, vouchers.ListFilter{Status: status, Search: params.Search(q)}, p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	if err := app.jsonResponse(w, http.StatusOK, VoucherListResponse{Vouchers: list, Pagination: p}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createVoucherHandler godoc
//
//	@Summary		Create a voucher
//	@Tags			vouchers
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		VoucherPayload	true	"Voucher"
//	@Success		201		{object}	envelope{data=vouchers.Voucher}
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		409		{object}	error	"Duplicate code"
//	@Security		ApiKeyAuth
//	@Router			/vouchers [post]
func (app *application) createVoucherHandler(w http.ResponseWriter, r *http.Request) {
	var payload VoucherPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := payload.voucher()
	if err := app.store.Vouchers.Create(r.Context(), v); err != nil {
		app.errorResponse(w, r, err)
		return
	}
	if err := app.jsonResponse(w, http.StatusCreated, v); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getVoucherHandler godoc
//
//	@Summary		Get a voucher
//	@Tags			vouchers
//	@Produce		json
//	@Param			voucherID	path		int	true	"Voucher ID"
//	@Success		200			{object}	envelope{data=vouchers.Voucher}
//	@Failure		404			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/vouchers/{voucherID} [get]
func (app *application) getVoucherHandler(w http.ResponseWriter, r *http.Request) {
	id, err := voucherIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	v, err := app.store.Vouchers.GetByID(r.Context(), id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	if err := app.jsonResponse(w, http.StatusOK, v); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateVoucherHandler godoc
//
//	@Summary		Replace a voucher
//	@Description	used_count is kept.
//	@Tags			vouchers
//	@Accept			json
//	@Produce		json
//	@Param			voucherID	path		int				true	"Voucher ID"
//	@Param			payload		body		VoucherPayload	true	"Voucher"
//	@Success		200			{object}	envelope{data=vouchers.Voucher}
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Failure		404			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/vouchers/{voucherID} [put]
func (app *application) updateVoucherHandler(w http.ResponseWriter, r *http.Request) {
	id, err := voucherIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	var payload VoucherPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	v := payload.voucher()
	v.ID = id
	if err := app.store.Vouchers.Update(r.Context(), v); err != nil {
		app.errorResponse(w, r, err)
		return
	}
	if err := app.jsonResponse(w, http.StatusOK, v); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteVoucherHandler godoc
//
//	@Summary		Delete a voucher
//	@Description	Vouchers already used by orders cannot be deleted; set them inactive instead.
//	@Tags			vouchers
//	@Param			voucherID	path		int		true	"Voucher ID"
//	@Success		204			{string}	string	"No Content"
//	@Failure		404			{object}	error
//	@Security		ApiKeyAuth
//	@Router			/vouchers/{voucherID} [delete]
func (app *application) deleteVoucherHandler(w http.ResponseWriter, r *http.Request) {
	id, err := voucherIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := app.store.Vouchers.Delete(r.Context(), id); err != nil {
		app.errorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
