package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"backoffice/internal/domain/orders"
	"backoffice/internal/domain/payments"
	"backoffice/internal/domain/storage"
	"backoffice/internal/media"
	"backoffice/internal/notifications"
	"backoffice/internal/params"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type CreatePaymentPayload struct {
	OrderID       int64            `json:"order_id" validate:"required,gt=0"`
	PaymentMethod string           `json:"payment_method" validate:"required,oneof=bank_transfer promptpay cash_on_delivery credit_card"`
	Amount        *decimal.Decimal `json:"amount,omitempty" swaggertype:"string" example:"535.00"`
	Notes         *string          `json:"notes,omitempty" validate:"omitempty,max=500"`
}

type RejectPaymentPayload struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

type PaymentListResponse struct {
	Payments   []*payments.Payment `json:"payments"`
	Pagination params.Pagination   `json:"pagination"`
}

func paymentIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "paymentID"), 10, 64)
}

// paymentOrder loads the order of p and hides it from customers who do not
// own it.
func (app *application) paymentOrder(ctx context.Context, r *http.Request, orderID int64) (*orders.Order, error) {
	o, err := app.store.Orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !canSeeOrder(getUserFromContext(r), o) {
		return nil, orders.ErrNotFound
	}
	return o, nil
}

// readPaymentForm accepts either a JSON body or a multipart form with a
// "payment" JSON part and an optional "slip" file.
func readPaymentForm(w http.ResponseWriter, r *http.Request, payload *CreatePaymentPayload) (multipart.File, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return nil, readJSON(w, r, payload)
	}

	const maxBytes = media.MaxImageBytes + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}

	dec := json.NewDecoder(strings.NewReader(r.FormValue("payment")))
	dec.DisallowUnknownFields()
	if err := dec.Decode(payload); err != nil {
		return nil, fmt.Errorf("payment field: %w", err)
	}

	file, _, err := r.FormFile("slip")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("slip field: %w", err)
	}
	return file, nil
}

// createPaymentHandler godoc
//
//	@Summary		Record a payment for an order
//	@Description	The order moves to pending_verification. Amount defaults to the order total. An optional slip image is stored in the same transaction.
//	@Tags			payments
//	@Accept			json,mpfd
//	@Produce		json
//	@Param			payload	body		CreatePaymentPayload	false	"Payment (JSON body)"
//	@Param			payment	formData	string					false	"Payment JSON (multipart)"
//	@Param			slip	formData	file					false	"Transfer slip image"
//	@Success		201		{object}	envelope{data=payments.Payment}
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		404		{object}	error	"ORDER_NOT_FOUND"
//	@Failure		409		{object}	error	"INVALID_TRANSITION"
//	@Security		ApiKeyAuth
//	@Router			/payments [post]
func (app *application) createPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreatePaymentPayload
	file, err := readPaymentForm(w, r, &payload)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if file != nil {
		defer file.Close()
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var (
		ext  string
		slip io.Reader
	)
	if file != nil {
		ext, slip, err = media.SniffImage(io.LimitReader(file, media.MaxImageBytes))
		if err != nil {
			app.errorResponse(w, r, err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	if _, err := app.paymentOrder(ctx, r, payload.OrderID); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	p := &payments.Payment{
		OrderID:       payload.OrderID,
		PaymentMethod: payload.PaymentMethod,
		Notes:         payload.Notes,
	}
	if payload.Amount != nil {
		p.Amount = *payload.Amount
	}

	var uploaded string
	err = app.store.WithTx(ctx, func(tx *storage.Tx) error {
		created, err := tx.Payments.Create(ctx, p)
		if err != nil {
			return err
		}
		if slip == nil {
			return nil
		}
		path, err := app.images.Store.Put(ctx, media.SlipKey(created.OrderNumber, created.ID, ext), slip)
		if err != nil {
			return fmt.Errorf("store slip: %w", err)
		}
		uploaded = path
		created.SlipImagePath = &path
		return tx.Payments.SetSlipPath(ctx, created.ID, &path)
	})
	if err != nil {
		if uploaded != "" {
			app.images.Discard(ctx, uploaded)
		}
		app.errorResponse(w, r, err)
		return
	}

	app.logger.Infow("payment recorded", "payment_id", p.ID, "order_number", p.OrderNumber,
		"method", p.PaymentMethod, "amount", p.Amount.StringFixed(2), "slip", uploaded != "")
	if err := app.jsonResponse(w, http.StatusCreated, p); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getPaymentHandler godoc
//
//	@Summary		Get a payment
//	@Tags			payments
//	@Produce		json
//	@Param			paymentID	path		int	true	"Payment ID"
//	@Success		200			{object}	envelope{data=payments.Payment}
//	@Failure		404			{object}	error	"PAYMENT_NOT_FOUND"
//	@Security		ApiKeyAuth
//	@Router			/payments/{paymentID} [get]
func (app *application) getPaymentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := paymentIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	p, err := app.store.Payments.GetByID(ctx, id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	if _, err := app.paymentOrder(ctx, r, p.OrderID); err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			err = payments.ErrNotFound
		}
		app.errorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, p); err != nil {
		app.internalServerError(w, r, err)
	}
}

// uploadSlipHandler godoc
//
//	@Summary		Upload or replace the slip of a pending payment
//	@Tags			payments
//	@Accept			mpfd
//	@Produce		json
//	@Param			paymentID	path		int		true	"Payment ID"
//	@Param			slip		formData	file	true	"Transfer slip image"
//	@Success		200			{object}	envelope{data=payments.Payment}
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Failure		404			{object}	error	"PAYMENT_NOT_FOUND"
//	@Failure		409			{object}	error	"INVALID_TRANSITION"
//	@Security		ApiKeyAuth
//	@Router			/payments/{paymentID}/slip [put]
func (app *application) uploadSlipHandler(w http.ResponseWriter, r *http.Request) {
	id, err := paymentIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	const maxBytes = media.MaxImageBytes + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("failed to parse form: %w", err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, _, err := r.FormFile("slip")
	if err != nil {
		app.badRequestResponse(w, r, errors.New("slip file is required"))
		return
	}
	defer file.Close()

	ext, slip, err := media.SniffImage(io.LimitReader(file, media.MaxImageBytes))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	p, err := app.store.Payments.GetByID(ctx, id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	if _, err := app.paymentOrder(ctx, r, p.OrderID); err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			err = payments.ErrNotFound
		}
		app.errorResponse(w, r, err)
		return
	}
	if p.Status != payments.StatusPending {
		app.errorResponse(w, r, fmt.Errorf("%w: payment is %s", payments.ErrInvalidTransition, p.Status))
		return
	}

	var oldPath string
	if p.SlipImagePath != nil {
		oldPath = *p.SlipImagePath
	}
	newPath, err := app.images.Replace(ctx, media.SlipKey(p.OrderNumber, p.ID, ext), slip, oldPath,
		func(ctx context.Context, path string) error {
			return app.store.Payments.SetSlipPath(ctx, p.ID, &path)
		})
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	p.SlipImagePath = &newPath
	if err := app.jsonResponse(w, http.StatusOK, p); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listPaymentsHandler godoc
//
//	@Summary		List payments
//	@Tags			payments
//	@Produce		json
//	@Param			status		query		string	false	"Status"	Enums(pending,verified,rejected)
//	@Param			method		query		string	false	"Payment method"
//	@Param			order_id	query		int		false	"Order"
//	@Param			page		query		int		false	"Page"
//	@Param			limit		query		int		false	"Page size"
//	@Success		200			{object}	envelope{data=PaymentListResponse}
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Security		ApiKeyAuth
//	@Router			/payments [get]
func (app *application) listPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status, err := params.Enum(q, "status", payments.StatusPending, payments.StatusVerified, payments.StatusRejected)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	method, err := params.Enum(q, "method",
		payments.MethodBankTransfer, payments.MethodPromptPay, payments.MethodCashOnDelivery, payments.MethodCreditCard)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	orderID, err := params.OptionalInt64(q, "order_id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	p := params.ParsePagination(q)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	list, total, err := app.store.Payments.List(ctx, payments.ListFilter{
		Status:  status,
		Method:  method,
		OrderID: orderID,
	}, p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	if err := app.jsonResponse(w, http.StatusOK, PaymentListResponse{Payments: list, Pagination: p}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listPaymentLogsHandler godoc
//
//	@Summary		Audit trail of a payment
//	@Tags			payments
//	@Produce		json
//	@Param			paymentID	path		int	true	"Payment ID"
//	@Success		200			{object}	envelope{data=[]payments.Log}
//	@Failure		404			{object}	error	"PAYMENT_NOT_FOUND"
//	@Security		ApiKeyAuth
//	@Router			/payments/{paymentID}/logs [get]
func (app *application) listPaymentLogsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := paymentIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if _, err := app.store.Payments.GetByID(ctx, id); err != nil {
		app.errorResponse(w, r, err)
		return
	}
	logs, err := app.store.PayLogs.ListByPayment(ctx, id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if err := app.jsonResponse(w, http.StatusOK, logs); err != nil {
		app.internalServerError(w, r, err)
	}
}

// verifyPaymentHandler godoc
//
//	@Summary		Verify a pending payment
//	@Description	Marks the order paid and confirms it if it was still pending. The customer is notified by email.
//	@Tags			payments
//	@Produce		json
//	@Param			paymentID	path		int	true	"Payment ID"
//	@Success		200			{object}	envelope{data=payments.Payment}
//	@Failure		404			{object}	error	"PAYMENT_NOT_FOUND"
//	@Failure		409			{object}	error	"INVALID_TRANSITION"
//	@Security		ApiKeyAuth
//	@Router			/payments/{paymentID}/verify [post]
func (app *application) verifyPaymentHandler(w http.ResponseWriter, r *http.Request) {
	app.decidePayment(w, r, notifications.PaymentVerified, "")
}

// rejectPaymentHandler godoc
//
//	@Summary		Reject a pending payment
//	@Description	The order's payment status becomes rejected so the customer can pay again. The customer is notified by email with the reason.
//	@Tags			payments
//	@Accept			json
//	@Produce		json
//	@Param			paymentID	path		int						true	"Payment ID"
//	@Param			payload		body		RejectPaymentPayload	true	"Reason"
//	@Success		200			{object}	envelope{data=payments.Payment}
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Failure		404			{object}	error	"PAYMENT_NOT_FOUND"
//	@Failure		409			{object}	error	"INVALID_TRANSITION"
//	@Security		ApiKeyAuth
//	@Router			/payments/{paymentID}/reject [post]
func (app *application) rejectPaymentHandler(w http.ResponseWriter, r *http.Request) {
	var payload RejectPaymentPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	app.decidePayment(w, r, notifications.PaymentRejected, payload.Reason)
}

func (app *application) decidePayment(w http.ResponseWriter, r *http.Request, event notifications.PaymentEvent, reason string) {
	id, err := paymentIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	verifier := getUserFromContext(r)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var p *payments.Payment
	err = app.store.WithTx(ctx, func(tx *storage.Tx) error {
		var err error
		if event == notifications.PaymentVerified {
			p, err = tx.Payments.Verify(ctx, id, verifier.ID)
		} else {
			p, err = tx.Payments.Reject(ctx, id, verifier.ID, reason)
		}
		return err
	})
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.logger.Infow("payment decided", "payment_id", p.ID, "event", event, "by", verifier.ID)

	if o, err := app.store.Orders.GetByID(ctx, p.OrderID); err != nil {
		app.logger.Warnw("payment notification skipped", "payment_id", p.ID, "error", err)
	} else {
		app.notifier.NotifyPayment(r.Context(), event, o, p)
	}

	if err := app.jsonResponse(w, http.StatusOK, p); err != nil {
		app.internalServerError(w, r, err)
	}
}
