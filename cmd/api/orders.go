package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"backoffice/internal/domain/orders"
	"backoffice/internal/domain/storage"
	"backoffice/internal/domain/users"
	"backoffice/internal/params"

	"github.com/go-chi/chi/v5"
)

type OrderItemPayload struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,gt=0"`
}

// CreateOrderPayload places an order. Customers always order for
// themselves; staff may set user_id or place a guest order with a phone or
// email contact.
type CreateOrderPayload struct {
	UserID          *int64             `json:"user_id,omitempty" validate:"omitempty,gt=0"`
	GuestPhone      *string            `json:"guest_phone,omitempty" validate:"omitempty,thaiphone"`
	GuestEmail      *string            `json:"guest_email,omitempty" validate:"omitempty,email,max=255"`
	ShippingAddress string             `json:"shipping_address" validate:"required,max=1000"`
	Notes           *string            `json:"notes,omitempty" validate:"omitempty,max=1000"`
	VoucherCode     string             `json:"voucher_code,omitempty" validate:"omitempty,max=50"`
	Items           []OrderItemPayload `json:"items" validate:"required,min=1,max=100,dive"`
}

type UpdateOrderStatusPayload struct {
	Status string  `json:"status" validate:"required,oneof=pending confirmed processing shipped delivered cancelled"`
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

type OrderListResponse struct {
	Orders     []*orders.Order   `json:"orders"`
	Pagination params.Pagination `json:"pagination"`
}

func orderIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
}

// canSeeOrder lets staff see every order and customers only their own.
func canSeeOrder(u *users.User, o *orders.Order) bool {
	if u.IsBackOffice() {
		return true
	}
	return o.UserID != nil && *o.UserID == u.ID
}

// createOrderHandler godoc
//
//	@Summary		Place an order
//	@Description	Prices every line from the current catalogue, applies an optional voucher, reserves stock and assigns an order number, all in one transaction.
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateOrderPayload	true	"Order"
//	@Success		201		{object}	envelope{data=orders.OrderDetail}
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		404		{object}	error	"PRODUCT_NOT_FOUND"
//	@Failure		409		{object}	error	"INSUFFICIENT_STOCK"
//	@Failure		422		{object}	error	"VOUCHER_INVALID"
//	@Security		ApiKeyAuth
//	@Router			/orders [post]
func (app *application) createOrderHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateOrderPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := getUserFromContext(r)
	in := orders.CreateInput{
		ShippingAddress: strings.TrimSpace(payload.ShippingAddress),
		Notes:           payload.Notes,
		VoucherCode:     payload.VoucherCode,
		Items:           make([]orders.ItemInput, 0, len(payload.Items)),
	}
	for _, it := range payload.Items {
		in.Items = append(in.Items, orders.ItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	if user.IsBackOffice() {
		in.UserID = payload.UserID
		in.GuestPhone = payload.GuestPhone
		in.GuestEmail = payload.GuestEmail
	} else {
		if payload.UserID != nil && *payload.UserID != user.ID {
			app.forbiddenResponse(w, r)
			return
		}
		in.UserID = &user.ID
	}

	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var detail *orders.OrderDetail
	err := app.store.WithTx(ctx, func(tx *storage.Tx) error {
		var err error
		detail, err = tx.Orders.Create(ctx, in)
		return err
	})
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.logger.Infow("order placed",
		"order_number", detail.Order.OrderNumber,
		"items", len(detail.Items),
		"total", detail.Order.TotalAmount.StringFixed(2),
		"by", user.ID,
	)
	if err := app.jsonResponse(w, http.StatusCreated, detail); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getOrderHandler godoc
//
//	@Summary		Get an order with its items
//	@Tags			orders
//	@Produce		json
//	@Param			orderID	path		int	true	"Order ID"
//	@Success		200		{object}	envelope{data=orders.OrderDetail}
//	@Failure		404		{object}	error	"ORDER_NOT_FOUND"
//	@Security		ApiKeyAuth
//	@Router			/orders/{orderID} [get]
func (app *application) getOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	detail, err := app.store.Orders.GetDetail(r.Context(), id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	// other people's orders look missing rather than forbidden
	if !canSeeOrder(getUserFromContext(r), &detail.Order) {
		app.errorResponse(w, r, orders.ErrNotFound)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, detail); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getOrderByNumberHandler godoc
//
//	@Summary		Look an order up by its number
//	@Tags			orders
//	@Produce		json
//	@Param			number	path		string	true	"Order number, e.g. ORD-250101-AB12CD"
//	@Success		200		{object}	envelope{data=orders.OrderDetail}
//	@Failure		404		{object}	error	"ORDER_NOT_FOUND"
//	@Security		ApiKeyAuth
//	@Router			/orders/number/{number} [get]
func (app *application) getOrderByNumberHandler(w http.ResponseWriter, r *http.Request) {
	number := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "number")))

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	o, err := app.store.Orders.GetByNumber(ctx, number)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	detail, err := app.store.Orders.GetDetail(ctx, o.ID)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	if err := app.jsonResponse(w, http.StatusOK, detail); err != nil {
		app.internalServerError(w, r, err)
	}
}

// listOrdersHandler godoc
//
//	@Summary		List orders
//	@Tags			orders
//	@Produce		json
//	@Param			status			query		string	false	"Order status"
//	@Param			payment_status	query		string	false	"Payment status"
//	@Param			user_id			query		int		false	"Customer"
//	@Param			q				query		string	false	"Search order number, guest phone or email"
//	@Param			page			query		int		false	"Page"
//	@Param			limit			query		int		false	"Page size"
//	@Success		200				{object}	envelope{data=OrderListResponse}
//	@Failure		400				{object}	ErrorBadRequestResponse
//	@Security		ApiKeyAuth
//	@Router			/orders [get]
func (app *application) listOrdersHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status, err := params.Enum(q, "status",
		orders.StatusPending, orders.StatusConfirmed, orders.StatusProcessing,
		orders.StatusShipped, orders.StatusDelivered, orders.StatusCancelled)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	paymentStatus, err := params.Enum(q, "payment_status",
		orders.PaymentUnpaid, orders.PaymentPendingVerification, orders.PaymentPaid, orders.PaymentRejected)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	userID, err := params.OptionalInt64(q, "user_id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	p := params.ParsePagination(q)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	list, total, err := app.store.Orders.List(ctx, orders.ListFilter{
		Status:        status,
		PaymentStatus: paymentStatus,
		Search:        params.Search(q),
		UserID:        userID,
	}, p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	if err := app.jsonResponse(w, http.StatusOK, OrderListResponse{Orders: list, Pagination: p}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateOrderStatusHandler godoc
//
//	@Summary		Move an order to a new status
//	@Description	pending → confirmed → processing → shipped → delivered, or cancelled before shipping. Cancelling needs a reason and returns the stock. The customer is notified by email.
//	@Tags			orders
//	@Accept			json
//	@Produce		json
//	@Param			orderID	path		int							true	"Order ID"
//	@Param			payload	body		UpdateOrderStatusPayload	true	"New status"
//	@Success		200		{object}	envelope{data=orders.Order}
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		404		{object}	error	"ORDER_NOT_FOUND"
//	@Failure		409		{object}	error	"INVALID_TRANSITION"
//	@Security		ApiKeyAuth
//	@Router			/orders/{orderID}/status [patch]
func (app *application) updateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := orderIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	var payload UpdateOrderStatusPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var updated *orders.Order
	err = app.store.WithTx(ctx, func(tx *storage.Tx) error {
		var err error
		updated, err = tx.Orders.UpdateStatus(ctx, id, payload.Status, payload.Reason)
		return err
	})
	if err != nil {
		if errors.Is(err, orders.ErrInvalidTransition) {
			app.logger.Infow("order transition refused", "order_id", id, "to", payload.Status)
		}
		app.errorResponse(w, r, err)
		return
	}

	app.notifier.NotifyOrderStatus(r.Context(), updated)

	if err := app.jsonResponse(w, http.StatusOK, updated); err != nil {
		app.internalServerError(w, r, err)
	}
}
