package main

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"backoffice/internal/domain/dashboard"
	"backoffice/internal/domain/products"
)

// dashboardOverviewHandler godoc
//
//	@Summary		Back-office overview totals
//	@Description	Counts of users, catalogue, orders by status, pending payments, and revenue and VAT from paid orders.
//	@Tags			dashboard
//	@Produce		json
//	@Success		200	{object}	envelope{data=dashboard.Overview}
//	@Failure		401	{object}	error
//	@Failure		403	{object}	error
//	@Failure		500	{object}	error
//	@Security		ApiKeyAuth
//	@Router			/dashboard/overview [get]
func (app *application) dashboardOverviewHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	out, err := app.store.Dashboard.GetOverview(ctx, products.LowStockThreshold)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	_ = app.jsonResponse(w, http.StatusOK, out)
}

// salesByDayHandler godoc
//
//	@Summary		Paid sales per day
//	@Tags			dashboard
//	@Produce		json
//	@Param			days	query		int	false	"Number of days back from today"	default(30)
//	@Success		200		{object}	envelope{data=[]dashboard.DailySales}
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Security		ApiKeyAuth
//	@Router			/dashboard/sales [get]
func (app *application) salesByDayHandler(w http.ResponseWriter, r *http.Request) {
	days := 30
	if s := r.URL.Query().Get("days"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > dashboard.MaxSalesDays {
			app.errorResponse(w, r, fmt.Errorf("%w: got %q", dashboard.ErrInvalidDays, s))
			return
		}
		days = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), 12*time.Second)
	defer cancel()

	out, err := app.store.Dashboard.SalesByDay(ctx, days)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	_ = app.jsonResponse(w, http.StatusOK, out)
}
