package main

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"backoffice/internal/domain/categories"
	"backoffice/internal/domain/storage"
	"backoffice/internal/params"

	"github.com/go-chi/chi/v5"
)

type CategoryListResponse struct {
	Categories []*categories.Category `json:"categories"`
	Pagination params.Pagination      `json:"pagination"`
}

type CreateCategoryPayload struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Prefix      string  `json:"prefix" validate:"required,skuprefix"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Status      string  `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

type UpdateCategoryPayload struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=100"`
	Prefix      *string `json:"prefix,omitempty" validate:"omitempty,skuprefix"`
	Description *string `json:"description,omitempty" validate:"omitempty,max=500"`
	Status      *string `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

func categoryIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "categoryID"), 10, 64)
}

// listCategoriesHandler godoc
//
//	@Summary		List categories
//	@Tags			categories
//	@Produce		json
//	@Param			status	query		string	false	"Status filter"	Enums(active,inactive)
//	@Param			q		query		string	false	"Search name or prefix"
//	@Param			page	query		int		false	"Page"
//	@Param			limit	query		int		false	"Page size"
//	@Success		200		{object}	envelope{data=CategoryListResponse}
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Router			/categories [get]
func (app *application) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status, err := params.Enum(q, "status", categories.StatusActive, categories.StatusInactive)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	p := params.ParsePagination(q)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	list, total, err := app.store.Categories.List(ctx, categories.ListFilter{Status: status, Search: params.Search(q)}, p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	if err := app.jsonResponse(w, http.StatusOK, CategoryListResponse{Categories: list, Pagination: p}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getCategoryHandler godoc
//
//	@Summary		Get a category
//	@Tags			categories
//	@Produce		json
//	@Param			categoryID	path		int	true	"Category ID"
//	@Success		200			{object}	envelope{data=categories.Category}
//	@Failure		404			{object}	error	"CATEGORY_NOT_FOUND"
//	@Router			/categories/{categoryID} [get]
func (app *application) getCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := categoryIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	c, err := app.store.Categories.GetByID(r.Context(), id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	if err := app.jsonResponse(w, http.StatusOK, c); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createCategoryHandler godoc
//
//	@Summary		Create a category
//	@Description	The prefix (3-4 uppercase letters) is unique and becomes the start of every SKU in the category.
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateCategoryPayload	true	"Category"
//	@Success		201		{object}	envelope{data=categories.Category}
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		409		{object}	error	"DUPLICATE_PREFIX"
//	@Security		ApiKeyAuth
//	@Router			/categories [post]
func (app *application) createCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateCategoryPayload
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

	c, err := app.store.Categories.Create(ctx, &categories.Category{
		Name:        payload.Name,
		Prefix:      payload.Prefix,
		Description: payload.Description,
		Status:      payload.Status,
	})
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.logger.Infow("category created", "id", c.ID, "prefix", c.Prefix)
	if err := app.jsonResponse(w, http.StatusCreated, c); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateCategoryHandler godoc
//
//	@Summary		Update a category
//	@Description	The prefix can only change while the category has no products.
//	@Tags			categories
//	@Accept			json
//	@Produce		json
//	@Param			categoryID	path		int						true	"Category ID"
//	@Param			payload		body		UpdateCategoryPayload	true	"Fields to change"
//	@Success		200			{object}	envelope{data=categories.Category}
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Failure		404			{object}	error	"CATEGORY_NOT_FOUND"
//	@Failure		409			{object}	error	"DUPLICATE_PREFIX or prefix in use"
//	@Security		ApiKeyAuth
//	@Router			/categories/{categoryID} [patch]
func (app *application) updateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := categoryIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	var payload UpdateCategoryPayload
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

	var c *categories.Category
	err = app.store.WithTx(ctx, func(tx *storage.Tx) error {
		var err error
		c, err = tx.Categories.Update(ctx, id, categories.UpdateInput{
			Name:        payload.Name,
			Prefix:      payload.Prefix,
			Description: payload.Description,
			Status:      payload.Status,
		})
		return err
	})
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	if err := app.jsonResponse(w, http.StatusOK, c); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteCategoryHandler godoc
//
//	@Summary		Delete a category
//	@Tags			categories
//	@Param			categoryID	path		int		true	"Category ID"
//	@Success		204			{string}	string	"No Content"
//	@Failure		404			{object}	error	"CATEGORY_NOT_FOUND"
//	@Failure		409			{object}	error	"Category still has products"
//	@Security		ApiKeyAuth
//	@Router			/categories/{categoryID} [delete]
func (app *application) deleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := categoryIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := app.store.Categories.Delete(r.Context(), id); err != nil {
		app.errorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// seedCategoriesHandler godoc
//
//	@Summary		Insert the default shop categories
//	@Description	Existing prefixes are skipped, so the call is safe to repeat.
//	@Tags			categories
//	@Produce		json
//	@Success		200	{object}	envelope{data=categories.SeedResult}
//	@Security		ApiKeyAuth
//	@Router			/categories/seed [post]
func (app *application) seedCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	res, err := app.store.Categories.Seed(ctx, categories.Defaults)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	app.logger.Infow("categories seeded", "inserted", len(res.Inserted), "skipped", len(res.Skipped))
	if err := app.jsonResponse(w, http.StatusOK, res); err != nil {
		app.internalServerError(w, r, err)
	}
}
