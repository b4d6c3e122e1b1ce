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

	"backoffice/internal/domain/products"
	"backoffice/internal/domain/storage"
	"backoffice/internal/media"
	"backoffice/internal/params"
	"backoffice/internal/sku"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type ProductListResponse struct {
	Products   []*products.Product `json:"products"`
	Pagination params.Pagination   `json:"pagination"`
}

type CreateProductPayload struct {
	SKU               *string         `json:"sku,omitempty"`
	Name              string          `json:"name" validate:"required,max=200"`
	Description       *string         `json:"description,omitempty" validate:"omitempty,max=5000"`
	Defects           *string         `json:"defects,omitempty" validate:"omitempty,max=1000"`
	CategoryID        int64           `json:"category_id" validate:"required,gt=0"`
	PriceExcludingVAT decimal.Decimal `json:"price_excluding_vat" swaggertype:"string" example:"250.00"`
	StockQuantity     int             `json:"stock_quantity" validate:"gte=0"`
	Status            string          `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
}

// UpdateProductPayload is a partial update. Sending a sku different from the
// current one fails with SKU_IMMUTABLE.
type UpdateProductPayload struct {
	SKU               *string          `json:"sku,omitempty"`
	Name              *string          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description       *string          `json:"description,omitempty" validate:"omitempty,max=5000"`
	Defects           *string          `json:"defects,omitempty" validate:"omitempty,max=1000"`
	CategoryID        *int64           `json:"category_id,omitempty" validate:"omitempty,gt=0"`
	PriceExcludingVAT *decimal.Decimal `json:"price_excluding_vat,omitempty" swaggertype:"string"`
	StockQuantity     *int             `json:"stock_quantity,omitempty" validate:"omitempty,gte=0"`
	Status            *string          `json:"status,omitempty" validate:"omitempty,oneof=active inactive out_of_stock"`
}

type AdjustStockPayload struct {
	Delta int `json:"delta" validate:"required,ne=0"`
}

type NextSKUResponse struct {
	CategoryID int64  `json:"category_id"`
	SKU        string `json:"sku"`
}

func productIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
}

// withVAT fills the computed customer price.
func (app *application) withVAT(list ...*products.Product) {
	for _, p := range list {
		p.PriceIncludingVAT = app.pricing.IncludingVAT(p.PriceExcludingVAT)
	}
}

// listProductsHandler godoc
//
//	@Summary		List products
//	@Tags			products
//	@Produce		json
//	@Param			category_id	query		int		false	"Category filter"
//	@Param			status		query		string	false	"Status filter"	Enums(active,inactive,out_of_stock)
//	@Param			q			query		string	false	"Search name or SKU"
//	@Param			low_stock	query		bool	false	"Only products at or below the low stock threshold"
//	@Param			page		query		int		false	"Page"
//	@Param			limit		query		int		false	"Page size"
//	@Success		200			{object}	envelope{data=ProductListResponse}
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Router			/products [get]
func (app *application) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	categoryID, err := params.OptionalInt64(q, "category_id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	status, err := params.Enum(q, "status", products.StatusActive, products.StatusInactive, products.StatusOutOfStock)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	lowStock, _ := strconv.ParseBool(q.Get("low_stock"))
	p := params.ParsePagination(q)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	list, total, err := app.store.Products.List(ctx, products.ListFilter{
		CategoryID: categoryID,
		Status:     status,
		Search:     params.Search(q),
		LowStock:   lowStock,
	}, p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)
	app.withVAT(list...)

	if err := app.jsonResponse(w, http.StatusOK, ProductListResponse{Products: list, Pagination: p}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getProductHandler godoc
//
//	@Summary		Get a product
//	@Tags			products
//	@Produce		json
//	@Param			productID	path		int	true	"Product ID"
//	@Success		200			{object}	envelope{data=products.Product}
//	@Failure		404			{object}	error	"PRODUCT_NOT_FOUND"
//	@Router			/products/{productID} [get]
func (app *application) getProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	p, err := app.store.Products.GetByID(r.Context(), id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.withVAT(p)
	if err := app.jsonResponse(w, http.StatusOK, p); err != nil {
		app.internalServerError(w, r, err)
	}
}

// getProductBySKUHandler godoc
//
//	@Summary		Look a product up by SKU
//	@Tags			products
//	@Produce		json
//	@Param			sku	path		string	true	"SKU, e.g. BAG0007"
//	@Success		200	{object}	envelope{data=products.Product}
//	@Failure		400	{object}	ErrorBadRequestResponse
//	@Failure		404	{object}	error	"PRODUCT_NOT_FOUND"
//	@Router			/products/sku/{sku} [get]
func (app *application) getProductBySKUHandler(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(strings.TrimSpace(chi.URLParam(r, "sku")))
	if !sku.Valid(code) {
		app.badRequestResponse(w, r, fmt.Errorf("%w: %q", sku.ErrInvalidSKU, code))
		return
	}
	p, err := app.store.Products.GetBySKU(r.Context(), code)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.withVAT(p)
	if err := app.jsonResponse(w, http.StatusOK, p); err != nil {
		app.internalServerError(w, r, err)
	}
}

// nextSKUHandler godoc
//
//	@Summary		Preview the next SKU of a category
//	@Description	Nothing is reserved; a concurrent create may take the SKU first.
//	@Tags			products
//	@Produce		json
//	@Param			category_id	query		int	true	"Category ID"
//	@Success		200			{object}	envelope{data=NextSKUResponse}
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Failure		404			{object}	error	"CATEGORY_NOT_FOUND"
//	@Security		ApiKeyAuth
//	@Router			/products/next-sku [get]
func (app *application) nextSKUHandler(w http.ResponseWriter, r *http.Request) {
	categoryID, err := params.OptionalInt64(r.URL.Query(), "category_id")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if categoryID == nil {
		app.badRequestResponse(w, r, errors.New("category_id is required"))
		return
	}

	code, err := app.store.Products.PreviewSKU(r.Context(), *categoryID)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	if err := app.jsonResponse(w, http.StatusOK, NextSKUResponse{CategoryID: *categoryID, SKU: code}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// readProductForm accepts either a JSON body or a multipart form with a
// "product" JSON part and an optional "image" file. The returned file is nil
// when no image was sent; the caller closes it.
func readProductForm(w http.ResponseWriter, r *http.Request, payload *CreateProductPayload) (multipart.File, error) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return nil, readJSON(w, r, payload)
	}

	const maxBytes = media.MaxImageBytes + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, fmt.Errorf("failed to parse form: %w", err)
	}

	dec := json.NewDecoder(strings.NewReader(r.FormValue("product")))
	dec.DisallowUnknownFields()
	if err := dec.Decode(payload); err != nil {
		return nil, fmt.Errorf("product field: %w", err)
	}

	file, _, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("image field: %w", err)
	}
	return file, nil
}

// createProductHandler godoc
//
//	@Summary		Create a product
//	@Description	The SKU is generated from the category prefix and cannot be supplied. An optional image is stored as {SKU}.{ext}; if storing it fails nothing is created.
//	@Tags			products
//	@Accept			json,mpfd
//	@Produce		json
//	@Param			payload	body		CreateProductPayload	false	"Product (JSON body)"
//	@Param			product	formData	string					false	"Product JSON (multipart)"
//	@Param			image	formData	file					false	"JPEG, PNG, WebP or GIF image"
//	@Success		201		{object}	envelope{data=products.Product}
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		404		{object}	error	"CATEGORY_NOT_FOUND"
//	@Failure		415		{object}	error	"Unsupported image type"
//	@Security		ApiKeyAuth
//	@Router			/products [post]
func (app *application) createProductHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateProductPayload
	file, err := readProductForm(w, r, &payload)
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

	if payload.SKU != nil && strings.TrimSpace(*payload.SKU) != "" {
		writeJSONErrorCode(w, http.StatusBadRequest, CodeValidation, "sku is generated by the server and cannot be set")
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var (
		ext   string
		image io.Reader
	)
	if file != nil {
		ext, image, err = media.SniffImage(io.LimitReader(file, media.MaxImageBytes))
		if err != nil {
			app.errorResponse(w, r, err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	product := &products.Product{
		Name:              payload.Name,
		Description:       payload.Description,
		Defects:           payload.Defects,
		CategoryID:        payload.CategoryID,
		PriceExcludingVAT: payload.PriceExcludingVAT,
		StockQuantity:     payload.StockQuantity,
		Status:            payload.Status,
	}

	// the image is stored inside the transaction so a failed upload rolls the
	// insert back; a failed commit leaves a file that is removed below
	var uploaded string
	err = app.store.WithTx(ctx, func(tx *storage.Tx) error {
		created, err := tx.Products.Create(ctx, product)
		if err != nil {
			return err
		}
		if image == nil {
			return nil
		}
		path, err := app.images.Store.Put(ctx, media.ProductKey(created.SKU, ext), image)
		if err != nil {
			return fmt.Errorf("store image: %w", err)
		}
		uploaded = path
		created.ImagePath = &path
		return tx.Products.UpdateImagePath(ctx, created.ID, &path)
	})
	if err != nil {
		if uploaded != "" {
			app.images.Discard(ctx, uploaded)
		}
		app.errorResponse(w, r, err)
		return
	}

	app.withVAT(product)
	app.logger.Infow("product created", "id", product.ID, "sku", product.SKU, "image", uploaded != "")
	if err := app.jsonResponse(w, http.StatusCreated, product); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateProductHandler godoc
//
//	@Summary		Update a product
//	@Description	Partial update. The SKU is immutable: sending a different sku returns SKU_IMMUTABLE.
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			productID	path		int						true	"Product ID"
//	@Param			payload		body		UpdateProductPayload	true	"Fields to change"
//	@Success		200			{object}	envelope{data=products.Product}
//	@Failure		400			{object}	ErrorBadRequestResponse	"SKU_IMMUTABLE or VALIDATION_ERROR"
//	@Failure		404			{object}	error					"PRODUCT_NOT_FOUND"
//	@Security		ApiKeyAuth
//	@Router			/products/{productID} [patch]
func (app *application) updateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	var payload UpdateProductPayload
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

	p, err := app.store.Products.Update(ctx, id, products.UpdateInput{
		SKU:               payload.SKU,
		Name:              payload.Name,
		Description:       payload.Description,
		Defects:           payload.Defects,
		CategoryID:        payload.CategoryID,
		PriceExcludingVAT: payload.PriceExcludingVAT,
		StockQuantity:     payload.StockQuantity,
		Status:            payload.Status,
	})
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.withVAT(p)
	if err := app.jsonResponse(w, http.StatusOK, p); err != nil {
		app.internalServerError(w, r, err)
	}
}

// adjustStockHandler godoc
//
//	@Summary		Adjust stock
//	@Description	Adds delta (may be negative) to the stock. Stock never goes below zero.
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			productID	path		int					true	"Product ID"
//	@Param			payload		body		AdjustStockPayload	true	"Delta"
//	@Success		200			{object}	envelope{data=products.Product}
//	@Failure		404			{object}	error	"PRODUCT_NOT_FOUND"
//	@Failure		409			{object}	error	"INSUFFICIENT_STOCK"
//	@Security		ApiKeyAuth
//	@Router			/products/{productID}/stock [patch]
func (app *application) adjustStockHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	var payload AdjustStockPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	p, err := app.store.Products.AdjustStock(r.Context(), id, payload.Delta)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.withVAT(p)
	app.logger.Infow("stock adjusted", "sku", p.SKU, "delta", payload.Delta, "stock", p.StockQuantity,
		"by", getUserFromContext(r).ID)
	if err := app.jsonResponse(w, http.StatusOK, p); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteProductHandler godoc
//
//	@Summary		Delete a product
//	@Description	Removes the product and, after the row is gone, its image.
//	@Tags			products
//	@Param			productID	path		int		true	"Product ID"
//	@Success		204			{string}	string	"No Content"
//	@Failure		404			{object}	error	"PRODUCT_NOT_FOUND"
//	@Security		ApiKeyAuth
//	@Router			/products/{productID} [delete]
func (app *application) deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	p, err := app.store.Products.Delete(r.Context(), id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	if p.ImagePath != nil {
		app.images.Discard(context.WithoutCancel(r.Context()), *p.ImagePath)
	}

	app.logger.Infow("product deleted", "id", p.ID, "sku", p.SKU)
	w.WriteHeader(http.StatusNoContent)
}
