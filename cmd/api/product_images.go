package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"backoffice/internal/media"
)

// uploadProductImageHandler godoc
//
//	@Summary		Upload or replace a product image
//	@Description	Stores the image as {SKU}.{ext}. The previous image is removed only after the product row points at the new one.
//	@Tags			products
//	@Accept			mpfd
//	@Produce		json
//	@Param			productID	path		int		true	"Product ID"
//	@Param			image		formData	file	true	"JPEG, PNG, WebP or GIF image"
//	@Success		200			{object}	envelope{data=products.Product}
//	@Failure		400			{object}	ErrorBadRequestResponse
//	@Failure		404			{object}	error	"PRODUCT_NOT_FOUND"
//	@Failure		415			{object}	error	"Unsupported image type"
//	@Security		ApiKeyAuth
//	@Router			/products/{productID}/image [put]
func (app *application) uploadProductImageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	const maxBytes = media.MaxImageBytes + 1<<20
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("failed to parse form: %w", err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, _, err := r.FormFile("image")
	if err != nil {
		app.badRequestResponse(w, r, errors.New("image file is required"))
		return
	}
	defer file.Close()

	ext, image, err := media.SniffImage(io.LimitReader(file, media.MaxImageBytes))
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	p, err := app.store.Products.GetByID(ctx, id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	var oldPath string
	if p.ImagePath != nil {
		oldPath = *p.ImagePath
	}

	newPath, err := app.images.Replace(ctx, media.ProductKey(p.SKU, ext), image, oldPath,
		func(ctx context.Context, path string) error {
			return app.store.Products.UpdateImagePath(ctx, p.ID, &path)
		})
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}

	p.ImagePath = &newPath
	app.withVAT(p)
	app.logger.Infow("product image stored", "sku", p.SKU, "path", newPath)
	if err := app.jsonResponse(w, http.StatusOK, p); err != nil {
		app.internalServerError(w, r, err)
	}
}

// deleteProductImageHandler godoc
//
//	@Summary		Remove a product image
//	@Tags			products
//	@Param			productID	path		int		true	"Product ID"
//	@Success		204			{string}	string	"No Content"
//	@Failure		404			{object}	error	"PRODUCT_NOT_FOUND"
//	@Security		ApiKeyAuth
//	@Router			/products/{productID}/image [delete]
func (app *application) deleteProductImageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := productIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	p, err := app.store.Products.GetByID(ctx, id)
	if err != nil {
		app.errorResponse(w, r, err)
		return
	}
	if p.ImagePath == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if err := app.store.Products.UpdateImagePath(ctx, p.ID, nil); err != nil {
		app.errorResponse(w, r, err)
		return
	}
	app.images.Discard(ctx, *p.ImagePath)

	w.WriteHeader(http.StatusNoContent)
}
