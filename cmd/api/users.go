package main

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"backoffice/internal/domain/users"
	"backoffice/internal/params"

	"github.com/go-chi/chi/v5"
)

type UserListResponse struct {
	Users      []*users.User     `json:"users"`
	Pagination params.Pagination `json:"pagination"`
}

type CreateUserPayload struct {
	Email     string  `json:"email" validate:"required,email,max=255"`
	Password  string  `json:"password" validate:"required,min=8,max=72"`
	FirstName string  `json:"first_name" validate:"required,max=100"`
	LastName  string  `json:"last_name" validate:"max=100"`
	Role      string  `json:"role" validate:"required,oneof=admin staff customer"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,thaiphone"`
}

type UpdateUserStatusPayload struct {
	Status string `json:"status" validate:"required,oneof=active suspended"`
}

type UpdateUserRolePayload struct {
	Role string `json:"role" validate:"required,oneof=admin staff customer"`
}

func userIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "userID"), 10, 64)
}

// listUsersHandler godoc
//
//	@Summary		List users
//	@Tags			users
//	@Produce		json
//	@Param			role	query		string	false	"Role filter"	Enums(admin,staff,customer)
//	@Param			status	query		string	false	"Status filter"	Enums(active,suspended)
//	@Param			q		query		string	false	"Search email or name"
//	@Param			page	query		int		false	"Page"
//	@Param			limit	query		int		false	"Page size"
//	@Success		200		{object}	envelope{data=UserListResponse}
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Security		ApiKeyAuth
//	@Router			/users [get]
func (app *application) listUsersHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	role, err := params.Enum(q, "role", users.RoleAdmin, users.RoleStaff, users.RoleCustomer)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	status, err := params.Enum(q, "status", users.StatusActive, users.StatusSuspended)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	p := params.ParsePagination(q)

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	list, total, err := app.store.Users.List(ctx, users.ListFilter{Role: role, Status: status, Search: params.Search(q)}, p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	if err := app.jsonResponse(w, http.StatusOK, UserListResponse{Users: list, Pagination: p}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// createUserHandler godoc
//
//	@Summary		Create a user
//	@Description	Admin creates a staff, admin or customer account.
//	@Tags			users
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateUserPayload	true	"User"
//	@Success		201		{object}	envelope{data=users.User}
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		409		{object}	error	"Email taken"
//	@Security		ApiKeyAuth
//	@Router			/users [post]
func (app *application) createUserHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateUserPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	user := &users.User{
		Email:     payload.Email,
		FirstName: payload.FirstName,
		LastName:  payload.LastName,
		Role:      payload.Role,
		Phone:     payload.Phone,
	}
	if err := user.Password.Set(payload.Password); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), users.QueryTimeoutDuration)
	defer cancel()

	if err := app.store.Users.Create(ctx, user); err != nil {
		app.errorResponse(w, r, err)
		return
	}

	app.logger.Infow("user created", "user_id", user.ID, "role", user.Role, "by", getUserFromContext(r).ID)
	if err := app.jsonResponse(w, http.StatusCreated, user); err != nil {
		app.internalServerError(w, r, err)
	}
}

// updateUserStatusHandler godoc
//
//	@Summary		Suspend or reactivate a user
//	@Tags			users
//	@Accept			json
//	@Param			userID	path		int							true	"User ID"
//	@Param			payload	body		UpdateUserStatusPayload		true	"Status"
//	@Success		204		{string}	string						"No Content"
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/users/{userID}/status [patch]
func (app *application) updateUserStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	var payload UpdateUserStatusPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if id == getUserFromContext(r).ID && payload.Status != users.StatusActive {
		app.forbiddenResponse(w, r)
		return
	}

	if err := app.store.Users.UpdateStatus(r.Context(), id, payload.Status); err != nil {
		app.errorResponse(w, r, err)
		return
	}
	if payload.Status == users.StatusSuspended {
		if err := app.store.Users.DeleteRefreshToken(r.Context(), id); err != nil {
			app.logger.Warnw("could not revoke refresh token", "user_id", id, "error", err)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// updateUserRoleHandler godoc
//
//	@Summary		Change a user's role
//	@Tags			users
//	@Accept			json
//	@Param			userID	path		int						true	"User ID"
//	@Param			payload	body		UpdateUserRolePayload	true	"Role"
//	@Success		204		{string}	string					"No Content"
//	@Failure		400		{object}	ErrorBadRequestResponse
//	@Failure		404		{object}	error
//	@Security		ApiKeyAuth
//	@Router			/users/{userID}/role [patch]
func (app *application) updateUserRoleHandler(w http.ResponseWriter, r *http.Request) {
	id, err := userIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	var payload UpdateUserRolePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if id == getUserFromContext(r).ID {
		// an admin cannot demote themselves
		app.forbiddenResponse(w, r)
		return
	}

	if err := app.store.Users.UpdateRole(r.Context(), id, payload.Role); err != nil {
		app.errorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
