package users

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"backoffice/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

type Repository struct {
	q dbx.Querier
}

func NewRepository(q dbx.Querier) *Repository {
	return &Repository{q: q}
}

const userColumns = `id, email, password_hash, first_name, last_name, role, status, phone, created_at, updated_at`

func scanUser(row pgx.Row, u *User, extra ...any) error {
	dest := []any{
		&u.ID, &u.Email, &u.Password.hash, &u.FirstName, &u.LastName,
		&u.Role, &u.Status, &u.Phone, &u.CreatedAt, &u.UpdatedAt,
	}
	return row.Scan(append(dest, extra...)...)
}

func (r *Repository) Create(ctx context.Context, user *User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Role == "" {
		user.Role = RoleCustomer
	}
	if !ValidRole(user.Role) {
		return ErrInvalidRole
	}
	if user.Status == "" {
		user.Status = StatusActive
	}
	if !ValidStatus(user.Status) {
		return ErrInvalidStatus
	}
	if len(user.Password.hash) == 0 {
		return fmt.Errorf("password must be set before create")
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := r.q.QueryRow(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name, role, status, phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, user.Email, user.Password.hash, user.FirstName, user.LastName, user.Role, user.Status, user.Phone,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if dbx.PgCode(err) == dbx.CodeUniqueViolation {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	u := &User{}
	if err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id), u); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	u := &User{}
	err := scanUser(r.q.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email))), u)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *Repository) List(ctx context.Context, f ListFilter, limit, offset int) ([]*User, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := r.q.Query(ctx, `
		SELECT `+userColumns+`, COUNT(*) OVER() AS total_count
		FROM users
		WHERE ($1 = '' OR role = $1)
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR email ILIKE '%' || $3 || '%'
		       OR first_name ILIKE '%' || $3 || '%'
		       OR last_name ILIKE '%' || $3 || '%')
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5
	`, f.Role, f.Status, dbx.EscapeLike(f.Search), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := make([]*User, 0, limit)
	total := 0
	for rows.Next() {
		var u User
		if err := scanUser(rows, &u, &total); err != nil {
			return nil, 0, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration: %w", err)
	}
	return out, total, nil
}

func (r *Repository) UpdateStatus(ctx context.Context, id int64, status string) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}
	return r.updateField(ctx, id, "status", status)
}

func (r *Repository) UpdateRole(ctx context.Context, id int64, role string) error {
	if !ValidRole(role) {
		return ErrInvalidRole
	}
	return r.updateField(ctx, id, "role", role)
}

func (r *Repository) updateField(ctx context.Context, id int64, field, value string) error {
	if !isValidField(field) {
		return fmt.Errorf("invalid field name: %s", field)
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	cmd, err := r.q.Exec(ctx, fmt.Sprintf(`UPDATE users SET %s = $1, updated_at = NOW() WHERE id = $2`, field), value, id)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func isValidField(field string) bool {
	validFields := map[string]bool{
		"role":   true,
		"status": true,
	}
	return validFields[field]
}

// Refresh tokens are stored as sha256 digests.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (r *Repository) SaveRefreshToken(ctx context.Context, userID int64, refreshToken string) error {
	_, err := r.q.Exec(ctx, `UPDATE users SET refresh_token = $1, updated_at = NOW() WHERE id = $2`,
		hashToken(refreshToken), userID)
	if err != nil {
		return fmt.Errorf("failed to save refresh token: %w", err)
	}
	return nil
}

// GetRefreshToken returns the stored digest; compare with MatchRefreshToken.
func (r *Repository) GetRefreshToken(ctx context.Context, userID int64) (string, error) {
	var digest *string
	err := r.q.QueryRow(ctx, `SELECT refresh_token FROM users WHERE id = $1`, userID).Scan(&digest)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to retrieve refresh token: %w", err)
	}
	if digest == nil || *digest == "" {
		return "", ErrNoRefreshToken
	}
	return *digest, nil
}

func (r *Repository) DeleteRefreshToken(ctx context.Context, userID int64) error {
	_, err := r.q.Exec(ctx, `UPDATE users SET refresh_token = NULL, updated_at = NOW() WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete refresh token: %w", err)
	}
	return nil
}

func MatchRefreshToken(stored, presented string) bool {
	return stored != "" && stored == hashToken(presented)
}
