package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/safarnama/tourism-booking/internal/model"
	"github.com/safarnama/tourism-booking/internal/utils"
)

// UserRepo persists user accounts, including the suspension flag admins
// toggle and the hashed password-reset tokens.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = `id, username, email, password_hash, role, is_suspended,
	reset_token_hash, reset_token_expiry, created_at, updated_at`

// Create inserts a user and returns its ID. Emails are normalized to lower
// case before storage; a duplicate returns ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, username, email, password, role string, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, role) VALUES (?,?,?,?)",
		username, email, hash, role)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.get(ctx, "SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.get(ctx, "SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id)
}

// ListAll returns every user, newest first. Password hashes are included in
// the model; handlers must not serialize them.
func (r *UserRepo) ListAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SetSuspended flips the suspension flag. Suspended users are rejected at
// login and on /me checks.
func (r *UserRepo) SetSuspended(ctx context.Context, id uint64, suspended bool) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_suspended=? WHERE id=?", suspended, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a user or returns ErrNotFound.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SetResetToken stores the hash of a freshly issued password-reset token
// together with its expiry.
func (r *UserRepo) SetResetToken(ctx context.Context, id uint64, tokenHash string, expiry time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET reset_token_hash=?, reset_token_expiry=? WHERE id=?",
		tokenHash, expiry, id)
	return err
}

// GetByResetToken returns the user holding a non-expired reset token hash.
// Expired or unknown tokens return ErrNotFound.
func (r *UserRepo) GetByResetToken(ctx context.Context, tokenHash string) (model.User, error) {
	u, err := r.get(ctx,
		"SELECT "+userColumns+" FROM users WHERE reset_token_hash=? LIMIT 1", tokenHash)
	if err != nil {
		return model.User{}, err
	}
	if u.ResetTokenExpiry == nil || time.Now().UTC().After(*u.ResetTokenExpiry) {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

// UpdatePassword replaces the password hash and clears any outstanding
// reset token in the same statement.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, password string, cost int) error {
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx,
		"UPDATE users SET password_hash=?, reset_token_hash=NULL, reset_token_expiry=NULL WHERE id=?",
		hash, id)
	return err
}

func (r *UserRepo) get(ctx context.Context, query string, args ...interface{}) (model.User, error) {
	row := r.DB.QueryRowContext(ctx, query, args...)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	return u, err
}

func scanUser(rs rowScanner) (model.User, error) {
	var (
		u         model.User
		tokenHash sql.NullString
		tokenExp  sql.NullTime
	)
	err := rs.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.IsSuspended,
		&tokenHash, &tokenExp, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	if tokenHash.Valid {
		s := tokenHash.String
		u.ResetTokenHash = &s
	}
	if tokenExp.Valid {
		t := tokenExp.Time.UTC()
		u.ResetTokenExpiry = &t
	}
	return u, nil
}
