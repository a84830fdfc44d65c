package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/bookhaven/book-catalogue/internal/model"
	"github.com/bookhaven/book-catalogue/internal/utils"
)

// UserRepo is the credential store: it persists user records together with
// the session bookkeeping fields (access/refresh expiry timestamps).
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create hashes the password and inserts a new user, returning its ID.
// Username and email each carry a unique index; a duplicate on either is
// reported as ErrDuplicateUser.
func (r *UserRepo) Create(ctx context.Context, userName, email, password string, role model.Role, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (user_name, email, password_hash, role) VALUES (?,?,?,?)",
		userName, email, hash, string(role))
	if err != nil {
		// MySQL duplicate-key errors carry code 1062
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrDuplicateUser
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
	return r.scanOne(ctx,
		"SELECT id,user_name,email,password_hash,role,access_exp,refresh_exp,created_at,updated_at FROM users WHERE email=? LIMIT 1",
		email)
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(ctx,
		"SELECT id,user_name,email,password_hash,role,access_exp,refresh_exp,created_at,updated_at FROM users WHERE id=? LIMIT 1",
		id)
}

func (r *UserRepo) scanOne(ctx context.Context, query string, arg interface{}) (model.User, error) {
	var (
		u          model.User
		role       string
		accessExp  sql.NullTime
		refreshExp sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.UserName, &u.Email, &u.PasswordHash, &role,
		&accessExp, &refreshExp, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}
	u.Role = model.Role(role)
	if accessExp.Valid {
		t := accessExp.Time
		u.AccessExp = &t
	}
	if refreshExp.Valid {
		t := refreshExp.Time
		u.RefreshExp = &t
	}
	return u, nil
}

// TouchSession writes fresh access and refresh expiry timestamps onto the
// user record.  Login and refresh both go through here, which is what
// makes the refresh window slide forward on every use.
func (r *UserRepo) TouchSession(ctx context.Context, id uint64, accessExp, refreshExp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET access_exp=?, refresh_exp=?, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		accessExp, refreshExp, id)
	return err
}

// ClearSession nulls both expiry fields, invalidating future refresh
// attempts even while an issued token is still cryptographically valid.
func (r *UserRepo) ClearSession(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET access_exp=NULL, refresh_exp=NULL, updated_at=CURRENT_TIMESTAMP WHERE id=?",
		id)
	return err
}
