package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hearthkeep/hearth/internal/data/pgxutil"
	"github.com/hearthkeep/hearth/internal/domain/model"
)

// UserRepo provides CRUD operations for application users keyed by IdP subject.
type UserRepo struct {
	DB *sql.DB
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{DB: db}
}

const userColumns = `id, subject, email, role, is_active, created_at, updated_at`

// GetBySubject fetches the user row for an IdP subject id.
func (r *UserRepo) GetBySubject(ctx context.Context, subject string) (*model.User, error) {
	var u model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+userColumns+` FROM users WHERE subject = $1`, subject)
		if err != nil {
			return err
		}
		defer rows.Close()
		u, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by subject: %w", err)
	}
	return &u, nil
}

// List returns users with pagination, newest first.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]*model.User, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	var usersSlice []model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+userColumns+`
			FROM users
			ORDER BY created_at DESC, id DESC
			LIMIT $1 OFFSET $2`, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		usersSlice, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	users := make([]*model.User, len(usersSlice))
	for i := range usersSlice {
		users[i] = &usersSlice[i]
	}
	return users, nil
}

// Upsert creates the user row on first login and refreshes the email on
// subsequent logins. Role and is_active are only set on insert so admin
// changes are not clobbered by the login path.
func (r *UserRepo) Upsert(ctx context.Context, req model.UpsertUserRequest) (*model.User, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var u model.User
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO users (subject, email, role, is_active)
			VALUES ($1, $2, $3, TRUE)
			ON CONFLICT (subject) DO UPDATE
			SET email = EXCLUDED.email, updated_at = now()
			RETURNING `+userColumns, req.Subject, req.Email, req.Role)
		if err != nil {
			return err
		}
		defer rows.Close()
		u, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.User])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return &u, nil
}
