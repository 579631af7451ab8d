package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hearthkeep/hearth/internal/data/cryptoutil"
	"github.com/hearthkeep/hearth/internal/data/pgxutil"
	"github.com/hearthkeep/hearth/internal/domain/model"
)

// PortalRepo provides CRUD operations for portal credentials with at-rest
// encryption of the password field. Every query is scoped to the owning user;
// a portal owned by someone else is indistinguishable from a missing one.
type PortalRepo struct {
	DB  *sql.DB
	Enc cryptoutil.Encryptor
}

// NewPortalRepo creates a new PortalRepo.
func NewPortalRepo(db *sql.DB, enc cryptoutil.Encryptor) *PortalRepo {
	return &PortalRepo{DB: db, Enc: enc}
}

const portalColumns = `id, owner_id, name, login_url, username, password, created_at, updated_at`

func (r *PortalRepo) mapWriteErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrPortalNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation && pgErr.ConstraintName == "portals_owner_id_name_key" {
		return ErrPortalNameExists
	}
	return err
}

// sealPassword seals a password for storage. Empty passwords are stored as
// the empty string, matching the skip in unsealPassword.
func (r *PortalRepo) sealPassword(pw string) (string, error) {
	if pw == "" {
		return "", nil
	}
	c, err := r.Enc.Encrypt([]byte(pw))
	if err != nil {
		return "", fmt.Errorf("seal password: %w", err)
	}
	return c, nil
}

func (r *PortalRepo) unsealPassword(p *model.Portal) error {
	if p == nil || p.Password == "" {
		return nil
	}
	pt, err := r.Enc.Decrypt(p.Password)
	if err != nil {
		return fmt.Errorf("unseal portal %s password: %w", p.ID, err)
	}
	p.Password = string(pt)
	return nil
}

// Create inserts a new portal credential, storing the sealed password.
func (r *PortalRepo) Create(ctx context.Context, ownerID string, req model.CreatePortalRequest) (*model.Portal, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cipher, err := r.sealPassword(req.Password)
	if err != nil {
		return nil, err
	}

	var out model.Portal
	err = pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO portals (owner_id, name, login_url, username, password)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+portalColumns,
			ownerID, strings.TrimSpace(req.Name), req.LoginURL, req.Username, cipher)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Portal])
		return err
	})
	if err != nil {
		return nil, r.mapWriteErr(err)
	}

	if err := r.unsealPassword(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetByID fetches a portal by id for the given owner, with the password unsealed.
func (r *PortalRepo) GetByID(ctx context.Context, ownerID, id string) (*model.Portal, error) {
	var p model.Portal
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT `+portalColumns+`
			FROM portals WHERE owner_id = $1 AND id = $2`, ownerID, id)
		if err != nil {
			return err
		}
		defer rows.Close()
		p, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Portal])
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrPortalNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get portal by id: %w", err)
	}

	if err := r.unsealPassword(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns portal metadata for the owner without passwords.
func (r *PortalRepo) List(ctx context.Context, ownerID string, limit, offset int) ([]*model.Portal, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	var portalsSlice []model.Portal
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			SELECT id, owner_id, name, login_url, username, ''::text AS password, created_at, updated_at
			FROM portals
			WHERE owner_id = $1
			ORDER BY name ASC, id ASC
			LIMIT $2 OFFSET $3`, ownerID, limit, offset)
		if err != nil {
			return err
		}
		defer rows.Close()
		portalsSlice, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Portal])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list portals: %w", err)
	}

	portals := make([]*model.Portal, len(portalsSlice))
	for i := range portalsSlice {
		portals[i] = &portalsSlice[i]
	}
	return portals, nil
}

// buildUpdateSQL constructs the UPDATE statement for a portal and its args.
// cipher carries the sealed replacement password when one was supplied.
func (r *PortalRepo) buildUpdateSQL(ownerID, id string, req model.UpdatePortalRequest, cipher *string) (string, []any, error) {
	setParts := make([]string, 0, 4)
	args := make([]any, 0, 6)
	argIdx := 1

	add := func(col string, v any) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", col, argIdx))
		args = append(args, v)
		argIdx++
	}

	if req.Name != nil {
		add("name", strings.TrimSpace(*req.Name))
	}
	if req.LoginURL != nil {
		add("login_url", *req.LoginURL)
	}
	if req.Username != nil {
		add("username", *req.Username)
	}
	if cipher != nil {
		add("password", *cipher)
	}
	if len(setParts) == 0 {
		return "", nil, errors.New("no fields to update")
	}
	setParts = append(setParts, "updated_at = now()")

	args = append(args, ownerID, id)
	query := "UPDATE portals SET " + strings.Join(setParts, ", ") +
		fmt.Sprintf(" WHERE owner_id = $%d AND id = $%d RETURNING %s", argIdx, argIdx+1, portalColumns)
	return query, args, nil
}

// Update modifies a portal's fields, returning the updated row with the
// password unsealed.
func (r *PortalRepo) Update(ctx context.Context, ownerID, id string, req model.UpdatePortalRequest) (*model.Portal, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var cipher *string
	if req.Password != nil {
		c, err := r.sealPassword(*req.Password)
		if err != nil {
			return nil, err
		}
		cipher = &c
	}
	query, args, err := r.buildUpdateSQL(ownerID, id, req, cipher)
	if err != nil {
		return nil, err
	}

	var out model.Portal
	err = pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, queryErr := conn.Query(ctx, query, args...)
		if queryErr != nil {
			return queryErr
		}
		defer rows.Close()
		out, queryErr = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Portal])
		return queryErr
	})
	if err != nil {
		return nil, r.mapWriteErr(err)
	}

	if err := r.unsealPassword(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a portal by id for the given owner.
func (r *PortalRepo) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, `DELETE FROM portals WHERE owner_id = $1 AND id = $2`, ownerID, id)
		if err != nil {
			return err
		}
		affected = ct.RowsAffected()
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("delete portal: %w", err)
	}
	return affected > 0, nil
}
