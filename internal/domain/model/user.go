//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import (
	"errors"
	"net/mail"
	"strings"
	"time"

	domainauth "github.com/hearthkeep/hearth/internal/domain/auth"
)

// User is the application-level user row joined to an IdP subject.
// The Session Resolver reads it to build a Principal; it is managed
// out of band (provisioning happens on first login or by an admin).
type User struct {
	ID        string          `json:"id"         db:"id"`
	Subject   string          `json:"subject"    db:"subject"`
	Email     string          `json:"email"      db:"email"`
	Role      domainauth.Role `json:"role"       db:"role"`
	IsActive  bool            `json:"is_active"  db:"is_active"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// Principal converts the row into the per-request principal shape.
func (u *User) Principal() domainauth.Principal {
	return domainauth.Principal{
		ID:       u.ID,
		Email:    u.Email,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
}

// UpsertUserRequest contains fields to create or refresh a user row on login.
type UpsertUserRequest struct {
	Subject string          `json:"subject"`
	Email   string          `json:"email"`
	Role    domainauth.Role `json:"role"`
}

// Validate checks the upsert request fields.
func (r UpsertUserRequest) Validate() error {
	if strings.TrimSpace(r.Subject) == "" {
		return errors.New("subject is required and cannot be empty")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return errors.New("email must be a valid address")
	}
	if !r.Role.Valid() {
		return errors.New("role must be user or admin")
	}
	return nil
}
