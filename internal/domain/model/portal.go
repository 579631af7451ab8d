//revive:disable-next-line:var-naming // legacy package name used across the project
package model

import (
	"errors"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"
)

const maxPortalNameLen = 255

func validatePortalName(name string) error {
	n := strings.TrimSpace(name)
	if n == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(n) > maxPortalNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	return nil
}

func validatePortalURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return nil // optional
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.New("login_url must be an absolute http(s) URL")
	}
	return nil
}

// Portal is a stored household portal login (bank, school, utility, ...).
// Password is sealed at rest and decrypted when fetched via repo Get* methods.
type Portal struct {
	ID        string    `json:"id"                 db:"id"`
	OwnerID   string    `json:"owner_id"           db:"owner_id"`
	Name      string    `json:"name"               db:"name"`
	LoginURL  string    `json:"login_url"          db:"login_url"`
	Username  string    `json:"username"           db:"username"`
	Password  string    `json:"password,omitempty" db:"password"`
	CreatedAt time.Time `json:"created_at"         db:"created_at"`
	UpdatedAt time.Time `json:"updated_at"         db:"updated_at"`
}

// CreatePortalRequest contains fields to create a new portal credential.
type CreatePortalRequest struct {
	Name     string `json:"name"`
	LoginURL string `json:"login_url"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks the create request fields.
func (r CreatePortalRequest) Validate() error {
	if err := validatePortalName(r.Name); err != nil {
		return err
	}
	return validatePortalURL(r.LoginURL)
}

// UpdatePortalRequest contains optional fields to update a portal credential.
// Nil fields are left unchanged.
type UpdatePortalRequest struct {
	Name     *string `json:"name,omitempty"`
	LoginURL *string `json:"login_url,omitempty"`
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
}

// Validate checks the update request fields.
func (r UpdatePortalRequest) Validate() error {
	if r.Name == nil && r.LoginURL == nil && r.Username == nil && r.Password == nil {
		return errors.New("no fields to update")
	}
	if r.Name != nil {
		if err := validatePortalName(*r.Name); err != nil {
			return err
		}
	}
	if r.LoginURL != nil {
		if err := validatePortalURL(*r.LoginURL); err != nil {
			return err
		}
	}
	return nil
}
