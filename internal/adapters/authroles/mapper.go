package authroles

// Package authroles maps provider identities to application roles.

import (
	"strings"

	domainauth "github.com/hearthkeep/hearth/internal/domain/auth"
)

// StaticMapper assigns roles from a configured list of admin email addresses.
// Everyone else gets the base user role.
type StaticMapper struct {
	admins map[string]struct{}
}

// NewStaticMapper builds a mapper from the configured admin emails.
// Comparison is case-insensitive on the whole address.
func NewStaticMapper(adminEmails []string) *StaticMapper {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" {
			admins[e] = struct{}{}
		}
	}
	return &StaticMapper{admins: admins}
}

// Map returns the role for the given email.
func (m *StaticMapper) Map(email string) domainauth.Role {
	if _, ok := m.admins[strings.ToLower(strings.TrimSpace(email))]; ok {
		return domainauth.RoleAdmin
	}
	return domainauth.RoleUser
}
