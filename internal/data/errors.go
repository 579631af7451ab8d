package data

import "errors"

var (
	// ErrUserNotFound is returned when no application user row exists.
	ErrUserNotFound = errors.New("user not found")
	// ErrPortalNotFound is returned when a portal credential is not found
	// or is owned by another user.
	ErrPortalNotFound = errors.New("portal not found")
	// ErrPortalNameExists is returned when creating or renaming a portal to a
	// name the owner already uses.
	ErrPortalNameExists = errors.New("portal name already exists")
)
