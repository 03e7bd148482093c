package auth

import "artnexus/internal/pkg/apperr"

var (
	ErrInvalidCredentials = apperr.New(apperr.Unauthorized, "invalid credentials")
	ErrEmailAlreadyExists = apperr.New(apperr.Conflict, "email already exists")
	ErrUnauthorized       = apperr.New(apperr.Unauthorized, "unauthorized")
	ErrForbidden          = apperr.New(apperr.Forbidden, "access denied: insufficient permissions")
	ErrUnknownRole        = apperr.New(apperr.Unauthorized, "unknown role")
	ErrRoleNotAllowed     = apperr.New(apperr.InvalidInput, "role must be user or artiste")
	ErrRoleImmutable      = apperr.New(apperr.Conflict, "role cannot be changed")
	ErrUserNotFound       = apperr.New(apperr.NotFound, "user not found")
)
