package service

import "errors"

var (
	ErrValidation          = errors.New("validation failed")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrInvalidResetToken   = errors.New("invalid reset token")
	ErrExpiredResetToken   = errors.New("reset token expired")
	ErrMissingRole         = errors.New("user role not found")
)
