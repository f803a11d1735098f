package services

import (
	"errors"
	"fmt"

	"mfi-backoffice/internal/core/domain"

	"gorm.io/gorm"
)

// Service errors. Each wraps a domain error class.
var (
	ErrProductNotFound     = domain.NotFoundError("product")
	ErrApplicationNotFound = domain.NotFoundError("application")
	ErrDocumentNotFound    = domain.NotFoundError("document")
	ErrUserNotFound        = domain.NotFoundError("user")

	ErrInvalidCredentials = unauthorized("invalid credentials")
	ErrUserInactive       = unauthorized("user account is inactive")
	ErrInvalidToken       = unauthorized("invalid token")
	ErrTokenExpired       = unauthorized("token expired")
	ErrTokenRevoked       = unauthorized("token revoked")
)

func unauthorized(reason string) error {
	return fmt.Errorf("%w: %s", domain.ErrUnauthorized, reason)
}

// lookupErr turns a repository lookup failure into notFound or a storage error
func lookupErr(err error, notFound error, op string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return domain.StorageError(op, err)
}
