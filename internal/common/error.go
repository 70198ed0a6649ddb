// Package common defines sentinel errors shared by the repositories, services
// and HTTP layer. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors.
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrorAlreadyExists = errors.New("already exists")

	// Session errors.
	ErrNoIdentity     = errors.New("no identity in session")
	ErrorInvalidToken = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
)
