// Package auth supplies the access token for the remote backend.
package auth

import "context"

// Provider is the authentication contract the sync engine consumes.
type Provider interface {
	// Initialize loads any stored credentials. Called at the start of
	// every interactive sync.
	Initialize(ctx context.Context) error

	// IsAuthenticated reports whether a usable (present, unexpired)
	// token is available.
	IsAuthenticated() bool

	// AccessToken returns the current token, or common.ErrorNotSignedIn /
	// common.ErrorTokenExpired.
	AccessToken() (string, error)

	// SignIn acquires a fresh token interactively.
	SignIn(ctx context.Context) error
}
