// services/errors.go - Shared service error kinds
package services

import "errors"

// Sentinel errors the handlers translate into HTTP responses. Anything
// else bubbling out of a service is a storage failure and maps to a
// generic internal error.
var (
	ErrTeamNotFound   = errors.New("team not found")
	ErrMemberNotFound = errors.New("member not found")
	ErrClientNotFound = errors.New("client not found")
	ErrUserNotFound   = errors.New("user not found")
	ErrNotAuthorized  = errors.New("not authorized")
	ErrTierLimit      = errors.New("tier limit reached")
	ErrNoRatings      = errors.New("no ratings found for the member")
)
