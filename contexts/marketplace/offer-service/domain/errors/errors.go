package errors

import "errors"

var (
	ErrOfferNotFound            = errors.New("offer not found")
	ErrUserNotFound             = errors.New("user not found")
	ErrListingNotFound          = errors.New("listing not found")
	ErrUserOrListingNotFound    = errors.New("user or listing not found")
	ErrForbidden                = errors.New("unauthorized access")
	ErrInvalidRequest           = errors.New("invalid offer request")
	ErrInvalidDecision          = errors.New("assessment decision must be accept or reject")
	ErrRepositoryInvariantBroke = errors.New("repository invariant violated")
)
