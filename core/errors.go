package core

import "errors"

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrMissingCredentials = errors.New("missing message or signature")
	ErrMissingNonce       = errors.New("message carries no nonce")
	ErrMissingAddress     = errors.New("message carries no address")
	ErrNonceMismatch      = errors.New("nonce mismatch")
	ErrInvalidSignature   = errors.New("invalid signature")
	ErrDomainMismatch     = errors.New("challenge domain mismatch")
	ErrNotAdmin           = errors.New("address is not an admin")
	ErrProductNotFound    = errors.New("product not found")
	ErrInvalidProduct     = errors.New("invalid product")
	ErrNotOwner           = errors.New("address does not own the resource")
)
