package cart

import "errors"

var (
	ErrMalformedState = errors.New("malformed cart state")
	ErrStateNotFound  = errors.New("cart state not found")
)
