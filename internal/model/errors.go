package model

import "errors"

// ErrValidation is returned when a ticket update carries a value outside the
// allowed set (unknown place type, hour suffix or unparseable date).
// Handlers should translate this into an HTTP 400 response.
var ErrValidation = errors.New("validation error")
