package services

import "errors"

// Sentinel errors the service layer surfaces to handlers. Handlers map
// them to HTTP status codes; everything else is an internal error.
var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("not authorized")
	ErrSelfFollow = errors.New("cannot follow yourself")
)
