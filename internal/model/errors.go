package model

import "errors"

// Domain error taxonomy. Services wrap these sentinels with fmt.Errorf("%w: ...")
// so routers can map them to HTTP status codes with errors.Is while the wrapped
// detail is logged server-side only.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("authentication required")
	ErrConflict     = errors.New("resource conflict")
)
