package contract

import "errors"

var (
	ErrModelInvoke   = errors.New("model invoke failed")
	ErrEmptyResponse = errors.New("model returned an empty response")
	ErrValidation    = errors.New("validation failed")
	ErrCatalogLoad   = errors.New("catalog load failed")
	ErrSessionStore  = errors.New("session store failed")
)
