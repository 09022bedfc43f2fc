package catalog

import "errors"

var (
	ErrFetch             = errors.New("bulk fetch failed")
	ErrNotFound          = errors.New("space not found")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidCategory   = errors.New("invalid space category")
	ErrAlreadySubscribed = errors.New("change feed already subscribed")
)
