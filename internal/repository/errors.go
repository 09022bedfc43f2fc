package repository

import "errors"

// ErrNotFound is returned whenever a referenced record does not exist.
// Repositories translate driver-level not-found errors into this one so
// services never depend on gorm error values.
var ErrNotFound = errors.New("record not found")
