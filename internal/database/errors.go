package database

import "errors"

// ErrNotFound marks lookups that matched no row. Handlers map it to 404.
var ErrNotFound = errors.New("not found")
