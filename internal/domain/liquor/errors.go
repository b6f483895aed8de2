package liquor

import "errors"

var (
	// ErrLiquorNotFound covers both a missing liquor and one owned by a
	// different user; callers cannot tell the two apart.
	ErrLiquorNotFound = errors.New("liquor not found")
	ErrNameTaken      = errors.New("liquor with this name already exists")
)
