package service

import (
	"errors"
	"fmt"
)

// ErrNotFound is wrapped by every "missing resource" error so handlers can
// answer 404 with a single errors.Is check.
var ErrNotFound = errors.New("not found")

var (
	ErrVideoNotFound    = fmt.Errorf("video %w", ErrNotFound)
	ErrParentNotFound   = fmt.Errorf("parent comment %w", ErrNotFound)
	ErrCommentNotFound  = fmt.Errorf("comment %w", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
)
