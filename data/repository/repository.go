// Package repository provides MongoDB-backed persistence for the blog API.
package repository

import "errors"

// ErrNotFound is returned when a lookup matches no document.
var ErrNotFound = errors.New("not found")
