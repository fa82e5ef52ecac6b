// Package storage loads source images
package storage

import (
	"context"
	"errors"
)

// Provider is an interface for retrieving source images by id
type Provider interface {
	Get(ctx context.Context, id string) ([]byte, error)
}

// Extensions are the file extensions a source image may be stored with, in lookup order
var Extensions = []string{".jpg", ".png", ".webp"}

// Errors
var (
	ErrNotFound = errors.New("Image does not exist")
)
