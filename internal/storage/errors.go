package storage

import "errors"

// Common errors.
var (
	ErrUnsupportedProtocol = errors.New("unsupported storage protocol")
	ErrInvalidURI          = errors.New("invalid storage uri")
	ErrBlobTooLarge        = errors.New("blob exceeds maximum size")
)
