package domain

import "errors"

var (
	// ErrProductNotFound is returned when no upstream source knows the product
	ErrProductNotFound = errors.New("product not found in any source")

	// ErrSourceFailure is returned when an upstream source request fails
	ErrSourceFailure = errors.New("product source request failed")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
