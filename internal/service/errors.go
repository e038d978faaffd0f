package service

import "errors"

var (
	// ErrEmptyLogicalKey is returned for operations on the empty key.
	ErrEmptyLogicalKey = errors.New("logical key is empty")

	// ErrReservedLogicalKey is returned when a logical key collides with a
	// key artifact name; writing there would destroy the key.
	ErrReservedLogicalKey = errors.New("logical key is reserved for key artifacts")
)
