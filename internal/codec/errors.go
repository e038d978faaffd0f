package codec

import "errors"

var (
	// ErrSerializeFailed is returned when a value cannot be written as JSON.
	ErrSerializeFailed = errors.New("serialize failed")

	// ErrDeserializeFailed is returned when a document cannot be parsed or
	// does not fit the target.
	ErrDeserializeFailed = errors.New("deserialize failed")
)
