package adapter

import "errors"

// ErrUnexpectedResponse is returned when a 2xx response body cannot be
// decoded.
var ErrUnexpectedResponse = errors.New("unexpected response from server")
