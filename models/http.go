package models

// FormatResponse is returned by GET /api/items/{key}/format.
type FormatResponse struct {
	// Key is the logical key that was inspected.
	Key string `json:"key"`

	// Format is "plaintext" or "encrypted", see [StoredFormat].
	Format string `json:"format"`
}

// StateResponse is returned by GET /api/state.
type StateResponse struct {
	State string `json:"state"`
}

// VersionResponse is returned by GET /api/version.
type VersionResponse struct {
	Version string `json:"version"`
	Date    string `json:"date"`
	Commit  string `json:"commit"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	// Code identifies the error group, e.g. "storage_full".
	Code string `json:"code"`

	// Error is the user-facing message.
	Error string `json:"error"`
}
