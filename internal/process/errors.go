package process

import "errors"

var (
	// ErrInputMissing means the caller supplied no usable text or rows.
	ErrInputMissing = errors.New("input missing")
)

// Error codes surfaced in API error bodies.
const (
	ErrorCodeInputMissing    = "input_missing"
	ErrorCodeUnsupportedFile = "unsupported_file_type"
	ErrorCodeInvalidSheet    = "invalid_spreadsheet"
	ErrorCodeBackendTimeout  = "backend_timeout"
	ErrorCodeBackendDown     = "backend_unreachable"
	ErrorCodeBackendError    = "backend_error"
	ErrorCodeMalformedReply  = "malformed_reply"
	ErrorCodeEmptyReply      = "empty_reply"
	ErrorCodeNoStructured    = "no_structured_reply"
	ErrorCodeStorage         = "storage_error"
	ErrorCodeInternal        = "internal_error"
)
