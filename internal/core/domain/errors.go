package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates no extractor handles the file's extension.
	// Raised before any other pipeline stage runs.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrExtraction indicates a supported file could not be read or parsed.
	ErrExtraction = errors.New("extraction failed")

	// ErrInferenceUnavailable indicates the local model endpoint cannot be
	// reached. Reported to the caller, never silently suppressed.
	ErrInferenceUnavailable = errors.New("inference endpoint unavailable")

	// ErrInferenceParse indicates the model's response could not be parsed
	// into the expected structure. Treated as deterministic; not retried.
	ErrInferenceParse = errors.New("inference response unparseable")

	// ErrIndexWrite indicates the master index could not be appended to.
	// Fatal for the current document but not for a batch run.
	ErrIndexWrite = errors.New("index write failed")

	// ErrFilesystem indicates a generic I/O failure outside the index,
	// such as a failed rename or an unreadable directory.
	ErrFilesystem = errors.New("filesystem error")
)
