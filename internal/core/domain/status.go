package domain

import "errors"

// Status records how processing ended for one document.
type Status string

// Processing statuses as written to the master index.
const (
	// StatusAnalyzed means the full pipeline succeeded.
	StatusAnalyzed Status = "analyzed"

	// StatusUnsupported means no extractor claims the file's extension.
	StatusUnsupported Status = "unsupported"

	// StatusExtractionFailed means the file was corrupt or unreadable.
	StatusExtractionFailed Status = "extraction_failed"

	// StatusInferenceFailed means the model endpoint failed or returned
	// an unparseable response.
	StatusInferenceFailed Status = "inference_failed"

	// StatusIndexFailed means the analysis succeeded but the index row
	// could not be written.
	StatusIndexFailed Status = "index_failed"
)

// IsValid returns true if the status is recognised.
func (s Status) IsValid() bool {
	switch s {
	case StatusAnalyzed, StatusUnsupported, StatusExtractionFailed,
		StatusInferenceFailed, StatusIndexFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s Status) String() string {
	return string(s)
}

// StatusForError maps a pipeline error to the status recorded in the index.
func StatusForError(err error) Status {
	switch {
	case errors.Is(err, ErrUnsupportedFormat):
		return StatusUnsupported
	case errors.Is(err, ErrExtraction):
		return StatusExtractionFailed
	case errors.Is(err, ErrInferenceUnavailable), errors.Is(err, ErrInferenceParse):
		return StatusInferenceFailed
	case errors.Is(err, ErrIndexWrite):
		return StatusIndexFailed
	default:
		return StatusExtractionFailed
	}
}
