package extraction

import "errors"

// Common errors returned by the extraction package
var (
	// ErrMalformedResponse is returned when the generation service's output
	// cannot be parsed into the record shape: missing required fields,
	// out-of-range fractions, or invalid enumeration values. Fatal for the
	// extraction call; no partial record is ever returned.
	ErrMalformedResponse = errors.New("malformed response from generation service")

	// ErrServiceUnavailable is returned when the generation service call
	// itself fails (network, auth, quota). It originates in the service
	// adapter and is propagated unchanged by this package.
	ErrServiceUnavailable = errors.New("generation service unavailable")

	// ErrContentBlocked is returned when the generation service refuses the
	// content due to safety filters.
	ErrContentBlocked = errors.New("content blocked by generation service safety filters")

	// ErrInvalidConfig is returned when the extraction engine configuration
	// or inputs are invalid.
	ErrInvalidConfig = errors.New("invalid extraction configuration")

	// ErrEmptyDocumentText is returned when a document text is empty.
	ErrEmptyDocumentText = errors.New("document text cannot be empty")
)
