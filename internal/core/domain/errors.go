package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors. All preview failures
// are non-fatal: adapters catch them at the fetch boundary and convert
// them to terminal failed results with a user-facing message.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// ErrMissingDocumentID indicates the indexed-content fetch was asked
	// to run without a document identifier. The failure is terminal and
	// no request is issued.
	ErrMissingDocumentID = errors.New("no document identifier available")

	// ErrNoIndexedContent indicates the content source has no indexed
	// representation for documents (e.g. the local filesystem source).
	ErrNoIndexedContent = errors.New("indexed content unavailable for this source")

	// ErrDecodeFailure indicates bytes classified as textual could not
	// be decoded to displayable text.
	ErrDecodeFailure = errors.New("content could not be decoded as text")

	// ErrSessionClosed indicates an operation on a closed preview session.
	ErrSessionClosed = errors.New("preview session closed")

	// ErrNoResource indicates a download or open action was requested
	// but no byte-backed resource exists.
	ErrNoResource = errors.New("no downloadable resource")

	// ErrRateLimited indicates the backend rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
