package domain

// PreviewRequest describes one preview. It is created when a preview
// opens and is immutable for the request's duration; opening a new file
// replaces the request wholesale rather than mutating it.
type PreviewRequest struct {
	// FileName is the display name of the file. Required.
	FileName string

	// FilePath is the backend path of the file. When set it is preferred
	// over FileName as the fetch identifier.
	FilePath string

	// DocumentID identifies the indexed document, when known.
	// Without it the indexed-content fetch fails immediately.
	DocumentID string
}

// Identifier returns the identifier used for the original-content fetch.
func (r PreviewRequest) Identifier() string {
	if r.FilePath != "" {
		return r.FilePath
	}
	return r.FileName
}

// FetchStatus is the lifecycle state of a single fetch.
// A fetch transitions loading→ready or loading→failed exactly once
// and never reverts.
type FetchStatus int

const (
	// FetchLoading means the fetch has not yet settled.
	FetchLoading FetchStatus = iota

	// FetchReady means the fetch settled with a payload.
	FetchReady

	// FetchFailed means the fetch settled with an error.
	FetchFailed
)

// String returns the status name.
func (s FetchStatus) String() string {
	switch s {
	case FetchLoading:
		return "loading"
	case FetchReady:
		return "ready"
	case FetchFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the fetch has settled.
func (s FetchStatus) Terminal() bool {
	return s == FetchReady || s == FetchFailed
}

// Result is the outcome of a single fetch. Payload is meaningful only
// when Status is FetchReady; Message only when Status is FetchFailed.
type Result[T any] struct {
	Status  FetchStatus
	Payload T
	Message string
}

// Ready builds a terminal successful result.
func Ready[T any](payload T) Result[T] {
	return Result[T]{Status: FetchReady, Payload: payload}
}

// Failed builds a terminal failed result with a user-facing message.
func Failed[T any](message string) Result[T] {
	return Result[T]{Status: FetchFailed, Message: message}
}

// OriginalContent is the raw file content as uploaded, decoded where the
// category is textual and always retained as bytes for binary renderers.
type OriginalContent struct {
	// Text is the decoded content, empty for binary categories.
	Text string

	// MIMEType is the sniffed content type of the bytes.
	MIMEType string

	// ResourceID references the transient byte-backed resource, empty
	// when no resource was materialised.
	ResourceID string

	// Size is the byte length of the fetched content.
	Size int64
}

// IndexedContent is the derived, search-processed representation of a
// document produced by the backend's ingestion pipeline.
type IndexedContent struct {
	// Content is the processed document text.
	Content string `json:"content"`

	// SemanticIdentifier is the human-readable display label.
	SemanticIdentifier string `json:"semantic_identifier"`

	// SourceType names the connector that ingested the document.
	SourceType string `json:"source_type"`

	// Metadata contains auxiliary key/value pairs.
	Metadata map[string]any `json:"metadata"`

	// ChunkCount is the number of chunks the document was split into.
	ChunkCount int `json:"chunk_count"`
}

// TransientResource is a temporary client-side handle to fetched binary
// bytes, valid only for the lifetime of one preview session. It is owned
// exclusively by the active session and must be released on close.
type TransientResource struct {
	// ID is the resource identifier used for release.
	ID string

	// Path is the local filesystem location of the bytes.
	Path string

	// FileName is the original file name, used by the download action.
	FileName string

	// MIMEType is the sniffed content type of the bytes.
	MIMEType string
}
