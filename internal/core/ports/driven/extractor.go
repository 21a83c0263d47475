package driven

// TextExtractor pulls display text out of a binary resource.
// Used by terminal renderers that cannot embed a native viewer.
type TextExtractor interface {
	// ExtractText returns the text content of the file at path.
	// An empty string with nil error means the format carried no text.
	ExtractText(path string) (string, error)
}
