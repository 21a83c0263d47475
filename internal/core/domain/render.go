package domain

// RenderKind identifies which renderer a panel should use.
// Concrete widgets (terminal viewport, native viewer) are adapter
// concerns; the kind is portable across platforms.
type RenderKind int

const (
	// RenderSpinner shows a loading indicator.
	RenderSpinner RenderKind = iota

	// RenderError shows an error panel with a message.
	RenderError

	// RenderPDF shows an embedded document viewer, toolbar suppressed.
	RenderPDF

	// RenderImage shows a bounded-size image.
	RenderImage

	// RenderDownload shows a "download to view" placeholder with a
	// download action, for opaque document formats.
	RenderDownload

	// RenderText shows a preformatted text block.
	RenderText

	// RenderEmpty shows an explicit "no content available" placeholder.
	RenderEmpty
)

// String returns the render kind name.
func (k RenderKind) String() string {
	switch k {
	case RenderSpinner:
		return "spinner"
	case RenderError:
		return "error"
	case RenderPDF:
		return "pdf"
	case RenderImage:
		return "image"
	case RenderDownload:
		return "download"
	case RenderText:
		return "text"
	case RenderEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Instruction tells a renderer what to display for one panel.
type Instruction struct {
	// Kind selects the renderer.
	Kind RenderKind

	// Message is the error text when Kind is RenderError.
	Message string

	// ResourcePath locates the byte-backed resource for RenderPDF,
	// RenderImage and RenderDownload.
	ResourcePath string

	// Text is the decoded content when Kind is RenderText.
	Text string

	// Monospace requests a fixed-width block (code); prose wraps.
	Monospace bool

	// Derived marks the placeholder as describing indexed (derived)
	// content rather than the original file.
	Derived bool
}

// SelectRenderer picks the renderer for the original-content panel.
// It is a pure decision table evaluated top to bottom, first match wins.
// The order is observable behaviour: a PDF whose resource has not loaded
// yet must show the spinner, not fall through to the text branch.
func SelectRenderer(category ContentCategory, res Result[OriginalContent], resource *TransientResource) Instruction {
	// 1. Still loading.
	if res.Status == FetchLoading {
		return Instruction{Kind: RenderSpinner}
	}

	// 2. Error present.
	if res.Status == FetchFailed {
		return Instruction{Kind: RenderError, Message: res.Message}
	}

	// 3. PDF with a binary resource.
	if category == CategoryPDF && resource != nil {
		return Instruction{Kind: RenderPDF, ResourcePath: resource.Path}
	}

	// 4. Image with a binary resource.
	if category == CategoryImage && resource != nil {
		return Instruction{Kind: RenderImage, ResourcePath: resource.Path}
	}

	// 5. Opaque document with no decoded text.
	if category == CategoryDocument && res.Payload.Text == "" {
		inst := Instruction{Kind: RenderDownload}
		if resource != nil {
			inst.ResourcePath = resource.Path
		}
		return inst
	}

	// 6. Preformatted text, or an explicit empty placeholder.
	if res.Payload.Text == "" {
		return Instruction{Kind: RenderEmpty}
	}
	return Instruction{
		Kind:      RenderText,
		Text:      res.Payload.Text,
		Monospace: category == CategoryCode,
	}
}

// SelectIndexedRenderer picks the renderer for the indexed-content panel.
// Indexed content is always textual, so only the first two rules and the
// text/empty fallthrough of the decision table apply.
func SelectIndexedRenderer(res Result[IndexedContent]) Instruction {
	if res.Status == FetchLoading {
		return Instruction{Kind: RenderSpinner}
	}
	if res.Status == FetchFailed {
		return Instruction{Kind: RenderError, Message: res.Message, Derived: true}
	}
	if res.Payload.Content == "" {
		return Instruction{Kind: RenderEmpty, Derived: true}
	}
	return Instruction{Kind: RenderText, Text: res.Payload.Content, Derived: true}
}
