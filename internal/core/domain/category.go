package domain

import (
	"path/filepath"
	"strings"
)

// ContentCategory classifies a file by its extension.
// It drives both icon selection and renderer selection; keeping a single
// classification table is a correctness requirement, not a style choice.
type ContentCategory string

const (
	// CategoryPDF is a PDF document rendered by an embedded viewer.
	CategoryPDF ContentCategory = "pdf"

	// CategoryImage is a raster or vector image.
	CategoryImage ContentCategory = "image"

	// CategoryText is plain prose (txt, markdown, logs).
	CategoryText ContentCategory = "text"

	// CategoryDocument is an opaque office format (doc, docx, odt, ppt).
	// These cannot be rendered inline and fall back to download.
	CategoryDocument ContentCategory = "document"

	// CategorySpreadsheet is tabular data; csv/tsv decode as text.
	CategorySpreadsheet ContentCategory = "spreadsheet"

	// CategoryCode is source code rendered in a monospace block.
	CategoryCode ContentCategory = "code"

	// CategoryOther is anything unrecognised.
	CategoryOther ContentCategory = "other"
)

// categoryByExtension is the single classification table.
// Extensions are stored lowercase without the leading dot.
var categoryByExtension = map[string]ContentCategory{
	// PDF
	"pdf": CategoryPDF,

	// Images
	"png":  CategoryImage,
	"jpg":  CategoryImage,
	"jpeg": CategoryImage,
	"gif":  CategoryImage,
	"bmp":  CategoryImage,
	"svg":  CategoryImage,
	"webp": CategoryImage,
	"ico":  CategoryImage,

	// Plain text
	"txt":      CategoryText,
	"text":     CategoryText,
	"md":       CategoryText,
	"markdown": CategoryText,
	"rst":      CategoryText,
	"log":      CategoryText,

	// Opaque document formats
	"doc":  CategoryDocument,
	"docx": CategoryDocument,
	"odt":  CategoryDocument,
	"rtf":  CategoryDocument,
	"ppt":  CategoryDocument,
	"pptx": CategoryDocument,

	// Spreadsheets
	"csv":  CategorySpreadsheet,
	"tsv":  CategorySpreadsheet,
	"xls":  CategorySpreadsheet,
	"xlsx": CategorySpreadsheet,
	"ods":  CategorySpreadsheet,

	// Code
	"go":    CategoryCode,
	"py":    CategoryCode,
	"js":    CategoryCode,
	"jsx":   CategoryCode,
	"ts":    CategoryCode,
	"tsx":   CategoryCode,
	"java":  CategoryCode,
	"c":     CategoryCode,
	"h":     CategoryCode,
	"cpp":   CategoryCode,
	"hpp":   CategoryCode,
	"cs":    CategoryCode,
	"rb":    CategoryCode,
	"rs":    CategoryCode,
	"php":   CategoryCode,
	"swift": CategoryCode,
	"kt":    CategoryCode,
	"scala": CategoryCode,
	"sh":    CategoryCode,
	"bash":  CategoryCode,
	"zsh":   CategoryCode,
	"sql":   CategoryCode,
	"html":  CategoryCode,
	"htm":   CategoryCode,
	"css":   CategoryCode,
	"scss":  CategoryCode,
	"json":  CategoryCode,
	"xml":   CategoryCode,
	"yaml":  CategoryCode,
	"yml":   CategoryCode,
	"toml":  CategoryCode,
	"ini":   CategoryCode,
}

// Classify maps a file name to its content category.
// It is pure and total: any input yields a category, never an error.
// Classification uses the lowercase suffix after the last dot; a missing
// or unrecognised extension maps to CategoryOther.
func Classify(fileName string) ContentCategory {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	if ext == "" {
		return CategoryOther
	}
	if cat, ok := categoryByExtension[ext]; ok {
		return cat
	}
	return CategoryOther
}

// Textual reports whether content in this category decodes to a string
// for inline display. Spreadsheets are textual because csv/tsv is the
// common case; opaque binary spreadsheets fail the decode instead.
func (c ContentCategory) Textual() bool {
	switch c {
	case CategoryText, CategoryCode, CategorySpreadsheet:
		return true
	default:
		return false
	}
}

// Icon returns the glyph shown next to a file of this category.
// It is derived from the same table as Classify so the icon and the
// renderer can never disagree about what a file is.
func (c ContentCategory) Icon() string {
	switch c {
	case CategoryPDF:
		return "⬒"
	case CategoryImage:
		return "▣"
	case CategoryText:
		return "≡"
	case CategoryDocument:
		return "▤"
	case CategorySpreadsheet:
		return "▦"
	case CategoryCode:
		return "</>"
	default:
		return "•"
	}
}

// String returns the category name.
func (c ContentCategory) String() string {
	return string(c)
}
