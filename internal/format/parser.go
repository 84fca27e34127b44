package format

import (
	"github.com/docuport/apiharness/internal/document"
)

// SourceType tells a parser what kind of source string it is looking at.
type SourceType int

const (
	// FilePath means the source is a path on the local filesystem.
	FilePath SourceType = iota
	// ContentString means the source is the raw document text itself.
	ContentString
	// URL means the source is a remote location. Loading from URLs is not
	// implemented; the dispatcher rejects it explicitly.
	URL
)

// String returns a human-readable name for the source type.
func (s SourceType) String() string {
	switch s {
	case FilePath:
		return "file path"
	case ContentString:
		return "content string"
	case URL:
		return "url"
	default:
		return "unknown"
	}
}

// Parser decodes one document format into the generic document tree.
//
// Implementations are registered with a Dispatcher, which selects the
// first parser whose CanParse reports true. Adding a format means adding
// an implementation and registering it; existing parsers stay untouched.
type Parser interface {
	// Name identifies the format, e.g. "yaml".
	Name() string

	// CanParse reports whether this parser claims the source. For file
	// paths the decision is by extension; for inline content it is a
	// lightweight heuristic over the text.
	CanParse(source string, sourceType SourceType) bool

	// Parse decodes raw content into a document tree. The source string
	// is only used for error reporting.
	Parse(content string, source string) (*document.Node, error)

	// SupportedExtensions lists the file extensions this parser accepts,
	// with leading dots (".yaml").
	SupportedExtensions() []string
}
