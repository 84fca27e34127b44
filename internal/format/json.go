package format

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/docuport/apiharness/internal/document"
)

// JSONParser decodes JSON documents. It walks the document with gjson,
// whose object iteration follows source order, so path keys come out in
// the same order they appear in the file.
type JSONParser struct{}

// NewJSONParser creates a JSON format parser.
func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

// Name implements Parser.
func (p *JSONParser) Name() string {
	return "json"
}

// SupportedExtensions implements Parser.
func (p *JSONParser) SupportedExtensions() []string {
	return []string{".json"}
}

// CanParse implements Parser. File paths match by extension; inline
// content matches when it is bracketed like a JSON value.
func (p *JSONParser) CanParse(source string, sourceType SourceType) bool {
	if sourceType == FilePath {
		return strings.ToLower(filepath.Ext(source)) == ".json"
	}

	trimmed := strings.TrimSpace(source)
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		return true
	}
	return strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]")
}

// Parse implements Parser. Empty or malformed content is a ParseError,
// never a silently empty document.
func (p *JSONParser) Parse(content string, source string) (*document.Node, error) {
	if strings.TrimSpace(content) == "" {
		return nil, &ParseError{Source: source, Format: p.Name(), Err: fmt.Errorf("document is empty")}
	}
	if !gjson.Valid(content) {
		return nil, &ParseError{Source: source, Format: p.Name(), Err: fmt.Errorf("invalid JSON")}
	}
	return fromJSONResult(gjson.Parse(content)), nil
}

// numberValue picks the Go type for a JSON number. Whole numbers that fit
// an int come out as int, which is how the YAML decoder represents them;
// equivalent YAML and JSON documents then carry identical scalar values.
func numberValue(r gjson.Result) interface{} {
	if r.Num == math.Trunc(r.Num) && r.Num >= math.MinInt64 && r.Num <= math.MaxInt64 {
		return int(r.Int())
	}
	return r.Num
}

// fromJSONResult converts a gjson value into a document node. ForEach
// yields object members in document order.
func fromJSONResult(r gjson.Result) *document.Node {
	switch {
	case r.IsObject():
		m := document.NewMapping()
		r.ForEach(func(key, value gjson.Result) bool {
			m.Set(key.String(), fromJSONResult(value))
			return true
		})
		return m

	case r.IsArray():
		s := document.NewSequence()
		r.ForEach(func(_, value gjson.Result) bool {
			s.Append(fromJSONResult(value))
			return true
		})
		return s

	default:
		switch r.Type {
		case gjson.String:
			return document.NewScalar(r.Str)
		case gjson.Number:
			return document.NewScalar(numberValue(r))
		case gjson.True:
			return document.NewScalar(true)
		case gjson.False:
			return document.NewScalar(false)
		default:
			return document.NewScalar(nil)
		}
	}
}
