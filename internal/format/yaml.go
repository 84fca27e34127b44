package format

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/docuport/apiharness/internal/document"
)

// YAMLParser decodes YAML documents. It works off yaml.Node rather than a
// plain map so mapping keys keep their document order.
type YAMLParser struct{}

// NewYAMLParser creates a YAML format parser.
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

// Name implements Parser.
func (p *YAMLParser) Name() string {
	return "yaml"
}

// SupportedExtensions implements Parser.
func (p *YAMLParser) SupportedExtensions() []string {
	return []string{".yaml", ".yml"}
}

// CanParse implements Parser. File paths match by extension; inline
// content matches when it looks like YAML: an OpenAPI/Swagger version
// line, a "key:" followed by a newline, or a list dash at line start.
func (p *YAMLParser) CanParse(source string, sourceType SourceType) bool {
	if sourceType == FilePath {
		ext := strings.ToLower(filepath.Ext(source))
		return ext == ".yaml" || ext == ".yml"
	}

	trimmed := strings.TrimSpace(source)
	if trimmed == "" {
		return false
	}
	if strings.HasPrefix(trimmed, "openapi:") || strings.HasPrefix(trimmed, "swagger:") {
		return true
	}
	// JSON is technically YAML, but the JSON parser should win for it.
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return false
	}
	if strings.Contains(source, ":\n") || strings.Contains(source, ": ") {
		return true
	}
	for _, line := range strings.Split(source, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "- ") {
			return true
		}
	}
	return false
}

// Parse implements Parser.
func (p *YAMLParser) Parse(content string, source string) (*document.Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(content), &root); err != nil {
		return nil, &ParseError{Source: source, Format: p.Name(), Err: err}
	}

	// An empty document unmarshals without error but has no content.
	if root.Kind == 0 || len(root.Content) == 0 {
		return nil, &ParseError{Source: source, Format: p.Name(), Err: fmt.Errorf("document is empty")}
	}

	node, err := fromYAMLNode(root.Content[0])
	if err != nil {
		return nil, &ParseError{Source: source, Format: p.Name(), Err: err}
	}
	return node, nil
}

// fromYAMLNode converts a yaml.Node subtree into a document node,
// preserving mapping key order.
func fromYAMLNode(n *yaml.Node) (*document.Node, error) {
	switch n.Kind {
	case yaml.MappingNode:
		m := document.NewMapping()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			child, err := fromYAMLNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			m.Set(key, child)
		}
		return m, nil

	case yaml.SequenceNode:
		s := document.NewSequence()
		for _, item := range n.Content {
			child, err := fromYAMLNode(item)
			if err != nil {
				return nil, err
			}
			s.Append(child)
		}
		return s, nil

	case yaml.ScalarNode:
		var v interface{}
		if err := n.Decode(&v); err != nil {
			return nil, err
		}
		return document.NewScalar(v), nil

	case yaml.AliasNode:
		return fromYAMLNode(n.Alias)

	default:
		return nil, fmt.Errorf("unsupported yaml node kind %d at line %d", n.Kind, n.Line)
	}
}
