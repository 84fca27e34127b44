// Package spec exposes a typed, read-only view over a parsed OpenAPI
// document. Accessors are total: anything missing from the document comes
// back as an empty value, never a panic. The only hard failure is the
// initial required-field check, which can be toggled off.
package spec

import (
	"strings"

	"github.com/docuport/apiharness/internal/document"
)

// httpMethods is the set of keys under a path item that name operations.
var httpMethods = map[string]bool{
	"get":     true,
	"put":     true,
	"post":    true,
	"delete":  true,
	"options": true,
	"head":    true,
	"patch":   true,
	"trace":   true,
}

// Specification is an immutable view over a parsed OpenAPI document.
type Specification struct {
	root *document.Node
}

// Option configures specification construction.
type Option func(*settings)

type settings struct {
	requireInfo bool
}

// WithRequiredInfo toggles the check that info.title and info.version are
// present and non-empty. Enabled by default.
func WithRequiredInfo(enabled bool) Option {
	return func(s *settings) {
		s.requireInfo = enabled
	}
}

// New builds a specification view over a document tree. With required-info
// validation enabled, a missing info.title or info.version fails with an
// InvalidSpecificationError naming the field.
func New(root *document.Node, opts ...Option) (*Specification, error) {
	cfg := settings{requireInfo: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	s := &Specification{root: root}
	if cfg.requireInfo {
		if s.Title() == "" {
			return nil, &InvalidSpecificationError{Field: "info.title"}
		}
		if s.Version() == "" {
			return nil, &InvalidSpecificationError{Field: "info.version"}
		}
	}
	return s, nil
}

// Root returns the underlying document tree.
func (s *Specification) Root() *document.Node {
	return s.root
}

// Title returns info.title.
func (s *Specification) Title() string {
	return s.root.Get("info", "title").Str()
}

// Version returns info.version.
func (s *Specification) Version() string {
	return s.root.Get("info", "version").Str()
}

// Description returns info.description.
func (s *Specification) Description() string {
	return s.root.Get("info", "description").Str()
}

// TermsOfService returns info.termsOfService.
func (s *Specification) TermsOfService() string {
	return s.root.Get("info", "termsOfService").Str()
}

// Contact returns info.contact, or nil when absent.
func (s *Specification) Contact() *Contact {
	node := s.root.Get("info", "contact")
	if node.IsZero() {
		return nil
	}
	return &Contact{
		Name:  node.Get("name").Str(),
		Email: node.Get("email").Str(),
		URL:   node.Get("url").Str(),
	}
}

// License returns info.license, or nil when absent.
func (s *Specification) License() *License {
	node := s.root.Get("info", "license")
	if node.IsZero() {
		return nil
	}
	return &License{
		Name: node.Get("name").Str(),
		URL:  node.Get("url").Str(),
	}
}

// Servers returns the servers sequence in document order.
func (s *Specification) Servers() []Server {
	node := s.root.Get("servers")
	servers := make([]Server, 0, node.Len())
	for _, item := range node.Items() {
		server := Server{
			URL:         item.Get("url").Str(),
			Description: item.Get("description").Str(),
		}
		vars := item.Get("variables")
		if !vars.IsZero() {
			server.Variables = make(map[string]ServerVariable, vars.Len())
			for _, name := range vars.Keys() {
				v := vars.Get(name)
				server.Variables[name] = ServerVariable{
					Default:     v.Get("default").Str(),
					Description: v.Get("description").Str(),
					Enum:        v.Get("enum").StringSlice(),
				}
			}
		}
		servers = append(servers, server)
	}
	return servers
}

// Tags returns the tags sequence in document order.
func (s *Specification) Tags() []Tag {
	node := s.root.Get("tags")
	tags := make([]Tag, 0, node.Len())
	for _, item := range node.Items() {
		tags = append(tags, Tag{
			Name:        item.Get("name").Str(),
			Description: item.Get("description").Str(),
		})
	}
	return tags
}

// EndpointPaths returns the keys of the paths mapping in document order.
func (s *Specification) EndpointPaths() []string {
	return s.root.Get("paths").Keys()
}

// Methods returns the lowercase HTTP methods defined for a path, in
// document order. Non-operation keys (parameters, summary) are skipped.
func (s *Specification) Methods(path string) []string {
	item := s.root.Get("paths", path)
	var methods []string
	for _, key := range item.Keys() {
		if httpMethods[strings.ToLower(key)] {
			methods = append(methods, strings.ToLower(key))
		}
	}
	return methods
}

// operation returns the operation node for a (path, method) pair.
func (s *Specification) operation(path, method string) *document.Node {
	return s.root.Get("paths", path, strings.ToLower(method))
}

// OperationSummary returns the summary for a (path, method) pair.
func (s *Specification) OperationSummary(path, method string) string {
	return s.operation(path, method).Get("summary").Str()
}

// OperationDescription returns the description for a (path, method) pair.
func (s *Specification) OperationDescription(path, method string) string {
	return s.operation(path, method).Get("description").Str()
}

// Parameters returns the parameters of a (path, method) pair in document
// order. Path-item level parameters are not merged in; assertion code
// checks what each operation declares.
func (s *Specification) Parameters(path, method string) []Parameter {
	node := s.operation(path, method).Get("parameters")
	params := make([]Parameter, 0, node.Len())
	for _, item := range node.Items() {
		param := Parameter{
			Name:        item.Get("name").Str(),
			In:          item.Get("in").Str(),
			Description: item.Get("description").Str(),
			Required:    item.Get("required").Bool(),
		}
		if schema := item.Get("schema"); !schema.IsZero() {
			param.Schema = &ParameterSchema{Type: schema.Get("type").Str()}
		}
		params = append(params, param)
	}
	return params
}

// ResponseStatusCodes returns the status codes of a (path, method) pair in
// document order.
func (s *Specification) ResponseStatusCodes(path, method string) []string {
	return s.operation(path, method).Get("responses").Keys()
}

// Responses returns all responses of a (path, method) pair keyed by status
// code, each pre-joined with description, headers and media types.
func (s *Specification) Responses(path, method string) map[string]Response {
	node := s.operation(path, method).Get("responses")
	if node.IsZero() {
		return nil
	}
	responses := make(map[string]Response, node.Len())
	for _, status := range node.Keys() {
		responses[status] = Response{
			StatusCode:  status,
			Description: s.ResponseDescription(path, method, status),
			Headers:     s.ResponseHeaders(path, method, status),
			MediaTypes:  s.ResponseMediaTypes(path, method, status),
		}
	}
	return responses
}

// response returns the response node for a (path, method, status) triple.
func (s *Specification) response(path, method, status string) *document.Node {
	return s.operation(path, method).Get("responses", status)
}

// ResponseDescription returns the description of a response.
func (s *Specification) ResponseDescription(path, method, status string) string {
	return s.response(path, method, status).Get("description").Str()
}

// ResponseHeaders returns the declared headers of a response, or nil.
func (s *Specification) ResponseHeaders(path, method, status string) map[string]interface{} {
	node := s.response(path, method, status).Get("headers")
	if node.IsZero() {
		return nil
	}
	headers, _ := node.Interface().(map[string]interface{})
	return headers
}

// ResponseMediaTypes returns the media types a response declares content
// for, in document order.
func (s *Specification) ResponseMediaTypes(path, method, status string) []string {
	return s.response(path, method, status).Get("content").Keys()
}

// DefaultMediaType picks the media type assertions should use for a
// response: application/json when declared, otherwise the first declared
// media type, otherwise "".
func (s *Specification) DefaultMediaType(path, method, status string) string {
	types := s.ResponseMediaTypes(path, method, status)
	for _, mt := range types {
		if mt == "application/json" {
			return mt
		}
	}
	if len(types) > 0 {
		return types[0]
	}
	return ""
}

// ResponseSchema returns the schema node of a response's content for the
// given media type. Empty mediaType means the default media type.
func (s *Specification) ResponseSchema(path, method, status, mediaType string) *document.Node {
	if mediaType == "" {
		mediaType = s.DefaultMediaType(path, method, status)
	}
	return s.response(path, method, status).Get("content", mediaType, "schema")
}

// Security returns the security requirements of a (path, method) pair in
// document order. Each entry maps scheme names to required scopes.
func (s *Specification) Security(path, method string) []SecurityRequirement {
	node := s.operation(path, method).Get("security")
	reqs := make([]SecurityRequirement, 0, node.Len())
	for _, item := range node.Items() {
		req := make(SecurityRequirement, item.Len())
		for _, scheme := range item.Keys() {
			scopes := item.Get(scheme).StringSlice()
			if scopes == nil {
				scopes = []string{}
			}
			req[scheme] = scopes
		}
		reqs = append(reqs, req)
	}
	return reqs
}

// SchemaNames returns the names under components.schemas in document order.
func (s *Specification) SchemaNames() []string {
	return s.root.Get("components", "schemas").Keys()
}

// Schema returns the definition node of a named schema. Missing schemas
// yield the zero node.
func (s *Specification) Schema(name string) *document.Node {
	return s.root.Get("components", "schemas", name)
}

// SchemaProperties returns the properties mapping of a named schema.
func (s *Specification) SchemaProperties(name string) *document.Node {
	return s.Schema(name).Get("properties")
}

// Schemas returns components.schemas as plain Go values, keyed by schema
// name.
func (s *Specification) Schemas() map[string]interface{} {
	node := s.root.Get("components", "schemas")
	if node.IsZero() {
		return nil
	}
	schemas, _ := node.Interface().(map[string]interface{})
	return schemas
}

// SecuritySchemes returns components.securitySchemes keyed by scheme name.
func (s *Specification) SecuritySchemes() map[string]SecurityScheme {
	node := s.root.Get("components", "securitySchemes")
	if node.IsZero() {
		return nil
	}
	schemes := make(map[string]SecurityScheme, node.Len())
	for _, name := range node.Keys() {
		item := node.Get(name)
		schemes[name] = SecurityScheme{
			Type:         item.Get("type").Str(),
			Description:  item.Get("description").Str(),
			Name:         item.Get("name").Str(),
			In:           item.Get("in").Str(),
			Scheme:       item.Get("scheme").Str(),
			BearerFormat: item.Get("bearerFormat").Str(),
		}
	}
	return schemes
}

// OAuthFlowNames returns the flow names declared by an oauth2 scheme, in
// document order.
func (s *Specification) OAuthFlowNames(scheme string) []string {
	return s.root.Get("components", "securitySchemes", scheme, "flows").Keys()
}

// OAuthFlow returns a named flow of an oauth2 scheme, or nil when absent.
func (s *Specification) OAuthFlow(scheme, flow string) *OAuthFlow {
	node := s.root.Get("components", "securitySchemes", scheme, "flows", flow)
	if node.IsZero() {
		return nil
	}
	return &OAuthFlow{
		AuthorizationURL: node.Get("authorizationUrl").Str(),
		TokenURL:         node.Get("tokenUrl").Str(),
		RefreshURL:       node.Get("refreshUrl").Str(),
		Scopes:           s.OAuthScopes(scheme, flow),
	}
}

// OAuthScopes returns the scopes mapping of a named flow.
func (s *Specification) OAuthScopes(scheme, flow string) map[string]string {
	node := s.root.Get("components", "securitySchemes", scheme, "flows", flow, "scopes")
	if node.IsZero() {
		return nil
	}
	scopes := make(map[string]string, node.Len())
	for _, key := range node.Keys() {
		scopes[key] = node.Get(key).Str()
	}
	return scopes
}
