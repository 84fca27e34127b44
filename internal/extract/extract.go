// Package extract flattens a parsed specification into the denormalized
// structure assertion code consumes. Everything is pre-joined here so the
// UI and seeding layers never traverse the document tree themselves.
package extract

import (
	"github.com/docuport/apiharness/internal/spec"
)

// MethodData carries everything assertion code needs about one operation.
type MethodData struct {
	Method      string                     `json:"method"`
	Summary     string                     `json:"summary,omitempty"`
	Description string                     `json:"description,omitempty"`
	Parameters  []spec.Parameter           `json:"parameters,omitempty"`
	Responses   map[string]spec.Response   `json:"responses,omitempty"`
	Security    []spec.SecurityRequirement `json:"security,omitempty"`
}

// EndpointData groups the operations of one path.
type EndpointData struct {
	Path    string       `json:"path"`
	Methods []MethodData `json:"methods"`
}

// TestData is the flattened consumption model. It is derived, read-only,
// and rebuilt in full on every extraction call.
type TestData struct {
	APITitle        string                         `json:"apiTitle"`
	APIVersion      string                         `json:"apiVersion"`
	APIDescription  string                         `json:"apiDescription,omitempty"`
	TermsOfService  string                         `json:"termsOfService,omitempty"`
	ContactInfo     *spec.Contact                  `json:"contactInfo,omitempty"`
	LicenseInfo     *spec.License                  `json:"licenseInfo,omitempty"`
	Servers         []spec.Server                  `json:"servers"`
	Tags            []spec.Tag                     `json:"tags"`
	EndpointPaths   []string                       `json:"endpointPaths"`
	Endpoints       []EndpointData                 `json:"endpoints"`
	Schemas         map[string]interface{}         `json:"schemas,omitempty"`
	SecuritySchemes map[string]spec.SecurityScheme `json:"securitySchemes,omitempty"`
}

// FromSpecification flattens a specification. Pure: calling it twice on
// the same specification yields equal results, and the specification is
// never mutated.
func FromSpecification(s *spec.Specification) *TestData {
	paths := s.EndpointPaths()

	endpoints := make([]EndpointData, 0, len(paths))
	for _, path := range paths {
		endpoint := EndpointData{Path: path}
		for _, method := range s.Methods(path) {
			endpoint.Methods = append(endpoint.Methods, MethodData{
				Method:      method,
				Summary:     s.OperationSummary(path, method),
				Description: s.OperationDescription(path, method),
				Parameters:  s.Parameters(path, method),
				Responses:   s.Responses(path, method),
				Security:    s.Security(path, method),
			})
		}
		endpoints = append(endpoints, endpoint)
	}

	return &TestData{
		APITitle:        s.Title(),
		APIVersion:      s.Version(),
		APIDescription:  s.Description(),
		TermsOfService:  s.TermsOfService(),
		ContactInfo:     s.Contact(),
		LicenseInfo:     s.License(),
		Servers:         s.Servers(),
		Tags:            s.Tags(),
		EndpointPaths:   paths,
		Endpoints:       endpoints,
		Schemas:         s.Schemas(),
		SecuritySchemes: s.SecuritySchemes(),
	}
}
