package spec

// Contact holds the info.contact block of a specification.
type Contact struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	URL   string `json:"url,omitempty"`
}

// License holds the info.license block.
type License struct {
	Name string `json:"name,omitempty"`
	URL  string `json:"url,omitempty"`
}

// ServerVariable is one entry of a server's variables mapping.
type ServerVariable struct {
	Default     string   `json:"default"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

// Server is one entry of the top-level servers sequence.
type Server struct {
	URL         string                    `json:"url"`
	Description string                    `json:"description,omitempty"`
	Variables   map[string]ServerVariable `json:"variables,omitempty"`
}

// Tag is one entry of the top-level tags sequence.
type Tag struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// ParameterSchema is the schema block of a parameter. Only the type is
// carried; assertion code compares parameter types, not full schemas.
type ParameterSchema struct {
	Type string `json:"type,omitempty"`
}

// Parameter describes one operation parameter.
type Parameter struct {
	Name        string           `json:"name"`
	In          string           `json:"in"` // query, path, header, body
	Description string           `json:"description,omitempty"`
	Required    bool             `json:"required,omitempty"`
	Schema      *ParameterSchema `json:"schema,omitempty"`
}

// Response describes one status-code entry of an operation's responses.
type Response struct {
	StatusCode  string                 `json:"statusCode"`
	Description string                 `json:"description,omitempty"`
	Headers     map[string]interface{} `json:"headers,omitempty"`
	MediaTypes  []string               `json:"mediaTypes,omitempty"`
}

// SecurityRequirement maps a security scheme name to its required scopes.
type SecurityRequirement map[string][]string

// SecurityScheme describes one entry of components.securitySchemes.
type SecurityScheme struct {
	Type         string `json:"type"` // oauth2, apiKey, http
	Description  string `json:"description,omitempty"`
	Name         string `json:"name,omitempty"`   // apiKey: header/query name
	In           string `json:"in,omitempty"`     // apiKey: location
	Scheme       string `json:"scheme,omitempty"` // http: basic, bearer
	BearerFormat string `json:"bearerFormat,omitempty"`
}

// OAuthFlow describes one flow of an oauth2 security scheme.
type OAuthFlow struct {
	AuthorizationURL string            `json:"authorizationUrl,omitempty"`
	TokenURL         string            `json:"tokenUrl,omitempty"`
	RefreshURL       string            `json:"refreshUrl,omitempty"`
	Scopes           map[string]string `json:"scopes,omitempty"`
}
