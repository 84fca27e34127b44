package extract_test

import (
	"reflect"
	"testing"

	"github.com/docuport/apiharness/internal/extract"
	"github.com/docuport/apiharness/internal/format"
)

const helloYAML = `
openapi: 3.0.0
info:
  title: Hello World API
  version: 1.0.0
paths:
  /hello:
    get:
      summary: Say hello
      responses:
        '200':
          description: OK
          content:
            application/json:
              schema:
                type: string
components:
  schemas:
    Greeting:
      type: string
      maxLength: 10
      example: hello
    Rating:
      type: number
      maximum: 4.5
`

const helloJSON = `{
  "openapi": "3.0.0",
  "info": {"title": "Hello World API", "version": "1.0.0"},
  "paths": {
    "/hello": {
      "get": {
        "summary": "Say hello",
        "responses": {
          "200": {
            "description": "OK",
            "content": {"application/json": {"schema": {"type": "string"}}}
          }
        }
      }
    }
  },
  "components": {
    "schemas": {
      "Greeting": {"type": "string", "maxLength": 10, "example": "hello"},
      "Rating": {"type": "number", "maximum": 4.5}
    }
  }
}`

func extractFrom(t *testing.T, content string) *extract.TestData {
	t.Helper()
	s, err := format.NewDispatcher().Load(content, format.ContentString)
	if err != nil {
		t.Fatalf("loading spec: %v", err)
	}
	return extract.FromSpecification(s)
}

func TestExtract_HelloWorld(t *testing.T) {
	data := extractFrom(t, helloYAML)

	if data.APITitle != "Hello World API" {
		t.Errorf("APITitle = %q", data.APITitle)
	}
	if data.APIVersion != "1.0.0" {
		t.Errorf("APIVersion = %q", data.APIVersion)
	}
	if !reflect.DeepEqual(data.EndpointPaths, []string{"/hello"}) {
		t.Errorf("EndpointPaths = %v", data.EndpointPaths)
	}
	if len(data.Endpoints) != 1 {
		t.Fatalf("len(Endpoints) = %d, want 1", len(data.Endpoints))
	}
	if len(data.Endpoints[0].Methods) != 1 {
		t.Fatalf("len(Methods) = %d, want 1", len(data.Endpoints[0].Methods))
	}

	method := data.Endpoints[0].Methods[0]
	if method.Method != "get" {
		t.Errorf("Method = %q, want get", method.Method)
	}
	if method.Summary != "Say hello" {
		t.Errorf("Summary = %q", method.Summary)
	}
	if method.Responses["200"].Description != "OK" {
		t.Errorf("Responses[200] = %+v", method.Responses["200"])
	}
}

func TestExtract_YAMLAndJSONAreEquivalent(t *testing.T) {
	fromYAML := extractFrom(t, helloYAML)
	fromJSON := extractFrom(t, helloJSON)

	if !reflect.DeepEqual(fromYAML, fromJSON) {
		t.Errorf("extracted data differs between encodings:\nyaml: %+v\njson: %+v", fromYAML, fromJSON)
	}

	// Numeric schema values must carry the same Go type from both decoders.
	greeting := fromJSON.Schemas["Greeting"].(map[string]interface{})
	if got := greeting["maxLength"]; got != 10 {
		t.Errorf("json maxLength = %v (%T), want int 10", got, got)
	}
	rating := fromJSON.Schemas["Rating"].(map[string]interface{})
	if got := rating["maximum"]; got != 4.5 {
		t.Errorf("json maximum = %v (%T), want float64 4.5", got, got)
	}
}

func TestExtract_PathOrderPreserved(t *testing.T) {
	src := `
openapi: 3.0.0
info:
  title: Ordered API
  version: 1.0.0
paths:
  /zebras:
    get:
      responses:
        '200':
          description: OK
  /apples:
    get:
      responses:
        '200':
          description: OK
  /middle:
    get:
      responses:
        '200':
          description: OK
`
	data := extractFrom(t, src)

	want := []string{"/zebras", "/apples", "/middle"}
	if !reflect.DeepEqual(data.EndpointPaths, want) {
		t.Errorf("EndpointPaths = %v, want %v (document order, not sorted)", data.EndpointPaths, want)
	}

	for i, endpoint := range data.Endpoints {
		if endpoint.Path != want[i] {
			t.Errorf("Endpoints[%d].Path = %q, want %q", i, endpoint.Path, want[i])
		}
	}
}

func TestExtract_IsPure(t *testing.T) {
	s, err := format.NewDispatcher().Load(helloYAML, format.ContentString)
	if err != nil {
		t.Fatalf("loading spec: %v", err)
	}

	first := extract.FromSpecification(s)
	second := extract.FromSpecification(s)

	if first == second {
		t.Error("expected a fresh TestData per call")
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("repeated extraction should yield equal results")
	}

	// Mutating one extraction must not leak into the next
	first.EndpointPaths[0] = "/mutated"
	third := extract.FromSpecification(s)
	if third.EndpointPaths[0] != "/hello" {
		t.Error("mutation of extracted data leaked into the specification")
	}
}

func TestExtract_SecurityAndSchemes(t *testing.T) {
	src := `
openapi: 3.0.0
info:
  title: Secured API
  version: 1.0.0
paths:
  /pets:
    get:
      security:
        - oauth2: ["read:pets"]
      responses:
        '200':
          description: OK
components:
  securitySchemes:
    oauth2:
      type: oauth2
      flows:
        authorizationCode:
          authorizationUrl: https://example.com/authorize
          tokenUrl: https://example.com/token
          scopes:
            read:pets: Read pets
`
	data := extractFrom(t, src)

	method := data.Endpoints[0].Methods[0]
	if len(method.Security) != 1 {
		t.Fatalf("len(Security) = %d, want 1", len(method.Security))
	}
	if !reflect.DeepEqual(method.Security[0]["oauth2"], []string{"read:pets"}) {
		t.Errorf("Security[0] = %v", method.Security[0])
	}

	if data.SecuritySchemes["oauth2"].Type != "oauth2" {
		t.Errorf("SecuritySchemes = %+v", data.SecuritySchemes)
	}
}
