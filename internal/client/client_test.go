package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/docuport/apiharness/internal/client"
	"github.com/docuport/apiharness/internal/mockapi"
)

const validSpecJSON = `{
  "openapi": "3.0.0",
  "info": {"title": "Orders API", "version": "1.0.0"},
  "paths": {}
}`

func newMockServer(t *testing.T) (*httptest.Server, *mockapi.Store) {
	t.Helper()
	store := mockapi.NewStore()
	server := httptest.NewServer(mockapi.NewRouter(store).Handler())
	t.Cleanup(server.Close)
	return server, store
}

func TestCreateGetAndBulkDelete(t *testing.T) {
	server, store := newMockServer(t)
	c := client.New(server.URL, nil, zerolog.Nop())
	ctx := context.Background()

	def, err := c.CreateDefinition(ctx, client.CreateDefinitionInput{
		Title:   "Orders API",
		Content: validSpecJSON,
	}, "test-token")
	if err != nil {
		t.Fatalf("CreateDefinition failed: %v", err)
	}
	if def.ID == "" {
		t.Fatal("expected a definition ID")
	}
	if def.ProjectVersionID != store.ProjectVersionID() {
		t.Errorf("ProjectVersionID = %q, want %q", def.ProjectVersionID, store.ProjectVersionID())
	}

	if !c.DefinitionExists(ctx, def.ID, "test-token") {
		t.Error("DefinitionExists = false for a just-created definition")
	}

	if err := c.BulkDelete(ctx, []string{def.ID}, store.ProjectVersionID(), "test-token"); err != nil {
		t.Fatalf("BulkDelete failed: %v", err)
	}

	if c.DefinitionExists(ctx, def.ID, "test-token") {
		t.Error("DefinitionExists = true after bulk delete")
	}
}

func TestCreateDefinition_RejectsInvalidContent(t *testing.T) {
	server, _ := newMockServer(t)
	c := client.New(server.URL, nil, zerolog.Nop())

	_, err := c.CreateDefinition(context.Background(), client.CreateDefinitionInput{
		Title:   "Broken",
		Content: "not an openapi document",
	}, "test-token")
	if err == nil {
		t.Fatal("expected error for invalid definition content")
	}
}

func TestDefinitionExists_FailuresMeanAbsent(t *testing.T) {
	server, _ := newMockServer(t)
	c := client.New(server.URL, nil, zerolog.Nop())

	if c.DefinitionExists(context.Background(), "never-created", "test-token") {
		t.Error("DefinitionExists = true for unknown ID")
	}

	// Unreachable server: request failure also counts as absent.
	dead := httptest.NewServer(http.NotFoundHandler())
	dead.Close()
	cDead := client.New(dead.URL, nil, zerolog.Nop())
	if cDead.DefinitionExists(context.Background(), "any", "test-token") {
		t.Error("DefinitionExists = true against unreachable server")
	}
}

type recordingObserver struct {
	mu        sync.Mutex
	requests  []client.ObservedRequest
	responses []client.ObservedResponse
}

func (r *recordingObserver) ObserveRequest(req client.ObservedRequest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.requests = append(r.requests, req)
}

func (r *recordingObserver) ObserveResponse(resp client.ObservedResponse) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses = append(r.responses, resp)
}

type panickingObserver struct{}

func (panickingObserver) ObserveRequest(client.ObservedRequest)   { panic("request observer boom") }
func (panickingObserver) ObserveResponse(client.ObservedResponse) { panic("response observer boom") }

func TestTransport_NotifiesObservers(t *testing.T) {
	server, _ := newMockServer(t)
	c := client.New(server.URL, nil, zerolog.Nop())

	rec := &recordingObserver{}
	c.Transport().OnRequest(rec)
	c.Transport().OnResponse(rec)

	def, err := c.CreateDefinition(context.Background(), client.CreateDefinitionInput{
		Title:   "Orders API",
		Content: validSpecJSON,
	}, "observer-token")
	if err != nil {
		t.Fatalf("CreateDefinition failed: %v", err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if len(rec.requests) != 1 {
		t.Fatalf("observed %d requests, want 1", len(rec.requests))
	}
	req := rec.requests[0]
	if req.Method != http.MethodPost {
		t.Errorf("request method = %q", req.Method)
	}
	if got := req.Header.Get("Authorization"); got != "Bearer observer-token" {
		t.Errorf("Authorization = %q", got)
	}

	if len(rec.responses) != 1 {
		t.Fatalf("observed %d responses, want 1", len(rec.responses))
	}
	resp := rec.responses[0]
	if resp.StatusCode != http.StatusOK {
		t.Errorf("response status = %d", resp.StatusCode)
	}
	if len(resp.Body) == 0 {
		t.Error("response body was not captured")
	}
	_ = def
}

func TestTransport_ObserverPanicIsolated(t *testing.T) {
	server, _ := newMockServer(t)
	c := client.New(server.URL, nil, zerolog.Nop())

	rec := &recordingObserver{}
	c.Transport().OnRequest(panickingObserver{})
	c.Transport().OnRequest(rec)
	c.Transport().OnResponse(panickingObserver{})
	c.Transport().OnResponse(rec)

	_, err := c.CreateDefinition(context.Background(), client.CreateDefinitionInput{
		Title:   "Orders API",
		Content: validSpecJSON,
	}, "tok")
	if err != nil {
		t.Fatalf("request failed because of observer panic: %v", err)
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.requests) != 1 || len(rec.responses) != 1 {
		t.Errorf("later observers were not notified after a panic: %d requests, %d responses",
			len(rec.requests), len(rec.responses))
	}
}

func TestCreateDefinition_RetriesTransientFailures(t *testing.T) {
	var attempts int
	var mu sync.Mutex

	store := mockapi.NewStore()
	mock := mockapi.NewRouter(store).Handler()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		attempts++
		first := attempts == 1
		mu.Unlock()
		if first {
			http.Error(w, "temporarily unavailable", http.StatusServiceUnavailable)
			return
		}
		mock.ServeHTTP(w, r)
	}))
	defer server.Close()

	c := client.New(server.URL, nil, zerolog.Nop())
	def, err := c.CreateDefinition(context.Background(), client.CreateDefinitionInput{
		Title:   "Orders API",
		Content: validSpecJSON,
	}, "tok")
	if err != nil {
		t.Fatalf("CreateDefinition failed after retry: %v", err)
	}
	if def.ID == "" {
		t.Error("expected a definition ID after retry")
	}

	mu.Lock()
	defer mu.Unlock()
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestTokenSourceFallback(t *testing.T) {
	server, _ := newMockServer(t)

	rec := &recordingObserver{}
	c := client.New(server.URL, staticToken("fallback-token"), zerolog.Nop())
	c.Transport().OnRequest(rec)

	// No per-call token: the source supplies one.
	c.DefinitionExists(context.Background(), "whatever", "")

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.requests) != 1 {
		t.Fatalf("observed %d requests, want 1", len(rec.requests))
	}
	if got := rec.requests[0].Header.Get("Authorization"); got != "Bearer fallback-token" {
		t.Errorf("Authorization = %q, want fallback token", got)
	}
}

type staticToken string

func (s staticToken) Token() string { return string(s) }
