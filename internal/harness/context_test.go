package harness_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/docuport/apiharness/internal/client"
	"github.com/docuport/apiharness/internal/config"
	"github.com/docuport/apiharness/internal/format"
	"github.com/docuport/apiharness/internal/harness"
	"github.com/docuport/apiharness/internal/mockapi"
)

const ordersSpec = `{
  "openapi": "3.0.0",
  "info": {"title": "Orders API", "version": "1.0.0"},
  "paths": {
    "/orders": {
      "get": {
        "summary": "List orders",
        "responses": {"200": {"description": "OK"}}
      }
    }
  }
}`

func newHarness(t *testing.T) (*harness.Context, *mockapi.Store) {
	t.Helper()

	store := mockapi.NewStore()
	server := httptest.NewServer(mockapi.NewRouter(store).Handler())
	t.Cleanup(server.Close)

	cfg := config.Default()
	cfg.Portal.BaseURL = server.URL
	cfg.Portal.APIToken = "harness-token"
	cfg.Logging.Level = "disabled"

	return harness.New(cfg), store
}

func TestSeedAndTeardown(t *testing.T) {
	h, store := newHarness(t)
	ctx := context.Background()

	// Creating through the client is enough for the tracker to pick the
	// definition up from the creation response.
	def, err := h.Client.CreateDefinition(ctx, client.CreateDefinitionInput{
		Title:   "Orders API",
		Content: ordersSpec,
	}, "")
	if err != nil {
		t.Fatalf("CreateDefinition failed: %v", err)
	}

	tracked := h.Tracker.Tracked()
	if len(tracked) != 1 {
		t.Fatalf("tracked = %d definitions, want 1", len(tracked))
	}
	if tracked[0].APIDefinitionID != def.ID {
		t.Errorf("tracked ID = %q, want %q", tracked[0].APIDefinitionID, def.ID)
	}

	if !h.Teardown(ctx) {
		t.Fatal("Teardown reported failure")
	}
	if len(store.List()) != 0 {
		t.Errorf("definitions left after teardown: %v", store.List())
	}

	// Duplicate teardown hooks are a no-op.
	if !h.Teardown(ctx) {
		t.Error("second Teardown should report the completed cleanup")
	}
}

func TestReset_BetweenTests(t *testing.T) {
	h, store := newHarness(t)
	ctx := context.Background()

	if _, err := h.Client.CreateDefinition(ctx, client.CreateDefinitionInput{
		Title:   "Orders API",
		Content: ordersSpec,
	}, ""); err != nil {
		t.Fatalf("CreateDefinition failed: %v", err)
	}
	h.Teardown(ctx)

	// Next test starts clean and can run its own cleanup pass.
	h.Reset()

	def, err := h.Client.CreateDefinition(ctx, client.CreateDefinitionInput{
		Title:   "Orders API",
		Content: ordersSpec,
	}, "")
	if err != nil {
		t.Fatalf("CreateDefinition failed: %v", err)
	}
	if len(h.Tracker.Tracked()) != 1 {
		t.Fatal("tracker did not observe the new creation after Reset")
	}

	if !h.Teardown(ctx) {
		t.Fatal("Teardown after Reset reported failure")
	}
	if _, err := store.Get(def.ID); err == nil {
		t.Error("definition should be deleted after second teardown")
	}
}

func TestExtractTestData(t *testing.T) {
	h, _ := newHarness(t)

	data, err := h.ExtractTestData(ordersSpec, format.ContentString)
	if err != nil {
		t.Fatalf("ExtractTestData failed: %v", err)
	}
	if data.APITitle != "Orders API" {
		t.Errorf("APITitle = %q", data.APITitle)
	}
	if len(data.EndpointPaths) != 1 || data.EndpointPaths[0] != "/orders" {
		t.Errorf("EndpointPaths = %v", data.EndpointPaths)
	}
}

func TestContextsAreIndependent(t *testing.T) {
	a, _ := newHarness(t)
	b, _ := newHarness(t)

	if a.RunID == b.RunID {
		t.Error("contexts should have distinct run IDs")
	}

	ctx := context.Background()
	if _, err := a.Client.CreateDefinition(ctx, client.CreateDefinitionInput{
		Title:   "Orders API",
		Content: ordersSpec,
	}, ""); err != nil {
		t.Fatalf("CreateDefinition failed: %v", err)
	}

	if len(b.Tracker.Tracked()) != 0 {
		t.Error("one context's tracked definitions leaked into another")
	}
}
