// Package lifecycle tracks the API definitions a test run creates in the
// product and deletes them at teardown. Definitions are discovered by
// observing creation responses on the client transport, or registered
// manually when a flow yields no interceptable response. Cleanup is best
// effort: it never fails the test that triggered it.
package lifecycle

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/docuport/apiharness/internal/client"
)

// TrackedDefinition is one API definition this run is responsible for
// deleting.
type TrackedDefinition struct {
	APIDefinitionID  string
	ProjectVersionID string
	AuthToken        string
}

// DefinitionAPI is the slice of the product client the tracker needs.
type DefinitionAPI interface {
	DefinitionExists(ctx context.Context, id, token string) bool
	BulkDelete(ctx context.Context, ids []string, projectVersionID, token string) error
}

// Tracker records created API definitions and deletes them on request.
// One tracker belongs to one harness context; there is no process-global
// state.
type Tracker struct {
	api    DefinitionAPI
	tokens *TokenRecorder
	log    zerolog.Logger

	mu         sync.Mutex
	entries    map[string]TrackedDefinition
	order      []string // insertion order of definition IDs
	inProgress bool
	completed  bool
}

// NewTracker creates a tracker deleting through api and falling back to
// tokens for auth when a tracked entry carries no token.
func NewTracker(api DefinitionAPI, tokens *TokenRecorder, log zerolog.Logger) *Tracker {
	return &Tracker{
		api:     api,
		tokens:  tokens,
		log:     log,
		entries: make(map[string]TrackedDefinition),
	}
}

// Track registers a definition for teardown. Re-tracking an ID replaces
// the previous tuple (last write wins) without duplicating it.
func (t *Tracker) Track(def TrackedDefinition) {
	if def.APIDefinitionID == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.entries[def.APIDefinitionID]; !exists {
		t.order = append(t.order, def.APIDefinitionID)
	}
	t.entries[def.APIDefinitionID] = def
	t.log.Debug().Str("id", def.APIDefinitionID).Msg("tracking api definition")
}

// TrackFromURL registers a definition whose ID is only visible in a
// portal URL, either as a definitionId query parameter or as the path
// segment after "apidefinitions". Returns false when no ID was found.
func (t *Tracker) TrackFromURL(rawURL, projectVersionID, token string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	id := u.Query().Get("definitionId")
	if id == "" {
		id = u.Query().Get("apiDefinitionId")
	}
	if id == "" {
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		for i, seg := range segments {
			if seg == "apidefinitions" && i+1 < len(segments) {
				id = segments[i+1]
				break
			}
		}
	}
	if id == "" {
		return false
	}

	t.Track(TrackedDefinition{
		APIDefinitionID:  id,
		ProjectVersionID: projectVersionID,
		AuthToken:        token,
	})
	return true
}

// Tracked returns the tracked definitions in insertion order.
func (t *Tracker) Tracked() []TrackedDefinition {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]TrackedDefinition, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.entries[id])
	}
	return out
}

// ObserveResponse implements client.ResponseObserver. A successful POST
// to the creation endpoint whose body carries a definition ID is tracked
// automatically.
func (t *Tracker) ObserveResponse(resp client.ObservedResponse) {
	if resp.Method != http.MethodPost || resp.URL == nil {
		return
	}
	if !strings.HasSuffix(strings.TrimSuffix(resp.URL.Path, "/"), "apidefinitions") {
		return
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return
	}

	body := string(resp.Body)
	if !gjson.Get(body, "success").Bool() {
		return
	}
	id := gjson.Get(body, "result.apiDefinitionId").String()
	if id == "" {
		return
	}

	t.Track(TrackedDefinition{
		APIDefinitionID:  id,
		ProjectVersionID: gjson.Get(body, "result.projectDocumentVersionId").String(),
	})
}

// Reset clears all tracking state and the idempotency flags. Called at
// the start of every test so one test's teardown cannot shadow the next.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.entries = make(map[string]TrackedDefinition)
	t.order = nil
	t.inProgress = false
	t.completed = false
}

// DeleteTracked deletes every tracked definition in one bulk call and
// reports whether cleanup succeeded. Safe to call from multiple teardown
// hooks: once a pass has completed (or is mid-flight) further calls are
// no-ops reporting the completed state. Tracking state is cleared whether
// or not the delete call succeeds; a failed server-side delete is logged
// and forgotten rather than retried forever.
func (t *Tracker) DeleteTracked(ctx context.Context) bool {
	t.mu.Lock()
	if t.completed {
		t.mu.Unlock()
		return true
	}
	if t.inProgress {
		t.mu.Unlock()
		return true
	}
	t.inProgress = true

	defs := make([]TrackedDefinition, 0, len(t.order))
	for _, id := range t.order {
		defs = append(defs, t.entries[id])
	}
	t.entries = make(map[string]TrackedDefinition)
	t.order = nil
	t.mu.Unlock()

	ok := t.deleteAll(ctx, defs)

	t.mu.Lock()
	t.inProgress = false
	t.completed = true
	t.mu.Unlock()
	return ok
}

func (t *Tracker) deleteAll(ctx context.Context, defs []TrackedDefinition) bool {
	if len(defs) == 0 {
		t.log.Debug().Msg("no tracked api definitions to delete")
		return true
	}

	// The bulk endpoint takes a single project version ID. Tracking
	// definitions from two versions in one test is unsupported; warn so
	// the mismatch is visible instead of silently deleting with the
	// wrong version.
	versionID := defs[0].ProjectVersionID
	for _, def := range defs[1:] {
		if def.ProjectVersionID != "" && def.ProjectVersionID != versionID {
			t.log.Warn().
				Str("expected", versionID).
				Str("got", def.ProjectVersionID).
				Str("id", def.APIDefinitionID).
				Msg("tracked definitions span project versions; bulk delete uses the first")
		}
	}

	// Entries tracked from a response body carry no token of their own;
	// fall back to the last bearer token the recorder captured.
	fallbackToken := ""
	if t.tokens != nil {
		fallbackToken = t.tokens.Token()
	}

	token := defs[0].AuthToken

	// Pre-check existence so the bulk call never names a definition that
	// was already deleted out of band.
	var survivors []string
	for _, def := range defs {
		authToken := def.AuthToken
		if authToken == "" {
			authToken = fallbackToken
		}
		if t.api.DefinitionExists(ctx, def.APIDefinitionID, authToken) {
			survivors = append(survivors, def.APIDefinitionID)
			if token == "" {
				token = authToken
			}
		} else {
			t.log.Debug().Str("id", def.APIDefinitionID).Msg("definition already gone, skipping")
		}
	}

	if len(survivors) == 0 {
		t.log.Info().Int("tracked", len(defs)).Msg("nothing to delete")
		return true
	}

	if err := t.api.BulkDelete(ctx, survivors, versionID, token); err != nil {
		t.log.Warn().Err(err).Strs("ids", survivors).Msg("bulk delete failed; definitions may be leaked")
		return false
	}

	t.log.Info().Int("deleted", len(survivors)).Msg("tracked api definitions deleted")
	return true
}
