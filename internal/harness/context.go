// Package harness wires the per-test context: one configuration, one
// logger, one product client, one lifecycle tracker and one spec
// dispatcher, constructed together and passed explicitly to whoever
// needs them. Nothing in the harness lives in package-level state, so
// tests running in the same process cannot leak tokens or tracked
// definitions into each other.
package harness

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/docuport/apiharness/internal/client"
	"github.com/docuport/apiharness/internal/config"
	"github.com/docuport/apiharness/internal/extract"
	"github.com/docuport/apiharness/internal/format"
	"github.com/docuport/apiharness/internal/lifecycle"
	"github.com/docuport/apiharness/internal/spec"
)

// Context is the test-scoped dependency bundle.
type Context struct {
	RunID      string
	Config     *config.Config
	Log        zerolog.Logger
	Client     *client.Client
	Tracker    *lifecycle.Tracker
	Dispatcher *format.Dispatcher

	tokens *lifecycle.TokenRecorder
}

// tokenSource prefers the statically configured token and falls back to
// the most recent token captured from login traffic.
type tokenSource struct {
	static   string
	recorded *lifecycle.TokenRecorder
}

func (s *tokenSource) Token() string {
	if s.static != "" {
		return s.static
	}
	return s.recorded.Token()
}

// New builds a context from configuration. The tracker and the token
// recorder are registered on the client transport so creation responses
// and login tokens are picked up without any caller involvement.
func New(cfg *config.Config) *Context {
	log := newLogger(cfg.Logging)
	tokens := lifecycle.NewTokenRecorder()

	c := client.New(cfg.Portal.BaseURL, &tokenSource{
		static:   cfg.Portal.APIToken,
		recorded: tokens,
	}, log)

	tracker := lifecycle.NewTracker(c, tokens, log)
	c.Transport().OnRequest(tokens)
	c.Transport().OnResponse(tracker)

	dispatcher := format.NewDispatcher(
		format.WithValidation(cfg.Parser.Validation),
		format.WithCaching(cfg.Parser.Caching),
	)

	return &Context{
		RunID:      uuid.New().String(),
		Config:     cfg,
		Log:        log,
		Client:     c,
		Tracker:    tracker,
		Dispatcher: dispatcher,
		tokens:     tokens,
	}
}

// Reset clears captured state at the start of a test: the tracked
// definitions, the cleanup flags and the captured token.
func (h *Context) Reset() {
	h.Tracker.Reset()
	h.tokens.Clear()
}

// LoadSpec parses a specification source through the dispatcher.
func (h *Context) LoadSpec(source string, sourceType format.SourceType) (*spec.Specification, error) {
	return h.Dispatcher.Load(source, sourceType)
}

// ExtractTestData parses a source and flattens it for assertions.
func (h *Context) ExtractTestData(source string, sourceType format.SourceType) (*extract.TestData, error) {
	s, err := h.LoadSpec(source, sourceType)
	if err != nil {
		return nil, err
	}
	return extract.FromSpecification(s), nil
}

// Teardown deletes every tracked API definition. Best effort; the bool
// is for reporting, not for failing tests.
func (h *Context) Teardown(ctx context.Context) bool {
	return h.Tracker.DeleteTracked(ctx)
}
