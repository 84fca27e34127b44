package lifecycle

import (
	"strings"
	"sync"

	"github.com/docuport/apiharness/internal/client"
)

// TokenRecorder watches outgoing requests for bearer tokens on API
// traffic and remembers the most recent one. It backs the client's
// TokenSource when a call has no explicit token, which is how the
// tracker reuses the login token the product handed out during setup.
type TokenRecorder struct {
	mu    sync.RWMutex
	token string
}

// NewTokenRecorder creates an empty recorder.
func NewTokenRecorder() *TokenRecorder {
	return &TokenRecorder{}
}

// ObserveRequest implements client.RequestObserver. Only API-prefixed
// requests are inspected; static-asset and page traffic is ignored.
func (r *TokenRecorder) ObserveRequest(req client.ObservedRequest) {
	if req.URL == nil || !strings.Contains(req.URL.Path, "/v2/") {
		return
	}
	auth := req.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return
	}
	token := strings.TrimPrefix(auth, "Bearer ")
	if token == "" {
		return
	}

	r.mu.Lock()
	r.token = token
	r.mu.Unlock()
}

// Token implements client.TokenSource.
func (r *TokenRecorder) Token() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.token
}

// Clear forgets the captured token. Called at test start.
func (r *TokenRecorder) Clear() {
	r.mu.Lock()
	r.token = ""
	r.mu.Unlock()
}
