package client

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"sync"

	"github.com/rs/zerolog"
)

// maxCapturedBody bounds how much of a response body is copied for
// observers. Creation responses are small; this is only a safety cap.
const maxCapturedBody = 1 << 20

// ObservedRequest is the outgoing-request view handed to observers.
type ObservedRequest struct {
	Method string
	URL    *url.URL
	Header http.Header
}

// ObservedResponse is the response view handed to observers. Body holds a
// copy of the response body; the original stream is left readable for the
// caller.
type ObservedResponse struct {
	Method     string
	URL        *url.URL
	StatusCode int
	Body       []byte
}

// RequestObserver is notified of every outgoing request.
type RequestObserver interface {
	ObserveRequest(req ObservedRequest)
}

// ResponseObserver is notified of every completed response.
type ResponseObserver interface {
	ObserveResponse(resp ObservedResponse)
}

// ObservingTransport wraps an http.RoundTripper and notifies registered
// observers of traffic passing through it. A panic in one observer is
// contained so the remaining observers still run and the request itself
// is unaffected.
type ObservingTransport struct {
	base http.RoundTripper
	log  zerolog.Logger

	mu      sync.RWMutex
	reqObs  []RequestObserver
	respObs []ResponseObserver
}

// NewObservingTransport wraps base (nil means http.DefaultTransport).
func NewObservingTransport(base http.RoundTripper, log zerolog.Logger) *ObservingTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &ObservingTransport{base: base, log: log}
}

// OnRequest registers a request observer.
func (t *ObservingTransport) OnRequest(obs RequestObserver) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reqObs = append(t.reqObs, obs)
}

// OnResponse registers a response observer.
func (t *ObservingTransport) OnResponse(obs ResponseObserver) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.respObs = append(t.respObs, obs)
}

// RoundTrip implements http.RoundTripper.
func (t *ObservingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.mu.RLock()
	reqObs := make([]RequestObserver, len(t.reqObs))
	copy(reqObs, t.reqObs)
	respObs := make([]ResponseObserver, len(t.respObs))
	copy(respObs, t.respObs)
	t.mu.RUnlock()

	observed := ObservedRequest{
		Method: req.Method,
		URL:    req.URL,
		Header: req.Header.Clone(),
	}
	for _, obs := range reqObs {
		t.notifyRequest(obs, observed)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if len(respObs) > 0 {
		body := captureBody(resp)
		or := ObservedResponse{
			Method:     req.Method,
			URL:        req.URL,
			StatusCode: resp.StatusCode,
			Body:       body,
		}
		for _, obs := range respObs {
			t.notifyResponse(obs, or)
		}
	}

	return resp, nil
}

func (t *ObservingTransport) notifyRequest(obs RequestObserver, req ObservedRequest) {
	defer func() {
		if r := recover(); r != nil {
			t.log.Warn().Interface("panic", r).Msg("request observer panicked")
		}
	}()
	obs.ObserveRequest(req)
}

func (t *ObservingTransport) notifyResponse(obs ResponseObserver, resp ObservedResponse) {
	defer func() {
		if r := recover(); r != nil {
			t.log.Warn().Interface("panic", r).Msg("response observer panicked")
		}
	}()
	obs.ObserveResponse(resp)
}

// captureBody copies up to maxCapturedBody bytes of the response body and
// replaces the body so the caller can still read it in full.
func captureBody(resp *http.Response) []byte {
	if resp.Body == nil {
		return nil
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxCapturedBody))
	rest, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	full := append(data, rest...)
	resp.Body = io.NopCloser(bytes.NewReader(full))
	if err != nil {
		return nil
	}
	return data
}
