// Package client talks to the documentation product's REST API for the
// API-definition endpoints the harness needs: create, existence check and
// bulk delete. All traffic goes through an ObservingTransport so the
// lifecycle tracker can watch it.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// definitionsPath is the API path prefix for API-definition resources.
const definitionsPath = "/v2/apidefinitions"

const (
	defaultTimeout = 30 * time.Second
	retryAttempts  = 3
	retryBaseDelay = 500 * time.Millisecond
)

// TokenSource supplies a bearer token when no per-call token is given.
// The harness context implements it with the most recently captured
// login token.
type TokenSource interface {
	Token() string
}

// Definition is the product's record of an imported API definition.
type Definition struct {
	ID               string `json:"apiDefinitionId"`
	ProjectVersionID string `json:"projectDocumentVersionId"`
	Title            string `json:"title,omitempty"`
	Version          string `json:"version,omitempty"`
}

// CreateDefinitionInput is the request body for importing a definition.
type CreateDefinitionInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// envelope is the product's standard response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Errors  []string        `json:"errors,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

// bulkDeleteRequest is the request body for the bulk-delete endpoint.
type bulkDeleteRequest struct {
	APIDefinitionList        []string `json:"apiDefinitionList"`
	ProjectDocumentVersionID string   `json:"projectDocumentVersionId"`
}

// Client is the product API client.
type Client struct {
	baseURL   string
	http      *http.Client
	transport *ObservingTransport
	tokens    TokenSource
	log       zerolog.Logger
}

// New creates a client for the product API at baseURL. tokens may be nil
// when every call supplies its own token.
func New(baseURL string, tokens TokenSource, log zerolog.Logger) *Client {
	transport := NewObservingTransport(nil, log)
	return &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		http:      &http.Client{Timeout: defaultTimeout, Transport: transport},
		transport: transport,
		tokens:    tokens,
		log:       log,
	}
}

// Transport exposes the observing transport so callers can register
// traffic observers.
func (c *Client) Transport() *ObservingTransport {
	return c.transport
}

// resolveToken picks the per-call token, falling back to the token source.
func (c *Client) resolveToken(token string) string {
	if token != "" {
		return token
	}
	if c.tokens != nil {
		return c.tokens.Token()
	}
	return ""
}

// CreateDefinition imports a specification as a new API definition.
// Retries transient failures up to three attempts with a doubling delay.
func (c *Client) CreateDefinition(ctx context.Context, in CreateDefinitionInput, token string) (*Definition, error) {
	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}

	var def Definition
	err = c.withRetry(ctx, "create definition", func() error {
		env, err := c.do(ctx, http.MethodPost, definitionsPath, body, token)
		if err != nil {
			return err
		}
		if !env.Success {
			return fmt.Errorf("creation rejected: %s", strings.Join(env.Errors, "; "))
		}
		return json.Unmarshal(env.Result, &def)
	})
	if err != nil {
		return nil, err
	}
	return &def, nil
}

// DefinitionExists checks whether a definition is still present. Any
// request failure or non-2xx status counts as absent: the check only
// filters delete targets, and a definition we cannot see is one we should
// not try to delete.
func (c *Client) DefinitionExists(ctx context.Context, id, token string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+definitionsPath+"/"+id, nil)
	if err != nil {
		return false
	}
	c.setHeaders(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("id", id).Msg("existence check failed, treating as absent")
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// BulkDelete removes the given definitions in one call.
func (c *Client) BulkDelete(ctx context.Context, ids []string, projectVersionID, token string) error {
	body, err := json.Marshal(bulkDeleteRequest{
		APIDefinitionList:        ids,
		ProjectDocumentVersionID: projectVersionID,
	})
	if err != nil {
		return err
	}

	return c.withRetry(ctx, "bulk delete", func() error {
		env, err := c.do(ctx, http.MethodPost, definitionsPath+"/bulkdelete", body, token)
		if err != nil {
			return err
		}
		if !env.Success {
			return fmt.Errorf("bulk delete rejected: %s", strings.Join(env.Errors, "; "))
		}
		return nil
	})
}

// do issues one JSON request and decodes the standard envelope.
func (c *Client) do(ctx context.Context, method, path string, body []byte, token string) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setHeaders(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, truncate(data, 200))
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%s %s: decoding response: %w", method, path, err)
	}
	return &env, nil
}

func (c *Client) setHeaders(req *http.Request, token string) {
	if t := c.resolveToken(token); t != "" {
		req.Header.Set("Authorization", "Bearer "+t)
	}
	req.Header.Set("Accept", "application/json")
}

// withRetry runs fn up to retryAttempts times with a doubling delay
// between attempts. The loop is bounded; a canceled context stops it
// early.
func (c *Client) withRetry(ctx context.Context, what string, fn func() error) error {
	delay := retryBaseDelay
	var lastErr error
	for attempt := 1; attempt <= retryAttempts; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if attempt == retryAttempts {
			break
		}
		c.log.Warn().Err(lastErr).Int("attempt", attempt).Msgf("%s failed, retrying", what)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay *= 2
	}
	return lastErr
}

func truncate(data []byte, n int) string {
	if len(data) <= n {
		return string(data)
	}
	return string(data[:n]) + "..."
}
