package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"

	"github.com/evermediavault/vault-admin/internal/config"
	"github.com/evermediavault/vault-admin/internal/constants"
	"github.com/evermediavault/vault-admin/internal/http"
)

// retryLogger implements the retryablehttp.LeveledLogger interface
type retryLogger struct{}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	log.Error().Fields(keysAndValues).Msg(msg)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	log.Warn().Fields(keysAndValues).Msg(msg)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	// Only log errors and warnings, not every attempt
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	// Only log errors and warnings
}

// TokenSource supplies the current bearer token. The client reads it on
// every outgoing request so token mutations are visible immediately; it
// never caches a snapshot.
type TokenSource interface {
	Token() string
}

// Client is the single transport client for the media-vault backend. It
// stamps every request with the current bearer token, normalizes backend
// error envelopes, and routes 401 responses through the unauthorized
// handler exactly once per occurrence.
type Client struct {
	httpClient *nethttp.Client
	baseURL    string
	tokens     TokenSource

	mu             sync.Mutex
	onUnauthorized func()
}

// NewClient creates a new API client. tokens may be nil for a client that
// only calls unauthenticated endpoints.
func NewClient(cfg *config.Config, tokens TokenSource) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("API base URL is empty")
	}

	httpClient, err := http.ConfigureHTTPClient()
	if err != nil {
		return nil, fmt.Errorf("failed to configure HTTP client: %w", err)
	}

	// Wrap with retry logic for transient transport failures
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = httpClient
	retryClient.RetryMax = constants.RetryMax
	retryClient.RetryWaitMin = constants.RetryWaitMin
	retryClient.RetryWaitMax = constants.RetryWaitMax
	retryClient.Logger = &retryLogger{}

	return &Client{
		httpClient: retryClient.StandardClient(),
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		tokens:     tokens,
	}, nil
}

// SetUnauthorizedHandler registers the hook invoked on every 401 from an
// authenticated call. The hook owns session invalidation and the login
// redirect (with its own re-entrancy guard).
func (c *Client) SetUnauthorizedHandler(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

func (c *Client) notifyUnauthorized() {
	c.mu.Lock()
	fn := c.onUnauthorized
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// callOptions adjusts envelope handling per endpoint.
type callOptions struct {
	// authAttempt marks the login call itself: a 401 there is a rejected
	// login, not an expired session, and must not trigger the redirect.
	authAttempt bool
}

// doRequest performs a request with bearer authentication.
func (c *Client) doRequest(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*nethttp.Response, error) {
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := nethttp.NewRequestWithContext(ctx, method, reqURL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Token is read per request, never captured at construction time.
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiErr := classifyTransport(err)
		log.Debug().Str("method", method).Str("path", path).Str("kind", apiErr.Kind.String()).Msg("request failed")
		return nil, apiErr
	}
	return resp, nil
}

// call performs a request and unwraps the backend envelope. All failure
// modes come back as *Error with the backend's message where one exists.
func (c *Client) call(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, opts callOptions) (*envelope, error) {
	resp, err := c.doRequest(ctx, method, path, query, body, contentType)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindNetwork, Message: "failed to read response body", Detail: err.Error(), err: err}
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode == nethttp.StatusUnauthorized {
		message := "authentication required"
		if decodeErr == nil && env.Message != "" {
			message = env.Message
		}
		if opts.authAttempt {
			return nil, &Error{Kind: KindAuth, Message: message, StatusCode: resp.StatusCode, Detail: env.Detail}
		}
		c.notifyUnauthorized()
		return nil, &Error{Kind: KindSessionExpired, Message: message, StatusCode: resp.StatusCode, Detail: env.Detail}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Rewrite the transport-level wording to the envelope message so
		// downstream callers always see the backend's human-readable text.
		message := nethttp.StatusText(resp.StatusCode)
		statusCode := resp.StatusCode
		detail := strings.TrimSpace(string(raw))
		if decodeErr == nil && env.Message != "" {
			message = env.Message
			if env.StatusCode != 0 {
				statusCode = env.StatusCode
			}
			if env.Detail != "" {
				detail = env.Detail
			}
		}
		kind := KindServer
		if opts.authAttempt {
			kind = KindAuth
		}
		return nil, &Error{Kind: kind, Message: message, StatusCode: statusCode, Detail: detail}
	}

	if decodeErr != nil {
		return nil, &Error{Kind: KindServer, Message: "malformed response body", StatusCode: resp.StatusCode, Detail: strings.TrimSpace(string(raw)), err: decodeErr}
	}

	// A 2xx without success:true is still a failure.
	if !env.Success {
		message := env.Message
		if message == "" {
			message = "request failed"
		}
		statusCode := env.StatusCode
		if statusCode == 0 {
			statusCode = resp.StatusCode
		}
		kind := KindServer
		if opts.authAttempt {
			kind = KindAuth
		}
		return nil, &Error{Kind: kind, Message: message, StatusCode: statusCode, Detail: env.Detail}
	}

	return &env, nil
}

// getJSON performs a GET and decodes the envelope's data (and meta, when
// the caller wants the pagination block).
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, data interface{}, meta interface{}) error {
	env, err := c.call(ctx, nethttp.MethodGet, path, query, nil, "", callOptions{})
	if err != nil {
		return err
	}
	if data != nil && len(env.Data) > 0 {
		if err := unmarshalData(env.Data, data); err != nil {
			return err
		}
	}
	if meta != nil && len(env.Meta) > 0 {
		if err := unmarshalSection(env.Meta, meta, "meta"); err != nil {
			return err
		}
	}
	return nil
}

// postJSON performs a POST with a JSON body and decodes the envelope's data.
func (c *Client) postJSON(ctx context.Context, path string, body interface{}, data interface{}, opts callOptions) error {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	env, err := c.call(ctx, nethttp.MethodPost, path, nil, reqBody, "application/json", opts)
	if err != nil {
		return err
	}
	if data != nil && len(env.Data) > 0 {
		if err := unmarshalData(env.Data, data); err != nil {
			return err
		}
	}
	return nil
}
