package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/hashicorp/go-cleanhttp"

	"github.com/bft-labs/docship/pkg/log"
)

const resourceEndpoint = "/api/resource/"

// Client performs authenticated calls against one remote API.
type Client struct {
	http      HTTPClient
	settings  Settings
	baseURL   string
	logger    log.Logger
	userAgent string
}

// New creates a Client with its own pooled HTTP transport.
// Timeouts are the transport defaults; use the request context to bound calls.
// New does not validate s; call Settings.Validate first for untrusted input.
func New(s Settings, opts ...Option) *Client {
	return NewWithHTTPClient(cleanhttp.DefaultPooledClient(), s, opts...)
}

// NewWithHTTPClient creates a Client that sends requests through hc.
// hc may be shared with other clients.
func NewWithHTTPClient(hc HTTPClient, s Settings, opts ...Option) *Client {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Client{
		http:      hc,
		settings:  s,
		baseURL:   s.baseURL(),
		logger:    o.logger,
		userAgent: o.userAgent,
	}
}

// Settings returns a copy of the client settings.
func (c *Client) Settings() Settings {
	return c.settings
}

// String keeps the secret out of %v output of a Client.
func (c *Client) String() string {
	return fmt.Sprintf("client.Client{url: %s, key: %s, secret: %s}", stripUserinfo(c.baseURL), c.settings.Key, c.settings.Secret)
}

// Get reads doctype/name into out, which must be a pointer.
// found is false, with a nil error, when the server reports DoesNotExistError.
func (c *Client) Get(ctx context.Context, doctype, name string, out any) (found bool, err error) {
	span := log.StartSpan(c.logger, "get", log.String("doctype", doctype), log.String("name", name))
	defer func() { span.End(err, log.Bool("found", found)) }()

	status, body, err := c.do(ctx, http.MethodGet, c.docURL(doctype, name), nil)
	if err != nil {
		return false, err
	}
	env, err := decodeEnvelope(status, body)
	if err != nil {
		return false, err
	}

	if env.notFound() {
		return false, nil
	}
	if err := env.remoteError(status); err != nil {
		return false, err
	}
	if !present(env.Data) {
		return false, fmt.Errorf("%w: missing data field", ErrMalformedResponse)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return false, &DeserializationError{Err: err}
	}
	return true, nil
}

// Update replaces doctype/name with v, sent as {"data": v}.
func (c *Client) Update(ctx context.Context, doctype, name string, v any) (err error) {
	span := log.StartSpan(c.logger, "update", log.String("doctype", doctype), log.String("name", name))
	defer func() { span.End(err) }()

	return c.write(ctx, http.MethodPut, c.docURL(doctype, name), v)
}

// Insert creates a new doctype record from v, sent as {"data": v}.
// The server assigns the record name.
func (c *Client) Insert(ctx context.Context, doctype string, v any) (err error) {
	span := log.StartSpan(c.logger, "insert", log.String("doctype", doctype))
	defer func() { span.End(err) }()

	return c.write(ctx, http.MethodPost, c.baseURL+resourceEndpoint+doctype, v)
}

// GetAs is the typed form of Client.Get.
func GetAs[T any](ctx context.Context, c *Client, doctype, name string) (T, bool, error) {
	var v T
	found, err := c.Get(ctx, doctype, name, &v)
	if err != nil || !found {
		var zero T
		return zero, false, err
	}
	return v, true, nil
}

// Update is the typed form of Client.Update.
func Update[T any](ctx context.Context, c *Client, doctype, name string, v T) error {
	return c.Update(ctx, doctype, name, v)
}

// Insert is the typed form of Client.Insert.
func Insert[T any](ctx context.Context, c *Client, doctype string, v T) error {
	return c.Insert(ctx, doctype, v)
}

func (c *Client) write(ctx context.Context, method, target string, v any) error {
	payload, err := json.Marshal(request{Data: v})
	if err != nil {
		return &SerializationError{Err: err}
	}

	status, body, err := c.do(ctx, method, target, payload)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	env, err := decodeEnvelope(status, body)
	if err != nil {
		return err
	}
	return env.remoteError(status)
}

// docURL does not escape doctype or name.
func (c *Client) docURL(doctype, name string) string {
	return c.baseURL + resourceEndpoint + doctype + "/" + name
}

// do performs one round trip and returns the status code and full body.
func (c *Client) do(ctx context.Context, method, rawURL string, payload []byte) (int, []byte, error) {
	safeURL := stripUserinfo(rawURL)

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return 0, nil, &TransportError{Method: method, URL: safeURL, Err: fmt.Errorf("create request: %w", err)}
	}

	req.SetBasicAuth(c.settings.Key, c.settings.Secret.Expose())
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, &TransportError{Method: method, URL: safeURL, Err: fmt.Errorf("send request: %w", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &TransportError{Method: method, URL: safeURL, Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.Debug("response received",
		log.String("method", method),
		log.String("url", safeURL),
		log.Int("status", resp.StatusCode),
		log.Int("bytes", len(respBody)),
	)
	return resp.StatusCode, respBody, nil
}

// stripUserinfo drops any user:password@ part so it never reaches logs or errors.
func stripUserinfo(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.User == nil {
		return rawURL
	}
	u.User = nil
	return u.String()
}
