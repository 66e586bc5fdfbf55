// Package docship is a small client for Frappe-style document REST APIs.
//
// Example usage:
//
//	c := docship.New(docship.Settings{
//	    URL:    "https://erp.example.com",
//	    Key:    "api-key",
//	    Secret: secret.New("api-secret"),
//	})
//	task, found, err := docship.Get[Task](ctx, c, "Task", "TASK-0001")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if found {
//	    task.Status = "Closed"
//	    err = c.Update(ctx, "Task", "TASK-0001", task)
//	}
package docship

import (
	"context"

	"github.com/bft-labs/docship/pkg/client"
	"github.com/bft-labs/docship/pkg/log"
)

// Version is the current version of the docship module.
const Version = "1.0.0"

// Client performs read, update and insert calls against one remote API.
type Client = client.Client

// Settings holds the base URL and basic-auth credentials.
type Settings = client.Settings

// Option configures optional behavior of a Client.
type Option = client.Option

// HTTPClient is the interface for making HTTP requests.
// *http.Client satisfies this interface.
type HTTPClient = client.HTTPClient

// Error kinds, checkable with errors.Is.
var (
	ErrTransport         = client.ErrTransport
	ErrDecode            = client.ErrDecode
	ErrRemoteException   = client.ErrRemoteException
	ErrMalformedResponse = client.ErrMalformedResponse
	ErrDeserialization   = client.ErrDeserialization
	ErrSerialization     = client.ErrSerialization
)

// New creates a Client with its own pooled HTTP transport.
func New(s Settings, opts ...Option) *Client {
	return client.New(s, opts...)
}

// NewWithHTTPClient creates a Client that shares hc with the caller.
func NewWithHTTPClient(hc HTTPClient, s Settings, opts ...Option) *Client {
	return client.NewWithHTTPClient(hc, s, opts...)
}

// Get fetches doctype/name as a T. found is false when the record does not exist.
func Get[T any](ctx context.Context, c *Client, doctype, name string) (v T, found bool, err error) {
	return client.GetAs[T](ctx, c, doctype, name)
}

// Update replaces doctype/name with v, sent as {"data": v}.
func Update[T any](ctx context.Context, c *Client, doctype, name string, v T) error {
	return client.Update(ctx, c, doctype, name, v)
}

// Insert creates a new doctype record from v, sent as {"data": v}.
func Insert[T any](ctx context.Context, c *Client, doctype string, v T) error {
	return client.Insert(ctx, c, doctype, v)
}

// WithLogger sets a logger for per-call spans.
func WithLogger(logger log.Logger) Option {
	return client.WithLogger(logger)
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return client.WithUserAgent(ua)
}
