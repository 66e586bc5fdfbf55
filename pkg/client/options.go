package client

import "github.com/bft-labs/docship/pkg/log"

// Option configures optional behavior of a Client.
type Option func(*options)

type options struct {
	logger    log.Logger
	userAgent string
}

func defaultOptions() options {
	return options{
		logger: log.NewNoopLogger(),
	}
}

// WithLogger sets the logger used for per-call spans.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
// If not provided, the transport default is used.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}
