package consul

import (
	"net/http"
	"strings"
)

// Middleware wraps the transport round trip for cross-cutting concerns such
// as tracing or custom auth. Middleware runs inside the single dispatch
// point; it must not retry (resilience policy belongs to the application).
type Middleware func(req *http.Request, next RoundTripper) (*http.Response, error)

// RoundTripper is the transport interface seen by middleware.
type RoundTripper interface {
	RoundTrip(*http.Request) (*http.Response, error)
}

// RoundTripperFunc adapts a function to RoundTripper.
type RoundTripperFunc func(*http.Request) (*http.Response, error)

func (f RoundTripperFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// Option configures a Client during New.
type Option func(*Client)

// Client issues typed requests against a Consul-compatible control plane.
// It holds no cache and no mutable state shared between calls; a single
// instance is safe for concurrent use, and concurrent calls are fully
// independent round trips.
type Client struct {
	config          Config
	middleware      []Middleware
	metrics         *MetricsCollector
	debug           *DebugConfig
	logger          Logger
	validationError error
}

// New constructs a Client from DefaultConfig plus the provided functional
// options. Validation is best effort: inspect IsValid / ValidationError.
func New(options ...Option) *Client {
	return newClient(DefaultConfig(), options)
}

// NewFromEnv is New with the base address and token resolved from the
// process environment (CONSUL_HTTP_ADDR, CONSUL_HTTP_TOKEN). Options apply
// on top of the environment-derived configuration.
func NewFromEnv(options ...Option) *Client {
	return newClient(ConfigFromEnv(nil), options)
}

// NewWithConfig constructs a Client from a fully caller-built Config.
func NewWithConfig(config Config, options ...Option) *Client {
	if config.HTTPClient == nil {
		config.HTTPClient = DefaultConfig().HTTPClient
	}
	return newClient(config, options)
}

func newClient(config Config, options []Option) *Client {
	client := &Client{
		config: config,
		debug:  DefaultDebugConfig(),
	}
	for _, option := range options {
		option(client)
	}
	if err := client.config.Validate(); err != nil {
		client.validationError = err
	}
	if client.debug != nil && client.debug.Enabled && client.logger == nil {
		client.validationError = &ClientError{
			Type:    ErrorTypeValidation,
			Message: "logger must be set when debug is enabled",
		}
	}
	return client
}

// IsValid reports whether configuration validation passed at construction.
func (c *Client) IsValid() bool {
	return c.validationError == nil
}

// ValidationError returns the configuration validation error, if any.
func (c *Client) ValidationError() error {
	return c.validationError
}

// roundTrip executes the request through the middleware chain and the
// underlying transport. This is the sole suspension point of every call.
func (c *Client) roundTrip(req *http.Request) (*http.Response, error) {
	if len(c.middleware) == 0 {
		return c.config.HTTPClient.Do(req)
	}

	current := RoundTripperFunc(c.config.HTTPClient.Do)

	for i := len(c.middleware) - 1; i >= 0; i-- {
		middleware := c.middleware[i]
		next := current
		current = RoundTripperFunc(func(r *http.Request) (*http.Response, error) {
			return middleware(r, next)
		})
	}

	return current.RoundTrip(req)
}

// endpointLabel derives a bounded metrics/log label from a request path by
// keeping at most the API version plus two segments, so deep identifier
// paths collapse into one label per endpoint family.
func endpointLabel(path string) string {
	segments := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 4)
	if len(segments) > 3 {
		segments = segments[:3]
	}
	return "/" + strings.Join(segments, "/")
}
