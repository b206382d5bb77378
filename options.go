package consul

import (
	"net/http"
	"time"
)

// WithAddress sets the base URL of the agent. A bare host:port is prefixed
// with "http://".
func WithAddress(addr string) Option {
	return func(c *Client) {
		c.config.Address = normalizeAddress(addr)
	}
}

// WithDatacenter sets the default datacenter for all calls. A per-call
// QueryOptions/WriteOptions datacenter always wins.
func WithDatacenter(dc string) Option {
	return func(c *Client) {
		c.config.Datacenter = dc
	}
}

// WithToken sets the default ACL token. A per-call token always wins.
func WithToken(token string) Option {
	return func(c *Client) {
		c.config.Token = token
	}
}

// WithWaitTime sets the default wait duration for blocking queries.
func WithWaitTime(d time.Duration) Option {
	return func(c *Client) {
		c.config.WaitTime = d
	}
}

// WithHTTPClient sets a custom HTTP transport handle. The handle is shared
// read-only by all calls; connection pooling and TLS live inside it.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.config.HTTPClient = client
	}
}

// WithConfig replaces the entire configuration before remaining options
// apply.
func WithConfig(config Config) Option {
	return func(c *Client) {
		c.config = config
	}
}

// WithMiddleware appends middleware to the dispatch chain.
func WithMiddleware(middleware ...Middleware) Option {
	return func(c *Client) {
		c.middleware = append(c.middleware, middleware...)
	}
}

// WithMetrics enables Prometheus metrics on the default registerer.
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector.
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables debug logging with the default configuration. A Logger
// must also be configured.
func WithDebug() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
	}
}

// WithDebugConfig sets a custom debug configuration.
func WithDebugConfig(config *DebugConfig) Option {
	return func(c *Client) {
		c.debug = config
	}
}

// WithSimpleLogger enables debug logging with a stderr logger.
func WithSimpleLogger() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
		c.logger = NewSimpleLogger()
	}
}

// WithRequestIDGenerator sets a custom per-request correlation ID generator.
func WithRequestIDGenerator(gen func() string) Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.RequestIDGen = gen
	}
}
