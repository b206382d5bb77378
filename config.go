package consul

import (
	"net/http"
	"os"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Environment variables read by ConfigFromEnv.
const (
	// EnvHTTPAddr names the base address of the control plane agent.
	EnvHTTPAddr = "CONSUL_HTTP_ADDR"
	// EnvHTTPToken names the default ACL token.
	EnvHTTPToken = "CONSUL_HTTP_TOKEN"
)

// DefaultAddress is used when no address is configured or present in the
// environment: a local agent on the default port.
const DefaultAddress = "http://127.0.0.1:8500"

// Config aggregates the per-client settings shared read-only by every call.
// It is never mutated after New; concurrent calls need no locking.
type Config struct {
	// Address is the base URL of the agent, e.g. "http://127.0.0.1:8500".
	// A bare host:port is prefixed with "http://".
	Address string

	// Datacenter is the default datacenter for all calls. Empty uses the
	// datacenter of the queried agent. A per-call option always wins.
	Datacenter string

	// Token is the default ACL token, sent as a header (never in the URL,
	// which would leak it into logs and proxies). A per-call option wins.
	Token string

	// WaitTime is the default wait duration for blocking queries. Zero
	// falls back to a 5 minute sentinel when a wait index is set.
	WaitTime time.Duration

	// HTTPClient is the underlying transport handle. Connection pooling and
	// TLS live entirely inside it. When long polling, its Timeout must
	// exceed WaitTime.
	HTTPClient *http.Client
}

// DefaultConfig returns a Config pointing at a local agent with a transport
// timeout comfortably above the default blocking wait.
func DefaultConfig() Config {
	return Config{
		Address:    DefaultAddress,
		HTTPClient: &http.Client{Timeout: defaultWaitTime + 30*time.Second},
	}
}

// ConfigFromEnv builds a Config from an environment snapshot. Passing nil
// reads the real process environment. The snapshot parameter keeps the env
// lookup at the construction boundary instead of inside deep call paths, and
// makes the factory testable.
func ConfigFromEnv(getenv func(string) string) Config {
	if getenv == nil {
		getenv = os.Getenv
	}
	config := DefaultConfig()
	if addr := getenv(EnvHTTPAddr); addr != "" {
		config.Address = normalizeAddress(addr)
	}
	config.Token = getenv(EnvHTTPToken)
	return config
}

// normalizeAddress prefixes a bare host:port with the http scheme.
func normalizeAddress(addr string) string {
	if strings.HasPrefix(addr, "http://") || strings.HasPrefix(addr, "https://") {
		return addr
	}
	return "http://" + addr
}

// Validate checks the Config for combinations that cannot work. It is run by
// New; the result is surfaced through Client.ValidationError.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Address, validation.Required, is.RequestURL),
		validation.Field(&c.WaitTime, validation.Min(time.Duration(0))),
		validation.Field(&c.HTTPClient, validation.NotNil),
	)
	if err != nil {
		return &ClientError{Type: ErrorTypeValidation, Message: "invalid configuration", Cause: err}
	}
	// A transport timeout at or below the blocking wait turns every long
	// poll into a spurious network error.
	if c.HTTPClient != nil && c.HTTPClient.Timeout != 0 {
		wait := c.WaitTime
		if wait == 0 {
			wait = defaultWaitTime
		}
		if c.HTTPClient.Timeout <= wait {
			return &ClientError{
				Type:    ErrorTypeValidation,
				Message: "transport timeout must exceed the blocking-query wait time",
			}
		}
	}
	return nil
}
