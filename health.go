package consul

import (
	"context"
	"net/url"
)

// Health check states used by the health endpoints.
const (
	HealthAny      = "any"
	HealthPassing  = "passing"
	HealthWarning  = "warning"
	HealthCritical = "critical"
)

// HealthCheck is a check result as recorded cluster-wide.
type HealthCheck struct {
	Node        string   `json:"Node"`
	CheckID     string   `json:"CheckID"`
	Name        string   `json:"Name"`
	Status      string   `json:"Status"`
	Notes       string   `json:"Notes"`
	Output      string   `json:"Output"`
	ServiceID   string   `json:"ServiceID"`
	ServiceName string   `json:"ServiceName"`
	ServiceTags []string `json:"ServiceTags"`
	CreateIndex uint64   `json:"CreateIndex"`
	ModifyIndex uint64   `json:"ModifyIndex"`
}

// ServiceEntry bundles a service instance with its node and the checks that
// apply to it, as returned by the health service endpoint.
type ServiceEntry struct {
	Node    *Node         `json:"Node"`
	Service *AgentService `json:"Service"`
	Checks  []HealthCheck `json:"Checks"`
}

// HealthNode returns the checks registered on the named node.
func (c *Client) HealthNode(ctx context.Context, node string, q *QueryOptions) ([]HealthCheck, *QueryMeta, error) {
	if node == "" {
		return nil, nil, missingParameter("node")
	}
	return get[[]HealthCheck](ctx, c, "/v1/health/node/"+node, nil, q)
}

// HealthChecks returns the checks associated with the named service across
// the datacenter.
func (c *Client) HealthChecks(ctx context.Context, service string, q *QueryOptions) ([]HealthCheck, *QueryMeta, error) {
	if service == "" {
		return nil, nil, missingParameter("service")
	}
	return get[[]HealthCheck](ctx, c, "/v1/health/checks/"+service, nil, q)
}

// HealthService returns the instances of the named service together with
// their node and check state. A non-empty tag restricts the result; with
// passingOnly set, only instances whose checks all pass are returned.
func (c *Client) HealthService(ctx context.Context, service, tag string, passingOnly bool, q *QueryOptions) ([]ServiceEntry, *QueryMeta, error) {
	if service == "" {
		return nil, nil, missingParameter("service")
	}
	extra := url.Values{}
	if tag != "" {
		extra.Set("tag", tag)
	}
	if passingOnly {
		extra.Set("passing", "1")
	}
	return get[[]ServiceEntry](ctx, c, "/v1/health/service/"+service, extra, q)
}

// HealthState returns all checks in the given state (HealthAny matches
// every state).
func (c *Client) HealthState(ctx context.Context, state string, q *QueryOptions) ([]HealthCheck, *QueryMeta, error) {
	switch state {
	case HealthAny, HealthPassing, HealthWarning, HealthCritical:
	default:
		return nil, nil, missingParameter("state")
	}
	return get[[]HealthCheck](ctx, c, "/v1/health/state/"+state, nil, q)
}
