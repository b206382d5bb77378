package consul

import (
	"context"
	"net/http"
	"net/url"
)

// AgentService is a service as known to the local agent.
type AgentService struct {
	// ID is the unique ID of the service instance.
	ID string `json:"ID"`
	// Service is the logical name of the service.
	Service string `json:"Service"`
	// Tags are the tags assigned to the instance.
	Tags []string `json:"Tags"`
	// Meta is metadata assigned to the instance.
	Meta map[string]string `json:"Meta"`
	// Port is the instance port.
	Port uint32 `json:"Port"`
	// Address is the instance address, empty to inherit the node's.
	Address           string         `json:"Address"`
	Weights           ServiceWeights `json:"Weights"`
	EnableTagOverride bool           `json:"EnableTagOverride"`
	CreateIndex       uint64         `json:"CreateIndex"`
	ModifyIndex       uint64         `json:"ModifyIndex"`
}

// AgentCheck is a health check as known to the local agent.
type AgentCheck struct {
	Node        string `json:"Node"`
	CheckID     string `json:"CheckID"`
	Name        string `json:"Name"`
	Status      string `json:"Status"`
	Notes       string `json:"Notes"`
	Output      string `json:"Output"`
	ServiceID   string `json:"ServiceID"`
	ServiceName string `json:"ServiceName"`
}

// AgentMember is a member of the agent's gossip pool.
type AgentMember struct {
	Name        string            `json:"Name"`
	Addr        string            `json:"Addr"`
	Port        uint16            `json:"Port"`
	Tags        map[string]string `json:"Tags"`
	Status      int               `json:"Status"`
	ProtocolMin uint8             `json:"ProtocolMin"`
	ProtocolMax uint8             `json:"ProtocolMax"`
	ProtocolCur uint8             `json:"ProtocolCur"`
	DelegateMin uint8             `json:"DelegateMin"`
	DelegateMax uint8             `json:"DelegateMax"`
	DelegateCur uint8             `json:"DelegateCur"`
}

// AgentServiceCheck is the check definition attached to a service
// registration.
type AgentServiceCheck struct {
	HTTP                           string `json:"HTTP,omitempty"`
	TCP                            string `json:"TCP,omitempty"`
	Interval                       string `json:"Interval,omitempty"`
	Timeout                        string `json:"Timeout,omitempty"`
	TTL                            string `json:"TTL,omitempty"`
	Status                         string `json:"Status,omitempty"`
	DeregisterCriticalServiceAfter string `json:"DeregisterCriticalServiceAfter,omitempty"`
}

// AgentServiceRegistration is the payload for registering a service with the
// local agent. The agent keeps it synced with the catalog via anti-entropy.
type AgentServiceRegistration struct {
	ID                string             `json:"ID,omitempty"`
	Name              string             `json:"Name"`
	Tags              []string           `json:"Tags,omitempty"`
	Port              uint32             `json:"Port,omitempty"`
	Address           string             `json:"Address,omitempty"`
	Meta              map[string]string  `json:"Meta,omitempty"`
	Weights           *ServiceWeights    `json:"Weights,omitempty"`
	EnableTagOverride bool               `json:"EnableTagOverride,omitempty"`
	Check             *AgentServiceCheck `json:"Check,omitempty"`
}

// AgentCheckRegistration is the payload for registering a standalone check
// with the local agent.
type AgentCheckRegistration struct {
	ID        string `json:"ID,omitempty"`
	Name      string `json:"Name"`
	Notes     string `json:"Notes,omitempty"`
	ServiceID string `json:"ServiceID,omitempty"`
	AgentServiceCheck
}

// Agent endpoints are node-local: they answer from the queried agent's own
// state, carry no change-index headers and take no query options.

// AgentMembers returns the members the agent sees in the gossip pool. With
// wan set, the list covers the WAN pool instead of the LAN pool.
func (c *Client) AgentMembers(ctx context.Context, wan bool) ([]AgentMember, error) {
	var extra url.Values
	if wan {
		extra = url.Values{"wan": []string{"1"}}
	}
	return getPlain[[]AgentMember](ctx, c, "/v1/agent/members", extra)
}

// AgentSelf returns the agent's own configuration and runtime state, grouped
// by section.
func (c *Client) AgentSelf(ctx context.Context) (map[string]map[string]interface{}, error) {
	return getPlain[map[string]map[string]interface{}](ctx, c, "/v1/agent/self", nil)
}

// AgentServices returns the services registered with the local agent, keyed
// by service ID.
func (c *Client) AgentServices(ctx context.Context) (map[string]AgentService, error) {
	return getPlain[map[string]AgentService](ctx, c, "/v1/agent/services", nil)
}

// AgentChecks returns the checks registered with the local agent, keyed by
// check ID.
func (c *Client) AgentChecks(ctx context.Context) (map[string]AgentCheck, error) {
	return getPlain[map[string]AgentCheck](ctx, c, "/v1/agent/checks", nil)
}

// AgentServiceRegister registers a service with the local agent.
func (c *Client) AgentServiceRegister(ctx context.Context, reg *AgentServiceRegistration) (*WriteMeta, error) {
	if reg == nil || reg.Name == "" {
		return nil, missingParameter("service name")
	}
	_, wm, err := write[struct{}](ctx, c, http.MethodPut, "/v1/agent/service/register", reg, nil, nil)
	return wm, err
}

// AgentServiceDeregister removes a service from the local agent by ID. The
// request carries no body; the reference is the path itself.
func (c *Client) AgentServiceDeregister(ctx context.Context, serviceID string) (*WriteMeta, error) {
	if serviceID == "" {
		return nil, missingParameter("service ID")
	}
	_, wm, err := write[struct{}, struct{}](ctx, c, http.MethodPut, "/v1/agent/service/deregister/"+serviceID, nil, nil, nil)
	return wm, err
}

// AgentCheckRegister registers a standalone check with the local agent.
func (c *Client) AgentCheckRegister(ctx context.Context, reg *AgentCheckRegistration) (*WriteMeta, error) {
	if reg == nil || reg.Name == "" {
		return nil, missingParameter("check name")
	}
	_, wm, err := write[struct{}](ctx, c, http.MethodPut, "/v1/agent/check/register", reg, nil, nil)
	return wm, err
}

// AgentCheckDeregister removes a check from the local agent by ID.
func (c *Client) AgentCheckDeregister(ctx context.Context, checkID string) (*WriteMeta, error) {
	if checkID == "" {
		return nil, missingParameter("check ID")
	}
	_, wm, err := write[struct{}, struct{}](ctx, c, http.MethodPut, "/v1/agent/check/deregister/"+checkID, nil, nil, nil)
	return wm, err
}
