package consul

import (
	"context"
	"net/http"
	"net/url"
)

// ServiceWeights configures how a service instance is weighted during DNS
// and load-balancing resolution.
type ServiceWeights struct {
	Passing uint32 `json:"Passing"`
	Warning uint32 `json:"Warning"`
}

// Node is a node within the cluster gossip pool.
type Node struct {
	// ID is the unique identifier of the node.
	ID string `json:"ID"`
	// Node is the name of the node.
	Node string `json:"Node"`
	// Address is the address of the node.
	Address string `json:"Address"`
	// Datacenter is the datacenter the node belongs to.
	Datacenter string `json:"Datacenter"`
	// TaggedAddresses maps address tags (lan, wan) to addresses.
	TaggedAddresses map[string]string `json:"TaggedAddresses"`
	// Meta is arbitrary node metadata.
	Meta        map[string]string `json:"Meta"`
	CreateIndex uint64            `json:"CreateIndex"`
	ModifyIndex uint64            `json:"ModifyIndex"`
}

// CatalogService is a service instance as recorded in the catalog, flattened
// together with its hosting node.
type CatalogService struct {
	// ID is the ID of the hosting node.
	ID string `json:"ID"`
	// Node is the name of the hosting node.
	Node string `json:"Node"`
	// Address is the address of the hosting node.
	Address string `json:"Address"`
	// Datacenter is the datacenter of the hosting node.
	Datacenter string `json:"Datacenter"`
	// TaggedAddresses maps address tags of the hosting node.
	TaggedAddresses map[string]string `json:"TaggedAddresses"`
	// NodeMeta is metadata attached to the hosting node.
	NodeMeta map[string]string `json:"NodeMeta"`
	// ServiceID is the unique ID of this service instance.
	ServiceID string `json:"ServiceID"`
	// ServiceName is the logical name of the service.
	ServiceName string `json:"ServiceName"`
	// ServiceAddress is the instance address, empty to inherit the node's.
	ServiceAddress string `json:"ServiceAddress"`
	// ServiceTags are the tags assigned to the instance.
	ServiceTags []string `json:"ServiceTags"`
	// ServiceMeta is metadata assigned to the instance.
	ServiceMeta map[string]string `json:"ServiceMeta"`
	// ServicePort is the instance port.
	ServicePort              uint32         `json:"ServicePort"`
	ServiceWeights           ServiceWeights `json:"ServiceWeights"`
	ServiceEnableTagOverride bool           `json:"ServiceEnableTagOverride"`
	CreateIndex              uint64         `json:"CreateIndex"`
	ModifyIndex              uint64         `json:"ModifyIndex"`
}

// CatalogNode is a node together with its registered services.
type CatalogNode struct {
	Node     *Node                   `json:"Node"`
	Services map[string]AgentService `json:"Services"`
}

// CatalogRegistration is the payload for a low-level catalog registration.
type CatalogRegistration struct {
	ID              string            `json:"ID,omitempty"`
	Node            string            `json:"Node"`
	Address         string            `json:"Address"`
	Datacenter      string            `json:"Datacenter,omitempty"`
	TaggedAddresses map[string]string `json:"TaggedAddresses,omitempty"`
	NodeMeta        map[string]string `json:"NodeMeta,omitempty"`
	Service         *AgentService     `json:"Service,omitempty"`
	Check           *AgentCheck       `json:"Check,omitempty"`
	SkipNodeUpdate  bool              `json:"SkipNodeUpdate,omitempty"`
}

// CatalogDeregistration is the payload for a low-level catalog removal. Only
// Node is required; naming a ServiceID or CheckID narrows the removal to
// that entry.
type CatalogDeregistration struct {
	Node       string `json:"Node"`
	Address    string `json:"Address,omitempty"`
	Datacenter string `json:"Datacenter,omitempty"`
	ServiceID  string `json:"ServiceID,omitempty"`
	CheckID    string `json:"CheckID,omitempty"`
}

// CatalogRegister is a low-level mechanism for registering or updating
// entries in the catalog. It is usually preferable to use the agent service
// registration endpoints instead, as they are simpler and perform
// anti-entropy.
func (c *Client) CatalogRegister(ctx context.Context, reg *CatalogRegistration, w *WriteOptions) (*WriteMeta, error) {
	_, wm, err := write[struct{}](ctx, c, http.MethodPut, "/v1/catalog/register", reg, nil, w)
	return wm, err
}

// CatalogDeregister is a low-level mechanism for directly removing entries
// from the catalog. It is usually preferable to use the agent deregistration
// endpoints instead, as they are simpler and perform anti-entropy.
func (c *Client) CatalogDeregister(ctx context.Context, dereg *CatalogDeregistration, w *WriteOptions) (*WriteMeta, error) {
	_, wm, err := write[struct{}](ctx, c, http.MethodPut, "/v1/catalog/deregister", dereg, nil, w)
	return wm, err
}

// Datacenters returns all known datacenters, sorted by the server in
// ascending order of estimated median round-trip time. The client performs
// no reordering.
func (c *Client) Datacenters(ctx context.Context) ([]string, *QueryMeta, error) {
	return get[[]string](ctx, c, "/v1/catalog/datacenters", nil, nil)
}

// Nodes returns the nodes registered in the target datacenter.
func (c *Client) Nodes(ctx context.Context, q *QueryOptions) ([]Node, *QueryMeta, error) {
	return get[[]Node](ctx, c, "/v1/catalog/nodes", nil, q)
}

// Services returns the service names registered in the target datacenter,
// mapped to their known tags.
func (c *Client) Services(ctx context.Context, q *QueryOptions) (map[string][]string, *QueryMeta, error) {
	return get[map[string][]string](ctx, c, "/v1/catalog/services", nil, q)
}

// Service returns the instances of the named service. A non-empty tag
// restricts the result to instances carrying it.
func (c *Client) Service(ctx context.Context, service, tag string, q *QueryOptions) ([]CatalogService, *QueryMeta, error) {
	if service == "" {
		return nil, nil, missingParameter("service")
	}
	var extra url.Values
	if tag != "" {
		extra = url.Values{"tag": []string{tag}}
	}
	return get[[]CatalogService](ctx, c, "/v1/catalog/service/"+service, extra, q)
}

// Node returns the named node and the services registered on it. A nil
// CatalogNode.Node means the node does not exist.
func (c *Client) Node(ctx context.Context, node string, q *QueryOptions) (*CatalogNode, *QueryMeta, error) {
	if node == "" {
		return nil, nil, missingParameter("node")
	}
	return get[*CatalogNode](ctx, c, "/v1/catalog/node/"+node, nil, q)
}
