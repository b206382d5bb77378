package consul

import (
	"context"
	"net/http"
	"net/url"
)

// Intention actions.
const (
	IntentionActionAllow = "allow"
	IntentionActionDeny  = "deny"
)

// CARoot is one certificate-authority root trusted by the mesh.
type CARoot struct {
	// ID is the root identifier.
	ID string `json:"ID"`
	// Name is a human-readable label.
	Name string `json:"Name"`
	// RootCert is the PEM-encoded root certificate.
	RootCert string `json:"RootCert"`
	// Active reports whether this root signs new certificates.
	Active      bool   `json:"Active"`
	CreateIndex uint64 `json:"CreateIndex"`
	ModifyIndex uint64 `json:"ModifyIndex"`
}

// CARootList is the connect CA roots response.
type CARootList struct {
	// ActiveRootID names the root currently signing certificates.
	ActiveRootID string `json:"ActiveRootID"`
	// TrustDomain is the SPIFFE trust domain of the cluster.
	TrustDomain string   `json:"TrustDomain"`
	Roots       []CARoot `json:"Roots"`
}

// Intention is a source-to-destination connect authorization rule.
type Intention struct {
	ID              string `json:"ID,omitempty"`
	Description     string `json:"Description,omitempty"`
	SourceName      string `json:"SourceName"`
	DestinationName string `json:"DestinationName"`
	// Action is allow or deny.
	Action      string `json:"Action"`
	Precedence  int    `json:"Precedence,omitempty"`
	CreateIndex uint64 `json:"CreateIndex,omitempty"`
	ModifyIndex uint64 `json:"ModifyIndex,omitempty"`
}

// ConnectCARoots returns the trusted CA roots of the mesh.
func (c *Client) ConnectCARoots(ctx context.Context, q *QueryOptions) (*CARootList, *QueryMeta, error) {
	return get[*CARootList](ctx, c, "/v1/connect/ca/roots", nil, q)
}

// Intentions returns all connect intentions.
func (c *Client) Intentions(ctx context.Context, q *QueryOptions) ([]Intention, *QueryMeta, error) {
	return get[[]Intention](ctx, c, "/v1/connect/intentions", nil, q)
}

// IntentionUpsert creates or replaces the intention for the exact
// source/destination pair named in the payload. The server answers true when
// the write was applied.
func (c *Client) IntentionUpsert(ctx context.Context, intention *Intention, w *WriteOptions) (bool, *WriteMeta, error) {
	if intention == nil || intention.SourceName == "" || intention.DestinationName == "" {
		return false, nil, missingParameter("source and destination")
	}
	extra := url.Values{
		"source":      []string{intention.SourceName},
		"destination": []string{intention.DestinationName},
	}
	ok, wm, err := write[bool](ctx, c, http.MethodPut, "/v1/connect/intentions/exact", intention, extra, w)
	if err != nil {
		return false, nil, err
	}
	return ok, wm, nil
}
