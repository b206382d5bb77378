package consul

import (
	"context"
	"net/http"
)

// Session behaviors controlling what happens to held locks when the session
// is invalidated.
const (
	SessionBehaviorRelease = "release"
	SessionBehaviorDelete  = "delete"
)

// SessionEntry describes a session. Durations (LockDelay, TTL) use the
// control plane's string form, e.g. "15s".
type SessionEntry struct {
	// ID is assigned by the server on create.
	ID string `json:"ID,omitempty"`
	// Name is a human-readable label.
	Name string `json:"Name,omitempty"`
	// Node is the node the session is bound to; defaults to the agent's.
	Node string `json:"Node,omitempty"`
	// Checks are the health checks whose failure invalidates the session.
	Checks []string `json:"Checks,omitempty"`
	// LockDelay is the lock-acquisition delay after invalidation.
	LockDelay string `json:"LockDelay,omitempty"`
	// Behavior is what happens to held locks on invalidation.
	Behavior string `json:"Behavior,omitempty"`
	// TTL invalidates the session unless renewed within this duration.
	TTL         string `json:"TTL,omitempty"`
	CreateIndex uint64 `json:"CreateIndex,omitempty"`
	ModifyIndex uint64 `json:"ModifyIndex,omitempty"`
}

// sessionCreated is the create response, carrying only the new ID.
type sessionCreated struct {
	ID string `json:"ID"`
}

// SessionCreate initializes a new session and returns its ID. A nil entry
// creates a session with server defaults.
func (c *Client) SessionCreate(ctx context.Context, session *SessionEntry, w *WriteOptions) (string, *WriteMeta, error) {
	out, wm, err := write[sessionCreated](ctx, c, http.MethodPut, "/v1/session/create", session, nil, w)
	if err != nil {
		return "", nil, err
	}
	return out.ID, wm, nil
}

// SessionDestroy invalidates the session by ID. The reference is the path
// itself; the request carries no body.
func (c *Client) SessionDestroy(ctx context.Context, sessionID string, w *WriteOptions) (*WriteMeta, error) {
	if sessionID == "" {
		return nil, missingParameter("session ID")
	}
	_, wm, err := write[bool, struct{}](ctx, c, http.MethodPut, "/v1/session/destroy/"+sessionID, nil, nil, w)
	return wm, err
}

// SessionInfo returns the named session, or nil if it does not exist.
func (c *Client) SessionInfo(ctx context.Context, sessionID string, q *QueryOptions) (*SessionEntry, *QueryMeta, error) {
	if sessionID == "" {
		return nil, nil, missingParameter("session ID")
	}
	entries, meta, err := get[[]SessionEntry](ctx, c, "/v1/session/info/"+sessionID, nil, q)
	if err != nil {
		return nil, nil, err
	}
	if len(entries) == 0 {
		return nil, meta, nil
	}
	return &entries[0], meta, nil
}

// SessionNode returns the active sessions bound to the named node.
func (c *Client) SessionNode(ctx context.Context, node string, q *QueryOptions) ([]SessionEntry, *QueryMeta, error) {
	if node == "" {
		return nil, nil, missingParameter("node")
	}
	return get[[]SessionEntry](ctx, c, "/v1/session/node/"+node, nil, q)
}

// SessionList returns all active sessions in the target datacenter.
func (c *Client) SessionList(ctx context.Context, q *QueryOptions) ([]SessionEntry, *QueryMeta, error) {
	return get[[]SessionEntry](ctx, c, "/v1/session/list", nil, q)
}

// SessionRenew extends a TTL session and returns its refreshed entry.
func (c *Client) SessionRenew(ctx context.Context, sessionID string, w *WriteOptions) (*SessionEntry, *WriteMeta, error) {
	if sessionID == "" {
		return nil, nil, missingParameter("session ID")
	}
	entries, wm, err := write[[]SessionEntry, struct{}](ctx, c, http.MethodPut, "/v1/session/renew/"+sessionID, nil, nil, w)
	if err != nil {
		return nil, nil, err
	}
	if len(entries) == 0 {
		return nil, wm, nil
	}
	return &entries[0], wm, nil
}
