package consul

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// KVPair is a single entry in the KV store. Value travels base64-encoded on
// the wire; encoding/json handles the conversion for []byte.
type KVPair struct {
	// Key is the full path of the entry.
	Key string `json:"Key"`
	// Value is the raw payload.
	Value []byte `json:"Value"`
	// Flags is an opaque uint64 attached by the caller.
	Flags uint64 `json:"Flags"`
	// Session is the session currently holding the lock, if any.
	Session     string `json:"Session"`
	CreateIndex uint64 `json:"CreateIndex"`
	ModifyIndex uint64 `json:"ModifyIndex"`
	// LockIndex counts successful lock acquisitions on the entry.
	LockIndex uint64 `json:"LockIndex"`
}

// validateKey rejects keys that cannot address an entry. Checked before any
// network I/O so a doomed request never leaves the client.
func validateKey(key string) error {
	if strings.Trim(key, "/") == "" {
		return ErrEmptyKey
	}
	return nil
}

// KVGet returns the entry at key. A 404 from the server (missing key) is
// surfaced as a RequestFailed error; use IsRequestFailed to branch on it.
func (c *Client) KVGet(ctx context.Context, key string, q *QueryOptions) (*KVPair, *QueryMeta, error) {
	if err := validateKey(key); err != nil {
		return nil, nil, err
	}
	pairs, meta, err := get[[]KVPair](ctx, c, "/v1/kv/"+strings.TrimPrefix(key, "/"), nil, q)
	if err != nil {
		return nil, nil, err
	}
	if len(pairs) == 0 {
		return nil, meta, nil
	}
	return &pairs[0], meta, nil
}

// KVList returns all entries under prefix.
func (c *Client) KVList(ctx context.Context, prefix string, q *QueryOptions) ([]KVPair, *QueryMeta, error) {
	if err := validateKey(prefix); err != nil {
		return nil, nil, err
	}
	extra := url.Values{"recurse": []string{""}}
	return get[[]KVPair](ctx, c, "/v1/kv/"+strings.TrimPrefix(prefix, "/"), extra, q)
}

// KVKeys returns the key names under prefix. A non-empty separator collapses
// keys sharing a segment after the prefix, directory-listing style.
func (c *Client) KVKeys(ctx context.Context, prefix, separator string, q *QueryOptions) ([]string, *QueryMeta, error) {
	if err := validateKey(prefix); err != nil {
		return nil, nil, err
	}
	extra := url.Values{"keys": []string{""}}
	if separator != "" {
		extra.Set("separator", separator)
	}
	return get[[]string](ctx, c, "/v1/kv/"+strings.TrimPrefix(prefix, "/"), extra, q)
}

// KVPut stores the pair unconditionally. The server answers true when the
// write was applied.
func (c *Client) KVPut(ctx context.Context, pair *KVPair, w *WriteOptions) (bool, *WriteMeta, error) {
	return c.kvPut(ctx, pair, nil, w)
}

// KVCAS stores the pair only if its ModifyIndex still matches the server's
// (check-and-set). A ModifyIndex of 0 means "only create". The server
// answers false when the index moved underneath the caller.
func (c *Client) KVCAS(ctx context.Context, pair *KVPair, w *WriteOptions) (bool, *WriteMeta, error) {
	extra := url.Values{"cas": []string{strconv.FormatUint(pair.ModifyIndex, 10)}}
	return c.kvPut(ctx, pair, extra, w)
}

// KVAcquire stores the pair and acquires the lock for pair.Session. The
// server answers false when another session holds the lock.
func (c *Client) KVAcquire(ctx context.Context, pair *KVPair, w *WriteOptions) (bool, *WriteMeta, error) {
	if pair.Session == "" {
		return false, nil, missingParameter("session")
	}
	extra := url.Values{"acquire": []string{pair.Session}}
	return c.kvPut(ctx, pair, extra, w)
}

// KVRelease stores the pair and releases the lock held by pair.Session.
func (c *Client) KVRelease(ctx context.Context, pair *KVPair, w *WriteOptions) (bool, *WriteMeta, error) {
	if pair.Session == "" {
		return false, nil, missingParameter("session")
	}
	extra := url.Values{"release": []string{pair.Session}}
	return c.kvPut(ctx, pair, extra, w)
}

func (c *Client) kvPut(ctx context.Context, pair *KVPair, extra url.Values, w *WriteOptions) (bool, *WriteMeta, error) {
	if pair == nil {
		return false, nil, missingParameter("pair")
	}
	if err := validateKey(pair.Key); err != nil {
		return false, nil, err
	}
	if pair.Flags != 0 {
		if extra == nil {
			extra = url.Values{}
		}
		extra.Set("flags", strconv.FormatUint(pair.Flags, 10))
	}
	// The raw value is the request body; KV puts are the one endpoint family
	// whose body is not JSON.
	ok, wm, err := writeRaw[bool](ctx, c, http.MethodPut, "/v1/kv/"+strings.TrimPrefix(pair.Key, "/"), pair.Value, extra, w)
	if err != nil {
		return false, nil, err
	}
	return ok, wm, nil
}

// KVDelete removes the entry at key. Deleting a missing key still succeeds.
func (c *Client) KVDelete(ctx context.Context, key string, w *WriteOptions) (bool, *WriteMeta, error) {
	if err := validateKey(key); err != nil {
		return false, nil, err
	}
	ok, wm, err := write[bool, struct{}](ctx, c, http.MethodDelete, "/v1/kv/"+strings.TrimPrefix(key, "/"), nil, nil, w)
	if err != nil {
		return false, nil, err
	}
	return ok, wm, nil
}

// KVDeleteTree removes all entries under prefix.
func (c *Client) KVDeleteTree(ctx context.Context, prefix string, w *WriteOptions) (bool, *WriteMeta, error) {
	if err := validateKey(prefix); err != nil {
		return false, nil, err
	}
	extra := url.Values{"recurse": []string{""}}
	ok, wm, err := write[bool, struct{}](ctx, c, http.MethodDelete, "/v1/kv/"+strings.TrimPrefix(prefix, "/"), nil, extra, w)
	if err != nil {
		return false, nil, err
	}
	return ok, wm, nil
}
