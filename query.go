package consul

import (
	"strconv"
	"time"
)

// ConsistencyMode selects the read consistency the control plane applies.
// The zero value inherits the server default (leader read, possibly stale
// during leader transitions).
type ConsistencyMode int

const (
	// ConsistencyDefault sends no consistency parameter.
	ConsistencyDefault ConsistencyMode = iota
	// ConsistencyStale allows any server to answer, trading staleness for
	// availability and scalability.
	ConsistencyStale
	// ConsistencyConsistent forces a leader round trip for a fully
	// consistent read.
	ConsistencyConsistent
)

// defaultWaitTime is the wait duration sent with a blocking query when the
// caller set a wait index but no explicit wait time anywhere.
const defaultWaitTime = 5 * time.Minute

// QueryOptions are caller-supplied parameters for a single read. A nil
// *QueryOptions behaves exactly like a zero-valued one: non-blocking request
// against the client's default datacenter. Options are never mutated by the
// client.
type QueryOptions struct {
	// Datacenter targets a specific datacenter, overriding the client
	// default. Empty inherits.
	Datacenter string

	// WaitIndex turns the read into a blocking query: the server holds the
	// request until its change index for the queried data exceeds this value
	// or the wait time elapses. Zero means no blocking; zero is the control
	// plane's own "no baseline" sentinel, so the wait parameters are omitted
	// entirely rather than sent as a literal 0.
	WaitIndex uint64

	// WaitHash is the content-hash equivalent of WaitIndex for endpoints
	// using hash-based blocking. Empty means unused.
	WaitHash string

	// WaitTime bounds how long the server holds a blocking query. Zero
	// falls back to the client-level wait time, then to a 5 minute default.
	// Only sent when WaitIndex or WaitHash is set.
	WaitTime time.Duration

	// Consistency selects the read consistency mode. Zero value inherits
	// the server default.
	Consistency ConsistencyMode

	// Token overrides the client token for this call. Empty inherits.
	Token string
}

// WriteOptions are caller-supplied parameters for a single write. A nil
// *WriteOptions behaves exactly like a zero-valued one.
type WriteOptions struct {
	// Datacenter targets a specific datacenter, overriding the client
	// default. Empty inherits.
	Datacenter string

	// Token overrides the client token for this call. Empty inherits.
	Token string
}

// QueryMeta is returned alongside every blocking-capable read.
type QueryMeta struct {
	// LastIndex is the server's monotonically non-decreasing change index
	// for the queried data. Feed it back as the next call's WaitIndex to
	// block until newer data exists.
	LastIndex uint64

	// LastContentHash is the content hash for hash-based blocking, when the
	// endpoint provides one.
	LastContentHash string

	// KnownLeader reports whether the answering server had a known cluster
	// leader at response time.
	KnownLeader bool

	// RequestTime is the client-observed round-trip duration.
	RequestTime time.Duration
}

// WriteMeta is returned alongside every write. Writes carry no index
// semantics because they do not support blocking.
type WriteMeta struct {
	// RequestTime is the client-observed round-trip duration.
	RequestTime time.Duration
}

// waitParam renders a wait duration in the control plane's query format.
// Millisecond granularity keeps sub-second waits exact.
func waitParam(d time.Duration) string {
	return strconv.FormatInt(d.Milliseconds(), 10) + "ms"
}
