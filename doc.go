// Package consul is a typed client for the HTTP API of a Consul-compatible
// service-mesh control plane:
//
//   - Service catalog (register / deregister / topology queries)
//   - Health checks
//   - KV store
//   - Sessions
//   - Agent membership and local registration
//   - Connect CA / intention metadata
//
// Every operation funnels through a single generic dispatcher implementing
// the control plane's blocking-query protocol: structured QueryOptions /
// WriteOptions are translated into query parameters and headers, and the
// response headers are decoded into a QueryMeta carrying the monotonic change
// index, leader-known flag and round-trip time. Feeding QueryMeta.LastIndex
// back as the next call's WaitIndex turns any read into a long poll that
// returns only when the data has changed (or the wait duration elapses).
//
// Design goals:
//   - Thin and predictable - no retries, no caching, no background tasks;
//     every call is one independent HTTP round trip and every failure is a
//     typed error returned to the caller
//   - Small surface area - functional options configure everything
//   - Safe concurrent use of a single *Client instance
//   - Extensibility via user supplied middleware, pluggable logger & metrics
//
// Typical usage:
//
//	client := consul.New(
//	    consul.WithAddress("http://127.0.0.1:8500"),
//	    consul.WithDatacenter("dc1"),
//	)
//	nodes, meta, err := client.Nodes(ctx, nil)
//
// A watch loop is the caller's composition of the index contract:
//
//	opts := &consul.QueryOptions{}
//	for {
//	    nodes, meta, err := client.Nodes(ctx, opts)
//	    if err != nil {
//	        return err // resilience policy belongs to the application
//	    }
//	    handle(nodes)
//	    opts.WaitIndex = meta.LastIndex
//	}
//
// When long polling, keep the transport timeout above the requested wait
// duration, otherwise a legitimate poll is indistinguishable from a hung
// connection. Client validation checks this for the configured defaults.
package consul
