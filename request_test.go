package consul

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, serverURL string, options ...Option) *Client {
	t.Helper()
	client := New(append([]Option{WithAddress(serverURL)}, options...)...)
	require.NoError(t, client.ValidationError())
	return client
}

// indexedHandler wraps a handler, stamping the blocking-query headers every
// read needs.
func indexedHandler(index string, fn http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Consul-Index", index)
		w.Header().Set("X-Consul-Knownleader", "true")
		fn(w, r)
	}
}

func TestDatacenterPrecedence(t *testing.T) {
	var gotDC string
	server := httptest.NewServer(indexedHandler("1", func(w http.ResponseWriter, r *http.Request) {
		gotDC = r.URL.Query().Get("dc")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithDatacenter("dc-default"))

	_, _, err := client.Nodes(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, "dc-default", gotDC)

	_, _, err = client.Nodes(context.Background(), &QueryOptions{Datacenter: "dc-override"})
	require.NoError(t, err)
	require.Equal(t, "dc-override", gotDC)
}

func TestWaitIndexZeroEqualsAbsent(t *testing.T) {
	client := New()

	absent := client.queryValues(nil, &QueryOptions{})
	zero := client.queryValues(nil, &QueryOptions{WaitIndex: 0})

	require.Equal(t, absent.Encode(), zero.Encode())
	require.False(t, zero.Has("index"))
	require.False(t, zero.Has("wait"))
}

func TestWaitIndexSendsWaitPair(t *testing.T) {
	client := New()

	values := client.queryValues(nil, &QueryOptions{WaitIndex: 42})
	require.Equal(t, "42", values.Get("index"))
	require.Equal(t, "300000ms", values.Get("wait")) // 5 minute sentinel

	values = client.queryValues(nil, &QueryOptions{WaitIndex: 42, WaitTime: 10 * time.Second})
	require.Equal(t, "10000ms", values.Get("wait"))

	clientWait := New(WithWaitTime(30 * time.Second))
	values = clientWait.queryValues(nil, &QueryOptions{WaitIndex: 42})
	require.Equal(t, "30000ms", values.Get("wait"))

	// Per-call wait time still beats the client default.
	values = clientWait.queryValues(nil, &QueryOptions{WaitIndex: 42, WaitTime: time.Second})
	require.Equal(t, "1000ms", values.Get("wait"))
}

func TestWaitHashBlocking(t *testing.T) {
	client := New()

	values := client.queryValues(nil, &QueryOptions{WaitHash: "abc123"})
	require.Equal(t, "abc123", values.Get("hash"))
	require.True(t, values.Has("wait"))
	require.False(t, values.Has("index"))
}

func TestConsistencyModes(t *testing.T) {
	client := New()

	require.False(t, client.queryValues(nil, &QueryOptions{}).Has("stale"))
	require.True(t, client.queryValues(nil, &QueryOptions{Consistency: ConsistencyStale}).Has("stale"))
	require.True(t, client.queryValues(nil, &QueryOptions{Consistency: ConsistencyConsistent}).Has("consistent"))
}

func TestExtraParamsPreserved(t *testing.T) {
	client := New(WithDatacenter("dc1"))

	extra := url.Values{"tag": []string{"primary"}}
	values := client.queryValues(extra, &QueryOptions{})
	require.Equal(t, "primary", values.Get("tag"))
	require.Equal(t, "dc1", values.Get("dc"))
	// The caller's url.Values must not be mutated.
	require.False(t, extra.Has("dc"))
}

func TestTokenTravelsAsHeaderOnly(t *testing.T) {
	var gotHeader, gotQuery string
	server := httptest.NewServer(indexedHandler("1", func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Consul-Token")
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithToken("default-token"))

	_, _, err := client.Nodes(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, "default-token", gotHeader)
	require.NotContains(t, gotQuery, "token")

	_, _, err = client.Nodes(context.Background(), &QueryOptions{Token: "override-token"})
	require.NoError(t, err)
	require.Equal(t, "override-token", gotHeader)
}

func TestNon2xxIsRequestFailedWithoutDecode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Consul-Index", "99")
		w.WriteHeader(http.StatusInternalServerError)
		// Valid JSON in the error body must still not be decoded.
		w.Write([]byte(`["dc1","dc2"]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	dcs, meta, err := client.Datacenters(context.Background())
	require.Error(t, err)
	require.Nil(t, dcs)
	require.Nil(t, meta)

	status, ok := IsRequestFailed(err)
	require.True(t, ok)
	require.Equal(t, http.StatusInternalServerError, status)
}

func TestMissingIndexHeaderIsDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["dc1"]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, meta, err := client.Datacenters(context.Background())
	require.Error(t, err)
	require.Nil(t, meta)
	require.ErrorIs(t, err, &ClientError{Type: ErrorTypeDecode})
}

func TestUnparseableIndexHeaderIsDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Consul-Index", "not-a-number")
		w.Write([]byte(`["dc1"]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, _, err := client.Datacenters(context.Background())
	require.ErrorIs(t, err, &ClientError{Type: ErrorTypeDecode})
}

func TestQueryMetaHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Consul-Index", "1234")
		w.Header().Set("X-Consul-Knownleader", "true")
		w.Header().Set("X-Consul-Lastcontenthash", "deadbeef")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, meta, err := client.Nodes(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, uint64(1234), meta.LastIndex)
	require.True(t, meta.KnownLeader)
	require.Equal(t, "deadbeef", meta.LastContentHash)
	require.Greater(t, meta.RequestTime, time.Duration(0))
}

func TestKnownLeaderAbsentMeansFalse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Consul-Index", "7")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	_, meta, err := client.Nodes(context.Background(), nil)
	require.NoError(t, err)
	require.False(t, meta.KnownLeader)
}

func TestEmptyBodyDecodesToZeroValue(t *testing.T) {
	server := httptest.NewServer(indexedHandler("5", func(w http.ResponseWriter, r *http.Request) {
		// 200 with an empty body.
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	dcs, meta, err := client.Datacenters(context.Background())
	require.NoError(t, err)
	require.Empty(t, dcs)
	require.Equal(t, uint64(5), meta.LastIndex)
}

func TestUnknownFieldsIgnored(t *testing.T) {
	server := httptest.NewServer(indexedHandler("3", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"Node":"n1","Address":"10.0.0.1","FutureField":{"nested":true}}]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	nodes, _, err := client.Nodes(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	require.Equal(t, "n1", nodes[0].Node)
	require.Equal(t, "10.0.0.1", nodes[0].Address)
}

func TestIndexMonotonicAcrossReads(t *testing.T) {
	server := httptest.NewServer(indexedHandler("42", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	var last uint64
	for i := 0; i < 5; i++ {
		_, meta, err := client.Nodes(context.Background(), &QueryOptions{WaitIndex: last})
		require.NoError(t, err)
		require.GreaterOrEqual(t, meta.LastIndex, last)
		last = meta.LastIndex
	}
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1") // nothing listens here

	_, _, err := client.Datacenters(context.Background())
	require.Error(t, err)
	require.ErrorIs(t, err, &ClientError{Type: ErrorTypeNetwork})
}

func TestContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, _, err := client.Datacenters(ctx)
	require.ErrorIs(t, err, &ClientError{Type: ErrorTypeNetwork})
}

func TestMiddlewareRunsAtDispatch(t *testing.T) {
	var gotMarker string
	server := httptest.NewServer(indexedHandler("1", func(w http.ResponseWriter, r *http.Request) {
		gotMarker = r.Header.Get("X-Test-Marker")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, WithMiddleware(func(req *http.Request, next RoundTripper) (*http.Response, error) {
		req.Header.Set("X-Test-Marker", "seen")
		return next.RoundTrip(req)
	}))

	_, _, err := client.Nodes(context.Background(), nil)
	require.NoError(t, err)
	require.Equal(t, "seen", gotMarker)
}

func TestInvalidConfigurationShortCircuits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not reach the network with an invalid configuration")
	}))
	defer server.Close()

	client := New(WithAddress(server.URL), WithHTTPClient(nil))
	require.Error(t, client.ValidationError())

	_, _, err := client.Datacenters(context.Background())
	require.ErrorIs(t, err, &ClientError{Type: ErrorTypeValidation})
}
