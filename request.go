package consul

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Response headers forming the blocking-query contract with the control
// plane.
const (
	indexHeader       = "X-Consul-Index"
	knownLeaderHeader = "X-Consul-Knownleader"
	contentHashHeader = "X-Consul-Lastcontenthash"
	tokenHeader       = "X-Consul-Token"
)

// callInfo carries per-call context between the dispatch step and error /
// meta construction.
type callInfo struct {
	requestID string
	method    string
	url       string
	endpoint  string
	elapsed   time.Duration
}

// get issues a blocking-capable read of path and decodes the body into T
// together with the index metadata from the response headers. This is one of
// the two dispatcher entry points every resource operation passes through;
// it never retries and shares no state with concurrent calls.
func get[T any](ctx context.Context, c *Client, path string, extra url.Values, q *QueryOptions) (T, *QueryMeta, error) {
	var zero T
	if c.validationError != nil {
		return zero, nil, c.validationError
	}
	if q == nil {
		q = &QueryOptions{}
	}

	values := c.queryValues(extra, q)
	token := q.Token
	if token == "" {
		token = c.config.Token
	}
	blocking := q.WaitIndex > 0 || q.WaitHash != ""

	resp, info, err := c.do(ctx, http.MethodGet, path, values, token, nil, "", blocking)
	if err != nil {
		return zero, nil, err
	}
	defer resp.Body.Close()

	meta, err := c.parseQueryMeta(resp, info)
	if err != nil {
		return zero, nil, err
	}
	c.metrics.RecordLastIndex(info.endpoint, meta.LastIndex)

	out, err := decodeBody[T](c, resp, info)
	if err != nil {
		return zero, nil, err
	}
	return out, meta, nil
}

// getPlain issues a read of an endpoint without index semantics (agent-local
// endpoints). No QueryMeta is produced, so the strict index-header rule of
// get does not apply where the control plane never sends the header.
func getPlain[T any](ctx context.Context, c *Client, path string, extra url.Values) (T, error) {
	var zero T
	if c.validationError != nil {
		return zero, c.validationError
	}

	values := url.Values{}
	mergeValues(values, extra)

	resp, info, err := c.do(ctx, http.MethodGet, path, values, c.config.Token, nil, "", false)
	if err != nil {
		return zero, err
	}
	defer resp.Body.Close()

	return decodeBody[T](c, resp, info)
}

// write issues a state-changing call (PUT or DELETE) with an optional JSON
// payload, decoding the 2xx body into T. A nil body sends an empty request
// body, which is valid for deregistration-by-reference style endpoints. This
// is the second dispatcher entry point.
func write[T any, B any](ctx context.Context, c *Client, method, path string, body *B, extra url.Values, w *WriteOptions) (T, *WriteMeta, error) {
	var zero T
	if c.validationError != nil {
		return zero, nil, c.validationError
	}
	if w == nil {
		w = &WriteOptions{}
	}

	values := url.Values{}
	mergeValues(values, extra)
	dc := w.Datacenter
	if dc == "" {
		dc = c.config.Datacenter
	}
	if dc != "" {
		values.Set("dc", dc)
	}
	token := w.Token
	if token == "" {
		token = c.config.Token
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return zero, nil, &ClientError{
				Type:      ErrorTypeDecode,
				Message:   "failed to encode request body",
				Cause:     err,
				Method:    method,
				Endpoint:  endpointLabel(path),
				Timestamp: time.Now(),
			}
		}
		reader = bytes.NewReader(buf)
	}

	resp, info, err := c.do(ctx, method, path, values, token, reader, "application/json", false)
	if err != nil {
		return zero, nil, err
	}
	defer resp.Body.Close()

	out, err := decodeBody[T](c, resp, info)
	if err != nil {
		return zero, nil, err
	}
	return out, &WriteMeta{RequestTime: info.elapsed}, nil
}

// writeRaw is write for the endpoints whose request body is an opaque byte
// payload rather than JSON (KV puts).
func writeRaw[T any](ctx context.Context, c *Client, method, path string, body []byte, extra url.Values, w *WriteOptions) (T, *WriteMeta, error) {
	var zero T
	if c.validationError != nil {
		return zero, nil, c.validationError
	}
	if w == nil {
		w = &WriteOptions{}
	}

	values := url.Values{}
	mergeValues(values, extra)
	dc := w.Datacenter
	if dc == "" {
		dc = c.config.Datacenter
	}
	if dc != "" {
		values.Set("dc", dc)
	}
	token := w.Token
	if token == "" {
		token = c.config.Token
	}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}

	resp, info, err := c.do(ctx, method, path, values, token, reader, "application/octet-stream", false)
	if err != nil {
		return zero, nil, err
	}
	defer resp.Body.Close()

	out, err := decodeBody[T](c, resp, info)
	if err != nil {
		return zero, nil, err
	}
	return out, &WriteMeta{RequestTime: info.elapsed}, nil
}

// queryValues renders read parameters with the documented precedence: fixed
// extra params from the resource method, then datacenter (per-call override
// beats the client default), then consistency mode, then the wait pair. A
// wait index of zero is the control plane's "no baseline" sentinel and is
// treated identically to absence: the wait parameters are omitted entirely.
func (c *Client) queryValues(extra url.Values, q *QueryOptions) url.Values {
	values := url.Values{}
	mergeValues(values, extra)

	dc := q.Datacenter
	if dc == "" {
		dc = c.config.Datacenter
	}
	if dc != "" {
		values.Set("dc", dc)
	}

	switch q.Consistency {
	case ConsistencyStale:
		values.Set("stale", "")
	case ConsistencyConsistent:
		values.Set("consistent", "")
	}

	if q.WaitIndex > 0 {
		values.Set("index", strconv.FormatUint(q.WaitIndex, 10))
	}
	if q.WaitHash != "" {
		values.Set("hash", q.WaitHash)
	}
	if q.WaitIndex > 0 || q.WaitHash != "" {
		wait := q.WaitTime
		if wait == 0 {
			wait = c.config.WaitTime
		}
		if wait == 0 {
			wait = defaultWaitTime
		}
		values.Set("wait", waitParam(wait))
	}

	return values
}

func mergeValues(dst, src url.Values) {
	for key, vals := range src {
		for _, v := range vals {
			dst.Add(key, v)
		}
	}
}

// do builds and issues the HTTP request. The token travels as a header, not
// a URL parameter, so it cannot leak through logs or proxies. A non-2xx
// status is surfaced as a RequestFailed error carrying the literal code; the
// response body is not decoded because error-body schemas are not guaranteed
// to match the success schema.
func (c *Client) do(ctx context.Context, method, path string, values url.Values, token string, body io.Reader, contentType string, blocking bool) (*http.Response, callInfo, error) {
	info := callInfo{method: method, endpoint: endpointLabel(path)}
	if c.debug != nil && c.debug.Enabled && c.debug.RequestIDGen != nil {
		info.requestID = c.debug.RequestIDGen()
	}

	rawURL := strings.TrimSuffix(c.config.Address, "/") + path
	if encoded := values.Encode(); encoded != "" {
		rawURL += "?" + encoded
	}
	info.url = rawURL

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, info, c.newError(ErrorTypeValidation, info, "invalid request", err, 0)
	}
	if token != "" {
		req.Header.Set(tokenHeader, token)
	}
	if body != nil && contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	if c.debug != nil && c.debug.Enabled && c.debug.LogRequests && c.logger != nil {
		c.logger.Debug("starting request",
			"requestID", info.requestID, "method", method, "url", rawURL, "blocking", blocking)
	}

	c.metrics.RecordRequestStart(method, info.endpoint)
	if blocking {
		c.metrics.RecordBlockingQuery(info.endpoint)
	}

	start := time.Now()
	resp, err := c.roundTrip(req)
	info.elapsed = time.Since(start)
	c.metrics.RecordRequestEnd(method, info.endpoint)

	if err != nil {
		c.metrics.RecordRequest(method, info.endpoint, 0, info.elapsed)
		return nil, info, c.newError(ErrorTypeNetwork, info, "http request failed", err, 0)
	}
	c.metrics.RecordRequest(method, info.endpoint, resp.StatusCode, info.elapsed)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, info, c.newError(ErrorTypeRequestFailed, info,
			fmt.Sprintf("request failed with code %d", resp.StatusCode), nil, resp.StatusCode)
	}

	if c.debug != nil && c.debug.Enabled && c.debug.LogResponses && c.logger != nil {
		c.logger.Debug("request completed",
			"requestID", info.requestID, "status", resp.StatusCode, "duration", info.elapsed,
			"index", resp.Header.Get(indexHeader))
	}

	return resp, info, nil
}

// parseQueryMeta decodes the blocking-query headers. The change index is
// required: a caller feeding LastIndex back as the next WaitIndex must never
// receive a meaningless zero, so a missing or unparseable header is a decode
// failure rather than a silently defaulted value.
func (c *Client) parseQueryMeta(resp *http.Response, info callInfo) (*QueryMeta, error) {
	raw := resp.Header.Get(indexHeader)
	if raw == "" {
		return nil, c.newError(ErrorTypeDecode, info,
			fmt.Sprintf("response missing required %s header", indexHeader), nil, resp.StatusCode)
	}
	index, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, c.newError(ErrorTypeDecode, info,
			fmt.Sprintf("failed to parse %s header", indexHeader), err, resp.StatusCode)
	}

	meta := &QueryMeta{
		LastIndex:       index,
		LastContentHash: resp.Header.Get(contentHashHeader),
		RequestTime:     info.elapsed,
	}
	// Absence of the leader header means false, not an error.
	if known, err := strconv.ParseBool(resp.Header.Get(knownLeaderHeader)); err == nil {
		meta.KnownLeader = known
	}
	return meta, nil
}

// decodeBody deserializes a 2xx body into T. Unknown fields are ignored and
// absent fields keep their zero values: the control plane adds fields over
// time and strict decoding would break forward compatibility. An empty body
// decodes to the zero value of T.
func decodeBody[T any](c *Client, resp *http.Response, info callInfo) (T, error) {
	var out T
	buf, err := io.ReadAll(resp.Body)
	if err != nil {
		return out, c.newError(ErrorTypeNetwork, info, "failed to read response body", err, resp.StatusCode)
	}
	if len(bytes.TrimSpace(buf)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(buf, &out); err != nil {
		var zero T
		return zero, c.newError(ErrorTypeDecode, info, "failed to decode response body", err, resp.StatusCode)
	}
	return out, nil
}

func (c *Client) newError(errType string, info callInfo, message string, cause error, status int) *ClientError {
	c.metrics.RecordError(errType, info.method, info.endpoint)
	return &ClientError{
		Type:       errType,
		Message:    message,
		Cause:      cause,
		RequestID:  info.requestID,
		Method:     info.method,
		URL:        info.url,
		Endpoint:   info.endpoint,
		StatusCode: status,
		Timestamp:  time.Now(),
		Duration:   info.elapsed,
	}
}
