// Package tracestore is the client for the upstream trace-store query API.
// The store owns all session/trace/score data and we only read it; manual
// ratings live in our own database.
package tracestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Client talks to the trace store.  Credentials are the project API key pair,
// sent as basic auth.
type Client struct {
	BaseURL    string
	PublicKey  string
	SecretKey  string
	HTTPClient *http.Client
}

// Store is the client used by handlers.  Set once at startup (or by the test
// harness) via Init.
var Store *Client

func Init(baseURL, publicKey, secretKey string) {
	Store = &Client{
		BaseURL:    baseURL,
		PublicKey:  publicKey,
		SecretKey:  secretKey,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", c.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}

	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+path, bytes.NewBuffer(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	if c.PublicKey != "" {
		req.SetBasicAuth(c.PublicKey, c.SecretKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("trace store request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("trace store returned %d for %s: %s", resp.StatusCode, req.URL.Path, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode trace store response: %w", err)
	}

	return nil
}

// Sessions fetches one page of sessions created within [from, to], newest
// first.
func (c *Client) Sessions(ctx context.Context, projectID string, from, to time.Time, page, limit int) ([]Session, error) {
	q := url.Values{}
	q.Set("projectId", projectID)
	q.Set("fromCreatedAt", from.Format(time.RFC3339))
	q.Set("toCreatedAt", to.Format(time.RFC3339))
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	q.Set("orderBy", "createdAt.desc")

	var resp sessionsResponse
	if err := c.get(ctx, "/api/sessions", q, &resp); err != nil {
		return nil, err
	}

	return resp.Sessions, nil
}

// Traces fetches one page of traces with timestamps within [from, to], newest
// first.
func (c *Client) Traces(ctx context.Context, projectID string, from, to time.Time, page, limit int) ([]Trace, error) {
	q := url.Values{}
	q.Set("projectId", projectID)
	q.Set("fromTimestamp", from.Format(time.RFC3339))
	q.Set("toTimestamp", to.Format(time.RFC3339))
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	q.Set("orderBy", "timestamp.desc")

	var resp tracesResponse
	if err := c.get(ctx, "/api/traces", q, &resp); err != nil {
		return nil, err
	}

	return resp.Traces, nil
}

// SessionTraces fetches the traces of one session, oldest first, for the
// conversation view.
func (c *Client) SessionTraces(ctx context.Context, projectID, sessionID string, limit int) ([]Trace, error) {
	q := url.Values{}
	q.Set("projectId", projectID)
	q.Set("sessionId", sessionID)
	q.Set("page", "0")
	q.Set("limit", strconv.Itoa(limit))
	q.Set("orderBy", "timestamp.asc")

	var resp tracesResponse
	if err := c.get(ctx, "/api/traces", q, &resp); err != nil {
		return nil, err
	}

	return resp.Traces, nil
}

// Scores fetches one page of scores with the given name.
func (c *Client) Scores(ctx context.Context, projectID, name string, page, limit int) ([]Score, error) {
	q := url.Values{}
	q.Set("projectId", projectID)
	q.Set("name", name)
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	q.Set("orderBy", "timestamp.desc")

	var resp scoresResponse
	if err := c.get(ctx, "/api/scores", q, &resp); err != nil {
		return nil, err
	}

	return resp.Scores, nil
}

// TraceDetail fetches the full trace record including observations and
// scores.
func (c *Client) TraceDetail(ctx context.Context, projectID, traceID string) (*TraceDetail, error) {
	q := url.Values{}
	q.Set("projectId", projectID)

	var detail TraceDetail
	if err := c.get(ctx, "/api/traces/"+url.PathEscape(traceID), q, &detail); err != nil {
		return nil, err
	}

	return &detail, nil
}

// Observation fetches one observation's full record, including input/output
// payloads.
func (c *Client) Observation(ctx context.Context, projectID, traceID, observationID string) (*Observation, error) {
	q := url.Values{}
	q.Set("projectId", projectID)
	q.Set("traceId", traceID)

	var obs Observation
	if err := c.get(ctx, "/api/observations/"+url.PathEscape(observationID), q, &obs); err != nil {
		return nil, err
	}

	return &obs, nil
}

// TraceMetrics fetches the error level for each of the given traces.
func (c *Client) TraceMetrics(ctx context.Context, projectID string, traceIDs []string) ([]TraceMetric, error) {
	body := map[string]interface{}{
		"projectId": projectID,
		"traceIds":  traceIDs,
	}

	var metrics []TraceMetric
	if err := c.post(ctx, "/api/traces/metrics", body, &metrics); err != nil {
		return nil, err
	}

	return metrics, nil
}

// TagFilterOptions fetches the distinct trace tags seen since from.  This is
// the full tag vocabulary - unlike the accumulated trace list it is not
// bounded by pagination.
func (c *Client) TagFilterOptions(ctx context.Context, projectID string, from time.Time) ([]string, error) {
	q := url.Values{}
	q.Set("projectId", projectID)
	q.Set("fromTimestamp", from.Format(time.RFC3339))

	var resp filterOptionsResponse
	if err := c.get(ctx, "/api/traces/filter-options", q, &resp); err != nil {
		return nil, err
	}

	tags := make([]string, 0, len(resp.Tags))
	for _, t := range resp.Tags {
		tags = append(tags, t.Value)
	}

	return tags, nil
}
