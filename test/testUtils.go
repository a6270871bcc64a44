package test

import (
	"context"
	json2 "encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/juspay/genius-dashboard-go/filters"
	"github.com/juspay/genius-dashboard-go/tracestore"
	"github.com/juspay/genius-dashboard-go/utils"
)

func rsp(response *http.Response) []byte {
	buf := new(strings.Builder)
	io.Copy(buf, response.Body)
	return []byte(buf.String())
}

// memoryStore is an in-process filters.Store for tests.
type memoryStore struct {
	mu     sync.Mutex
	states map[string]filters.State
}

func newMemoryStore() *memoryStore {
	return &memoryStore{states: map[string]filters.State{}}
}

func (m *memoryStore) Get(ctx context.Context, projectID string) (*filters.State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.states[projectID]
	if !ok {
		return nil, nil
	}

	return &s, nil
}

func (m *memoryStore) Put(ctx context.Context, projectID string, s filters.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.states[projectID] = s
	return nil
}

func (m *memoryStore) Ping(ctx context.Context) error {
	return nil
}

// Fixtures for the trace store stub.  Project p1 is a small mixed project;
// project big has more sessions than one page holds, to exercise
// accumulation.

const bigSessionCount = 250

func fixtureSessions(projectID string) []tracestore.Session {
	now := time.Now()

	switch projectID {
	case "p1":
		return []tracestore.Session{
			{ID: "s-team", UserIDs: []string{"alice@juspay.in"}, CreatedAt: now.Add(-1 * time.Hour), CountTraces: 1},
			{ID: "s-juspay", UserIDs: []string{"bob@juspay.in"}, CreatedAt: now.Add(-2 * time.Hour), CountTraces: 1},
			{ID: "s-merchant", UserIDs: []string{"merchant@shop.com"}, CreatedAt: now.Add(-3 * time.Hour), CountTraces: 1},
			{ID: "s-unknown", UserIDs: []string{utils.UNKNOWN_USER}, CreatedAt: now.Add(-4 * time.Hour), CountTraces: 1},
		}
	case "big":
		sessions := make([]tracestore.Session, bigSessionCount)
		for i := range sessions {
			sessions[i] = tracestore.Session{
				ID:          fmt.Sprintf("big-%d", i),
				UserIDs:     []string{"merchant@shop.com"},
				CreatedAt:   now.Add(-time.Duration(i) * time.Minute),
				CountTraces: 1,
			}
		}
		return sessions
	}

	return nil
}

func fixtureTraces(projectID string) []tracestore.Trace {
	if projectID != "p1" {
		return nil
	}

	now := time.Now()

	return []tracestore.Trace{
		{
			ID: "t-team", SessionID: "s-team", Name: "query", Timestamp: now.Add(-1 * time.Hour),
			Tags:   []string{"payments-agent"},
			Input:  json2.RawMessage(`{"user_query":"How do I refund?"}`),
			Output: json2.RawMessage(`{"outcome":{"output":{"text":"Use {method}.","replacements":{"method":"the refunds API"}}}}`),
		},
		{
			ID: "t-juspay", SessionID: "s-juspay", Name: "query", Timestamp: now.Add(-2 * time.Hour),
			Tags:   []string{"payments-agent"},
			Input:  json2.RawMessage(`{"user_query":"Where is my settlement?"}`),
			Output: json2.RawMessage(`{"outcome":{"output":{"text":"Settled yesterday."}}}`),
		},
		{
			ID: "t-merchant", SessionID: "s-merchant", Name: "query", Timestamp: now.Add(-3 * time.Hour),
			Tags:   []string{"refunds-agent"},
			Input:  json2.RawMessage(`{"user_query":"Refund order 42"}`),
			Output: json2.RawMessage(`{"outcome":{"output":{"text":"Refund initiated."}}}`),
		},
		{
			ID: "t-unknown", SessionID: "s-unknown", Name: "query", Timestamp: now.Add(-4 * time.Hour),
			Input:  json2.RawMessage(`{"user_query":"hello"}`),
			Output: json2.RawMessage(`{"outcome":{"output":{"text":"Hi!"}}}`),
		},
	}
}

func fixtureScores(projectID string) []tracestore.Score {
	if projectID != "p1" {
		return nil
	}

	return []tracestore.Score{
		{TraceID: "t-team", Name: utils.SCORE_GENIUS_FEEDBACK, Value: 1},
		{TraceID: "t-merchant", Name: utils.SCORE_GENIUS_FEEDBACK, Value: 0, Comment: "wrong order"},
	}
}

func fixtureTraceDetail(traceID string) *tracestore.TraceDetail {
	for _, t := range fixtureTraces("p1") {
		if t.ID == traceID {
			detail := &tracestore.TraceDetail{Trace: t}

			if traceID == "t-team" {
				now := time.Now()
				detail.Observations = []tracestore.Observation{
					{
						ID: "obs-llm", TraceID: traceID, Name: "llm-call-completion", StartTime: now.Add(-30 * time.Minute),
					},
					{
						ID: "obs-tool", TraceID: traceID, Name: "get_order_status", StartTime: now.Add(-50 * time.Minute),
						Input:  json2.RawMessage(`{"arguments":{"order_id":"42"}}`),
						Output: json2.RawMessage(`{"result":{"result":"shipped"}}`),
					},
				}
				detail.Scores = []tracestore.Score{
					{TraceID: traceID, Name: utils.SCORE_GENIUS_FEEDBACK, Value: 1, Comment: "helpful"},
				}
			}

			return detail
		}
	}

	return nil
}

// page slices items the way the upstream list endpoints do.
func page[T any](items []T, pageNum, limit int) []T {
	start := pageNum * limit
	if start >= len(items) {
		return []T{}
	}

	end := start + limit
	if end > len(items) {
		end = len(items)
	}

	return items[start:end]
}

func startTraceStoreStub() *httptest.Server {
	mux := http.NewServeMux()

	pageOf := func(r *http.Request) (int, int) {
		p, _ := strconv.Atoi(r.URL.Query().Get("page"))
		l, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if l == 0 {
			l = utils.PAGE_SIZE
		}
		return p, l
	}

	mux.HandleFunc("/api/sessions", func(w http.ResponseWriter, r *http.Request) {
		p, l := pageOf(r)
		sessions := fixtureSessions(r.URL.Query().Get("projectId"))
		json2.NewEncoder(w).Encode(map[string]interface{}{
			"sessions": page(sessions, p, l),
		})
	})

	mux.HandleFunc("/api/traces", func(w http.ResponseWriter, r *http.Request) {
		p, l := pageOf(r)
		traces := fixtureTraces(r.URL.Query().Get("projectId"))

		if sessionID := r.URL.Query().Get("sessionId"); sessionID != "" {
			filtered := []tracestore.Trace{}
			for _, t := range traces {
				if t.SessionID == sessionID {
					filtered = append(filtered, t)
				}
			}
			traces = filtered
		}

		json2.NewEncoder(w).Encode(map[string]interface{}{
			"traces": page(traces, p, l),
		})
	})

	mux.HandleFunc("/api/scores", func(w http.ResponseWriter, r *http.Request) {
		p, l := pageOf(r)
		scores := fixtureScores(r.URL.Query().Get("projectId"))
		json2.NewEncoder(w).Encode(map[string]interface{}{
			"scores": page(scores, p, l),
		})
	})

	mux.HandleFunc("/api/traces/metrics", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			TraceIDs []string `json:"traceIds"`
		}
		json2.NewDecoder(r.Body).Decode(&body)

		metrics := []tracestore.TraceMetric{}
		for _, id := range body.TraceIDs {
			level := "DEFAULT"
			if id == "t-merchant" {
				level = "ERROR"
			}
			metrics = append(metrics, tracestore.TraceMetric{ID: id, Level: level})
		}

		json2.NewEncoder(w).Encode(metrics)
	})

	// Deliberately unsorted; the dashboard sorts the vocabulary.
	mux.HandleFunc("/api/traces/filter-options", func(w http.ResponseWriter, r *http.Request) {
		json2.NewEncoder(w).Encode(map[string]interface{}{
			"tags": []map[string]string{
				{"value": "refunds-agent"},
				{"value": "payments-agent"},
			},
		})
	})

	mux.HandleFunc("/api/traces/", func(w http.ResponseWriter, r *http.Request) {
		traceID := strings.TrimPrefix(r.URL.Path, "/api/traces/")

		detail := fixtureTraceDetail(traceID)
		if detail == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		json2.NewEncoder(w).Encode(detail)
	})

	mux.HandleFunc("/api/observations/", func(w http.ResponseWriter, r *http.Request) {
		observationID := strings.TrimPrefix(r.URL.Path, "/api/observations/")

		for _, t := range fixtureTraces("p1") {
			detail := fixtureTraceDetail(t.ID)
			if detail == nil {
				continue
			}
			for _, o := range detail.Observations {
				if o.ID == observationID {
					json2.NewEncoder(w).Encode(o)
					return
				}
			}
		}

		w.WriteHeader(http.StatusNotFound)
	})

	return httptest.NewServer(mux)
}
