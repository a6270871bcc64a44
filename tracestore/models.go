package tracestore

import (
	"encoding/json"
	"time"
)

// Session groups the traces of one conversation.  The first userIds entry is
// the display identity; countTraces is maintained upstream.
type Session struct {
	ID          string    `json:"id"`
	UserIDs     []string  `json:"userIds"`
	CreatedAt   time.Time `json:"createdAt"`
	CountTraces int       `json:"countTraces"`
}

// Trace is one request/response unit within a session.  By convention the
// first tag names the agent which handled the query.
type Trace struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	SessionID string          `json:"sessionId"`
	Timestamp time.Time       `json:"timestamp"`
	Tags      []string        `json:"tags"`
	Input     json.RawMessage `json:"input,omitempty"`
	Output    json.RawMessage `json:"output,omitempty"`
}

// Score is an automated evaluation attached to a trace.  Value is 0 or 1.
type Score struct {
	TraceID string  `json:"traceId"`
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Comment string  `json:"comment,omitempty"`
}

// Observation is a sub-step (tool call) within a trace.  Input and Output are
// kept raw: payload shapes vary by agent and are parsed best-effort at
// display time.
type Observation struct {
	ID        string          `json:"id"`
	TraceID   string          `json:"traceId"`
	Name      string          `json:"name"`
	StartTime time.Time       `json:"startTime"`
	Input     json.RawMessage `json:"input,omitempty"`
	Output    json.RawMessage `json:"output,omitempty"`
}

// TraceDetail is the full trace record, fetched per trace rather than in the
// list query.
type TraceDetail struct {
	Trace
	Observations []Observation `json:"observations,omitempty"`
	Scores       []Score       `json:"scores,omitempty"`
}

// TraceMetric carries the error level for a trace.
type TraceMetric struct {
	ID    string `json:"id"`
	Level string `json:"level"`
}

// FilterOption is one selectable value for a trace filter column.
type FilterOption struct {
	Value string `json:"value"`
}

type sessionsResponse struct {
	Sessions []Session `json:"sessions"`
}

type tracesResponse struct {
	Traces []Trace `json:"traces"`
}

type scoresResponse struct {
	Scores []Score `json:"scores"`
}

type filterOptionsResponse struct {
	Tags []FilterOption `json:"tags"`
}
