package test

import (
	json2 "encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/juspay/genius-dashboard-go/content"
	"github.com/juspay/genius-dashboard-go/trace"
	"github.com/stretchr/testify/assert"
)

func TestGetTrace(t *testing.T) {
	resp, _ := getApp().Test(httptest.NewRequest("GET", "/api/trace/t-team?projectId=p1", nil))
	assert.Equal(t, 200, resp.StatusCode)

	var result struct {
		Ret      int              `json:"ret"`
		ID       string           `json:"id"`
		Input    content.Rendered `json:"input"`
		Output   content.Rendered `json:"output"`
		Steps    []trace.Step     `json:"steps"`
		Feedback *trace.Feedback  `json:"feedback"`
	}
	assert.NoError(t, json2.Unmarshal(rsp(resp), &result))

	assert.Equal(t, 0, result.Ret)
	assert.Equal(t, "t-team", result.ID)
	assert.Equal(t, "How do I refund?", result.Input.Text)
	assert.Equal(t, "Use the refunds API.", result.Output.Text)

	// The LLM call observation is hidden; only the tool call remains.
	assert.Len(t, result.Steps, 1)
	assert.Equal(t, "get_order_status", result.Steps[0].Name)
	assert.Equal(t, map[string]interface{}{"order_id": "42"}, result.Steps[0].Arguments)
	assert.Equal(t, "shipped", result.Steps[0].Result)

	assert.NotNil(t, result.Feedback)
	assert.Equal(t, float64(1), result.Feedback.Value)
	assert.Equal(t, "helpful", result.Feedback.Comment)
}

func TestGetTraceNotFound(t *testing.T) {
	resp, _ := getApp().Test(httptest.NewRequest("GET", "/api/trace/nonexistent?projectId=p1", nil))
	assert.Equal(t, 404, resp.StatusCode)
}

func TestGetObservation(t *testing.T) {
	resp, _ := getApp().Test(httptest.NewRequest("GET", "/api/observation/obs-tool?projectId=p1&traceId=t-team", nil))
	assert.Equal(t, 200, resp.StatusCode)

	var result struct {
		Ret       int         `json:"ret"`
		Name      string      `json:"name"`
		Arguments interface{} `json:"arguments"`
		Result    interface{} `json:"result"`
	}
	assert.NoError(t, json2.Unmarshal(rsp(resp), &result))

	assert.Equal(t, 0, result.Ret)
	assert.Equal(t, "get_order_status", result.Name)
	assert.Equal(t, map[string]interface{}{"order_id": "42"}, result.Arguments)
	assert.Equal(t, "shipped", result.Result)
}

func TestGetObservationRequiresTrace(t *testing.T) {
	resp, _ := getApp().Test(httptest.NewRequest("GET", "/api/observation/obs-tool?projectId=p1", nil))
	assert.Equal(t, 400, resp.StatusCode)
}
