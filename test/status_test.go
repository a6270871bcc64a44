package test

import (
	json2 "encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetStatus(t *testing.T) {
	resp, _ := getApp().Test(httptest.NewRequest("GET", "/api/status", nil))
	assert.Equal(t, 200, resp.StatusCode)

	var result map[string]interface{}
	assert.NoError(t, json2.Unmarshal(rsp(resp), &result))

	assert.Equal(t, float64(0), result["ret"])
	assert.Equal(t, "Success", result["status"])
	assert.Equal(t, true, result["database"])
	assert.Equal(t, true, result["filterstore"])
}
