package test

import (
	json2 "encoding/json"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/juspay/genius-dashboard-go/filters"
	"github.com/stretchr/testify/assert"
)

type filtersResponse struct {
	Ret     int           `json:"ret"`
	Filters filters.State `json:"filters"`
	Saved   bool          `json:"saved"`
}

func TestGetFiltersDefault(t *testing.T) {
	resp, _ := getApp().Test(httptest.NewRequest("GET", "/api/filters?projectId=pf-default", nil))
	assert.Equal(t, 200, resp.StatusCode)

	var result filtersResponse
	assert.NoError(t, json2.Unmarshal(rsp(resp), &result))

	assert.Equal(t, 0, result.Ret)
	assert.False(t, result.Saved)
	assert.Equal(t, "all", result.Filters.SelectedTag)
	assert.True(t, result.Filters.HideUnknownUser)
}

func TestPutAndGetFilters(t *testing.T) {
	req := httptest.NewRequest("PUT", "/api/filters?projectId=pf-save",
		strings.NewReader(`{"showOnlyMerchant":true,"selectedTag":"payments-agent","teamEmails":["alice@juspay.in"],"hideUnknownUser":false}`))
	req.Header.Set("Content-Type", "application/json")

	resp, _ := getApp().Test(req)
	assert.Equal(t, 200, resp.StatusCode)

	resp, _ = getApp().Test(httptest.NewRequest("GET", "/api/filters?projectId=pf-save", nil))

	var result filtersResponse
	assert.NoError(t, json2.Unmarshal(rsp(resp), &result))

	assert.True(t, result.Saved)
	assert.True(t, result.Filters.ShowOnlyMerchant)
	assert.Equal(t, "payments-agent", result.Filters.SelectedTag)
	assert.Equal(t, []string{"alice@juspay.in"}, result.Filters.TeamEmails)
	assert.False(t, result.Filters.HideUnknownUser)
}

func TestFiltersRequireProject(t *testing.T) {
	resp, _ := getApp().Test(httptest.NewRequest("GET", "/api/filters", nil))
	assert.Equal(t, 400, resp.StatusCode)
}

func TestQueryOverridesSavedFilters(t *testing.T) {
	req := httptest.NewRequest("PUT", "/api/filters?projectId=pf-override",
		strings.NewReader(`{"showOnlyTeam":true,"selectedTag":"all","hideUnknownUser":true}`))
	req.Header.Set("Content-Type", "application/json")

	resp, _ := getApp().Test(req)
	assert.Equal(t, 200, resp.StatusCode)

	// A request carrying any filter parameter is a shared link: it resolves
	// against the defaults, not the saved state.
	resp, _ = getApp().Test(httptest.NewRequest("GET",
		"/api/filters/share?projectId=pf-override&merchantOnly=true&sessionId=s-42", nil))
	assert.Equal(t, 200, resp.StatusCode)

	var result struct {
		Ret   int    `json:"ret"`
		Query string `json:"query"`
	}
	assert.NoError(t, json2.Unmarshal(rsp(resp), &result))

	q, err := url.ParseQuery(result.Query)
	assert.NoError(t, err)
	assert.Equal(t, "true", q.Get("merchantOnly"))
	assert.Equal(t, "s-42", q.Get("sessionId"))

	// The saved teamOnly does not leak into the link.
	assert.Empty(t, q.Get("teamOnly"))

	// Defaults are not serialised.
	assert.Empty(t, q.Get("hideUnknown"))
	assert.Empty(t, q.Get("tag"))
}

func TestSharedLinkRoundTrip(t *testing.T) {
	// The recipient has their own saved filters.
	req := httptest.NewRequest("PUT", "/api/filters?projectId=pf-roundtrip",
		strings.NewReader(`{"showOnlyTeam":true,"selectedTag":"refunds-agent","hideUnknownUser":true}`))
	req.Header.Set("Content-Type", "application/json")

	resp, _ := getApp().Test(req)
	assert.Equal(t, 200, resp.StatusCode)

	// The sharer's state, encoded as a link.
	sharer := filters.Default()
	sharer.ShowOnlyMerchant = true
	link := sharer.EncodeQuery().Encode()

	// Opening the link must reproduce the sharer's exact state, not a blend
	// with the recipient's saved filters.
	resp, _ = getApp().Test(httptest.NewRequest("GET",
		"/api/filters/share?projectId=pf-roundtrip&"+link, nil))
	assert.Equal(t, 200, resp.StatusCode)

	var result struct {
		Query string `json:"query"`
	}
	assert.NoError(t, json2.Unmarshal(rsp(resp), &result))

	q, err := url.ParseQuery(result.Query)
	assert.NoError(t, err)
	assert.Equal(t, "true", q.Get("merchantOnly"))
	assert.Empty(t, q.Get("teamOnly"))
	assert.Empty(t, q.Get("tag"))

	// Without filter parameters the saved state still applies.
	resp, _ = getApp().Test(httptest.NewRequest("GET",
		"/api/filters/share?projectId=pf-roundtrip", nil))

	assert.NoError(t, json2.Unmarshal(rsp(resp), &result))

	q, err = url.ParseQuery(result.Query)
	assert.NoError(t, err)
	assert.Equal(t, "true", q.Get("teamOnly"))
	assert.Equal(t, "refunds-agent", q.Get("tag"))
}
