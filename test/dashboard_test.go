package test

import (
	json2 "encoding/json"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/juspay/genius-dashboard-go/stats"
	"github.com/stretchr/testify/assert"
)

type dashboardResponse struct {
	Ret        int    `json:"ret"`
	Status     string `json:"status"`
	Components struct {
		Headline *stats.Headline   `json:"Headline"`
		Cards    *stats.CardCounts `json:"Cards"`
		Detailed *stats.Detailed   `json:"Detailed"`
		Tags     []string          `json:"Tags"`
	} `json:"components"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func getDashboard(t *testing.T, query url.Values) dashboardResponse {
	resp, _ := getApp().Test(httptest.NewRequest("GET", "/api/dashboard?"+query.Encode(), nil))
	assert.Equal(t, 200, resp.StatusCode)

	var result dashboardResponse
	assert.NoError(t, json2.Unmarshal(rsp(resp), &result))
	assert.Equal(t, 0, result.Ret)

	return result
}

func TestDashboardRequiresProject(t *testing.T) {
	resp, _ := getApp().Test(httptest.NewRequest("GET", "/api/dashboard", nil))
	assert.Equal(t, 400, resp.StatusCode)
}

func TestDashboardComponents(t *testing.T) {
	q := url.Values{}
	q.Set("projectId", "p1")
	q.Set("components", "Headline,Cards,Detailed,Tags")
	q.Set("start", "7 days ago")

	result := getDashboard(t, q)

	// The unknown-user session is hidden by default, leaving three sessions
	// with one trace each.  One correct and one incorrect evaluation.
	assert.Equal(t, 3, result.Components.Headline.TotalSessions)
	assert.Equal(t, 3, result.Components.Headline.TotalQueries)
	assert.Equal(t, 1, result.Components.Headline.CorrectQueries)
	assert.Equal(t, 1, result.Components.Headline.IncorrectQueries)
	assert.Equal(t, 50, result.Components.Headline.CorrectPercentage)

	// No team allow-list, so @juspay users land in the juspay bucket.
	assert.Equal(t, 1, result.Components.Cards.MerchantQueries)
	assert.Equal(t, 0, result.Components.Cards.GeniusTeamQueries)
	assert.Equal(t, 2, result.Components.Cards.JuspayGeniusMerchantQueries)

	assert.Equal(t, 1, result.Components.Detailed.Merchant.TotalSessions)
	assert.Equal(t, 1, result.Components.Detailed.Merchant.IncorrectQueries)
	assert.Equal(t, 0, result.Components.Detailed.Merchant.Accuracy)
	assert.Equal(t, 0, result.Components.Detailed.Team.TotalSessions)
	assert.Equal(t, 2, result.Components.Detailed.Other.TotalSessions)
	assert.Equal(t, 100, result.Components.Detailed.Other.Accuracy)

	assert.Equal(t, []string{"all", "payments-agent", "refunds-agent"}, result.Components.Tags)

	assert.Equal(t, "7 days ago", result.Start)
	assert.Equal(t, "today", result.End)
}

func TestDashboardCardsStableUnderCategoryToggle(t *testing.T) {
	q := url.Values{}
	q.Set("projectId", "p1")
	q.Set("components", "Cards")

	before := getDashboard(t, q)

	q.Set("merchantOnly", "true")
	after := getDashboard(t, q)

	// Clicking a category card must not change any card's number.
	assert.Equal(t, *before.Components.Cards, *after.Components.Cards)
}

func TestDashboardHeadlineWithEvaluationFilter(t *testing.T) {
	q := url.Values{}
	q.Set("projectId", "p1")
	q.Set("components", "Headline")
	q.Set("incorrect", "true")

	result := getDashboard(t, q)

	// Only the incorrect session remains visible, but the query counts
	// still reflect the unfiltered totals.
	assert.Equal(t, 1, result.Components.Headline.TotalSessions)
	assert.Equal(t, 3, result.Components.Headline.TotalQueries)
	assert.Equal(t, 50, result.Components.Headline.CorrectPercentage)
}

func TestDashboardTeamEmails(t *testing.T) {
	q := url.Values{}
	q.Set("projectId", "p1")
	q.Set("components", "Cards,Detailed")
	q.Set("teamEmails", url.QueryEscape(`["alice@juspay.in"]`))

	result := getDashboard(t, q)

	// alice is now team; bob remains in the juspay bucket.
	assert.Equal(t, 1, result.Components.Cards.MerchantQueries)
	assert.Equal(t, 1, result.Components.Cards.GeniusTeamQueries)
	assert.Equal(t, 1, result.Components.Cards.JuspayGeniusMerchantQueries)

	assert.Equal(t, 1, result.Components.Detailed.Team.TotalSessions)
	assert.Equal(t, 100, result.Components.Detailed.Team.Accuracy)
}

func TestDashboardEmptyProject(t *testing.T) {
	q := url.Values{}
	q.Set("projectId", "empty")
	q.Set("components", "Headline,Cards")

	result := getDashboard(t, q)

	// No traces at all: everything is zero.
	assert.Equal(t, 0, result.Components.Headline.TotalSessions)
	assert.Equal(t, 0, result.Components.Headline.TotalQueries)
	assert.Equal(t, 0, result.Components.Cards.MerchantQueries)
}
