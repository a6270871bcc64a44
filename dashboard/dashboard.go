package dashboard

import (
	"sort"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/juspay/genius-dashboard-go/filters"
	"github.com/juspay/genius-dashboard-go/misc"
	"github.com/juspay/genius-dashboard-go/stats"
	"github.com/juspay/genius-dashboard-go/tracestore"
	"github.com/juspay/genius-dashboard-go/utils"
)

// GetDashboard returns the requested dashboard components computed over the
// date range.  Components are requested by name so the UI only pays for the
// panels it shows.
//
// @Summary Get dashboard components
// @Tags dashboard
// @Produce json
// @Param projectId query string true "Project ID"
// @Param components query string false "Comma-separated: Headline, Cards, Detailed, Tags"
// @Param start query string false "Start date, relative or absolute"
// @Param end query string false "End date, relative or absolute"
// @Param search query string false "Substring match on session id or user ids"
// @Success 200 {object} fiber.Map
// @Router /api/dashboard [get]
func GetDashboard(c *fiber.Ctx) error {
	projectID := c.Query("projectId")

	if projectID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "projectId is required")
	}

	startStr := c.Query("start", "1 day ago")
	endStr := c.Query("end", "today")

	start := utils.ParseRelativeDate(startStr, time.Now().AddDate(0, 0, -1))
	end := utils.ParseRelativeDate(endStr, time.Now())

	snap, err := tracestore.Store.Snap(c.Context(), projectID, start, end)

	if err != nil {
		misc.GetLoki().LogUpstreamError(projectID, err)
	}

	state := filters.ResolveFromRequest(c, projectID)
	search := c.Query("search")

	tags := stats.TagsBySession(snap.Traces)
	evals := stats.EvaluationsBySession(snap.Scores, snap.Traces)

	components := c.Query("components", "Headline,Cards,Detailed")

	result := make(map[string]interface{})

	for _, comp := range strings.Split(components, ",") {
		comp = strings.TrimSpace(comp)

		switch comp {
		case "Headline":
			result[comp] = stats.HeadlineStats(snap, state, search, tags, evals)
		case "Cards":
			result[comp] = stats.CardStats(snap, state, search, tags, evals)
		case "Detailed":
			result[comp] = stats.DetailedStats(snap, state, search, tags, evals)
		case "Tags":
			result[comp] = tagOptions(c, projectID, start)
		}
	}

	return c.JSON(fiber.Map{
		"ret":        0,
		"status":     "Success",
		"components": result,
		"filters":    state,
		"start":      startStr,
		"end":        endStr,
	})
}

// tagOptions lists the tags available for filtering in the range, sorted,
// with the no-filter option first.
func tagOptions(c *fiber.Ctx, projectID string, from time.Time) []string {
	opts := []string{utils.TAG_ALL}

	tags, err := tracestore.Store.TagFilterOptions(c.Context(), projectID, from)

	if err != nil {
		misc.GetLoki().LogUpstreamError(projectID, err)
		return opts
	}

	sorted := make([]string, 0, len(tags))
	for _, t := range tags {
		if t != utils.TAG_ALL {
			sorted = append(sorted, t)
		}
	}
	sort.Strings(sorted)

	return append(opts, sorted...)
}
