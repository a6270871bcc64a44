package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/juspay/genius-dashboard-go/category"
	"github.com/juspay/genius-dashboard-go/content"
	"github.com/juspay/genius-dashboard-go/filters"
	"github.com/juspay/genius-dashboard-go/misc"
	"github.com/juspay/genius-dashboard-go/rating"
	"github.com/juspay/genius-dashboard-go/stats"
	"github.com/juspay/genius-dashboard-go/tracestore"
	"github.com/juspay/genius-dashboard-go/utils"
)

// CONVERSATION_TRACE_LIMIT caps how many traces a conversation view loads.
// Sessions longer than this show the first traces only.
const CONVERSATION_TRACE_LIMIT = 100

// Summary is one row in the session list: the upstream session annotated
// with the derived fields the filters were computed from.
type Summary struct {
	ID          string            `json:"id"`
	CreatedAt   time.Time         `json:"createdAt"`
	UserIDs     []string          `json:"userIds"`
	CountTraces int               `json:"countTraces"`
	Category    category.Category `json:"category"`
	Tags        []string          `json:"tags"`
	Evaluation  string            `json:"evaluation,omitempty"`
}

// Turn is one request/response exchange within a conversation.
type Turn struct {
	TraceID   string               `json:"traceid"`
	Timestamp time.Time            `json:"timestamp"`
	Input     content.Rendered     `json:"input"`
	Output    content.Rendered     `json:"output"`
	Level     string               `json:"level,omitempty"`
	Rating    *rating.ManualRating `json:"rating,omitempty"`
}

// ListSessions returns the sessions in range, filtered and annotated.
//
// @Summary List sessions
// @Tags session
// @Produce json
// @Param projectId query string true "Project ID"
// @Param start query string false "Start date, relative or absolute"
// @Param end query string false "End date, relative or absolute"
// @Param search query string false "Substring match on session id or user ids"
// @Success 200 {object} fiber.Map
// @Router /api/session [get]
func ListSessions(c *fiber.Ctx) error {
	projectID := c.Query("projectId")

	if projectID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "projectId is required")
	}

	start := utils.ParseRelativeDate(c.Query("start", "1 day ago"), time.Now().AddDate(0, 0, -1))
	end := utils.ParseRelativeDate(c.Query("end", "today"), time.Now())

	snap, err := tracestore.Store.Snap(c.Context(), projectID, start, end)

	if err != nil {
		// Partial data is still served; the gap is logged, not surfaced.
		misc.GetLoki().LogUpstreamError(projectID, err)
	}

	state := filters.ResolveFromRequest(c, projectID)
	search := c.Query("search")

	tags := stats.TagsBySession(snap.Traces)
	evals := stats.EvaluationsBySession(snap.Scores, snap.Traces)

	filtered := filters.Filter(snap.Sessions, state, search, tags, evals)

	summaries := make([]Summary, 0, len(filtered))

	for _, s := range filtered {
		summaries = append(summaries, Summary{
			ID:          s.ID,
			CreatedAt:   s.CreatedAt,
			UserIDs:     s.UserIDs,
			CountTraces: s.CountTraces,
			Category:    category.Categorize(s.UserIDs, state.TeamEmails),
			Tags:        tags[s.ID],
			Evaluation:  evals[s.ID],
		})
	}

	return c.JSON(fiber.Map{
		"ret":      0,
		"status":   "Success",
		"sessions": summaries,
		"filters":  state,
	})
}

// GetSession returns one session as a conversation: its traces in time
// order, rendered for display.
//
// @Summary Get a session conversation
// @Tags session
// @Produce json
// @Param id path string true "Session ID"
// @Param projectId query string true "Project ID"
// @Success 200 {object} fiber.Map
// @Router /api/session/{id} [get]
func GetSession(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	projectID := c.Query("projectId")

	if sessionID == "" || projectID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "projectId and session id are required")
	}

	traces, err := tracestore.Store.SessionTraces(c.Context(), projectID, sessionID, CONVERSATION_TRACE_LIMIT)

	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Session not found")
	}

	// The agent which handled the conversation is named by the first tag of
	// the first trace.
	agent := ""
	if len(traces) > 0 && len(traces[0].Tags) > 0 {
		agent = traces[0].Tags[0]
	}

	traceIDs := make([]string, 0, len(traces))
	for _, t := range traces {
		traceIDs = append(traceIDs, t.ID)
	}

	levels := map[string]string{}

	metrics, err := tracestore.Store.TraceMetrics(c.Context(), projectID, traceIDs)

	if err != nil {
		misc.GetLoki().LogUpstreamError(projectID, err)
	} else {
		for _, m := range metrics {
			levels[m.ID] = m.Level
		}
	}

	ratings := rating.ForTraces(projectID, traceIDs)

	turns := make([]Turn, 0, len(traces))

	for _, t := range traces {
		turn := Turn{
			TraceID:   t.ID,
			Timestamp: t.Timestamp,
			Input:     content.RenderInput(t.Input),
			Output:    content.RenderOutput(t.Output),
			Level:     levels[t.ID],
		}

		if r, ok := ratings[t.ID]; ok {
			rc := r
			turn.Rating = &rc
		}

		turns = append(turns, turn)
	}

	return c.JSON(fiber.Map{
		"ret":    0,
		"status": "Success",
		"id":     sessionID,
		"agent":  agent,
		"turns":  turns,
	})
}
