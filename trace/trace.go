package trace

import (
	"sort"

	"github.com/gofiber/fiber/v2"
	"github.com/juspay/genius-dashboard-go/content"
	"github.com/juspay/genius-dashboard-go/rating"
	"github.com/juspay/genius-dashboard-go/tracestore"
	"github.com/juspay/genius-dashboard-go/utils"
)

// Step is one tool call within a trace, rendered for display.  LLM calls are
// filtered out upstream of this view.
type Step struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Arguments interface{} `json:"arguments,omitempty"`
	Result    interface{} `json:"result,omitempty"`
}

// Feedback is the genius-feedback score attached to a trace, if any.
type Feedback struct {
	Value   float64 `json:"value"`
	Comment string  `json:"comment,omitempty"`
}

// GetTrace returns one trace rendered for the detail view: its input and
// output, its tool calls in start order, and any feedback or manual rating.
//
// @Summary Get a trace
// @Tags trace
// @Produce json
// @Param id path string true "Trace ID"
// @Param projectId query string true "Project ID"
// @Success 200 {object} fiber.Map
// @Router /api/trace/{id} [get]
func GetTrace(c *fiber.Ctx) error {
	traceID := c.Params("id")
	projectID := c.Query("projectId")

	if traceID == "" || projectID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "projectId and trace id are required")
	}

	detail, err := tracestore.Store.TraceDetail(c.Context(), projectID, traceID)

	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Trace not found")
	}

	// Observations arrive in no particular order; show them as they ran.
	obs := make([]tracestore.Observation, len(detail.Observations))
	copy(obs, detail.Observations)
	sort.SliceStable(obs, func(i, j int) bool {
		return obs[i].StartTime.Before(obs[j].StartTime)
	})

	steps := make([]Step, 0, len(obs))

	for _, o := range obs {
		if content.IsLLMCall(o.Name) {
			continue
		}

		steps = append(steps, Step{
			ID:        o.ID,
			Name:      o.Name,
			Arguments: content.ObservationArguments(o.Input),
			Result:    content.ObservationResult(o.Output),
		})
	}

	var feedback *Feedback

	for _, s := range detail.Scores {
		if s.Name == utils.SCORE_GENIUS_FEEDBACK {
			feedback = &Feedback{Value: s.Value, Comment: s.Comment}
			break
		}
	}

	ret := fiber.Map{
		"ret":       0,
		"status":    "Success",
		"id":        detail.ID,
		"name":      detail.Name,
		"sessionid": detail.SessionID,
		"timestamp": detail.Timestamp,
		"tags":      detail.Tags,
		"input":     content.RenderInput(detail.Input),
		"output":    content.RenderOutput(detail.Output),
		"steps":     steps,
	}

	if feedback != nil {
		ret["feedback"] = feedback
	}

	if r := rating.ForTrace(projectID, traceID); r != nil {
		ret["rating"] = r
	}

	return c.JSON(ret)
}

// GetObservation returns one tool call's parsed arguments and result.
//
// @Summary Get an observation
// @Tags trace
// @Produce json
// @Param id path string true "Observation ID"
// @Param projectId query string true "Project ID"
// @Param traceId query string true "Trace ID"
// @Success 200 {object} fiber.Map
// @Router /api/observation/{id} [get]
func GetObservation(c *fiber.Ctx) error {
	observationID := c.Params("id")
	projectID := c.Query("projectId")
	traceID := c.Query("traceId")

	if observationID == "" || projectID == "" || traceID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "projectId, traceId and observation id are required")
	}

	obs, err := tracestore.Store.Observation(c.Context(), projectID, traceID, observationID)

	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Observation not found")
	}

	return c.JSON(fiber.Map{
		"ret":       0,
		"status":    "Success",
		"id":        obs.ID,
		"name":      obs.Name,
		"arguments": content.ObservationArguments(obs.Input),
		"result":    content.ObservationResult(obs.Output),
	})
}
