package filters

import (
	"log"
	"net/url"

	"github.com/gofiber/fiber/v2"
)

// queryValues converts the request query string into url.Values so the pure
// codec functions can work on it.
func queryValues(c *fiber.Ctx) url.Values {
	q := url.Values{}
	c.Request().URI().QueryArgs().VisitAll(func(key, value []byte) {
		q.Add(string(key), string(value))
	})
	return q
}

// ResolveFromRequest produces the effective filter state for a request.  A
// request carrying any filter parameter is a shared link and resolves against
// the defaults, so the recipient sees the sharer's view rather than a blend
// with their own saved state.  EncodeQuery omits default-valued parameters,
// which is why the stored state cannot serve as the base here.  Requests with
// no filter parameters use the stored per-project state.
func ResolveFromRequest(c *fiber.Ctx, projectID string) State {
	q := queryValues(c)

	if HasQueryParams(q) {
		return Resolve(q, Default())
	}

	base := Default()

	if store != nil && projectID != "" {
		stored, err := store.Get(c.Context(), projectID)
		if err != nil {
			log.Printf("Failed to load filters for project %s: %v", projectID, err)
		} else if stored != nil {
			base = *stored
		}
	}

	return Resolve(url.Values{}, base)
}

// GetFilters returns the saved filter state for a project.
//
// @Summary Get saved dashboard filters
// @Tags filters
// @Produce json
// @Param projectId query string true "Project ID"
// @Router /api/filters [get]
func GetFilters(c *fiber.Ctx) error {
	projectID := c.Query("projectId")
	if projectID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "projectId parameter required")
	}

	state := Default()
	saved := false

	if store != nil {
		stored, err := store.Get(c.Context(), projectID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Failed to load filters")
		}
		if stored != nil {
			state = *stored
			saved = true
		}
	}

	return c.JSON(fiber.Map{
		"ret":     0,
		"status":  "Success",
		"filters": state,
		"saved":   saved,
	})
}

// PutFilters saves the filter state for a project.
//
// @Summary Save dashboard filters
// @Tags filters
// @Accept json
// @Produce json
// @Param projectId query string true "Project ID"
// @Router /api/filters [put]
func PutFilters(c *fiber.Ctx) error {
	projectID := c.Query("projectId")
	if projectID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "projectId parameter required")
	}

	var state State
	if err := c.BodyParser(&state); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if state.SelectedTag == "" {
		state.SelectedTag = Default().SelectedTag
	}
	if state.TeamEmails == nil {
		state.TeamEmails = []string{}
	}

	if store == nil {
		return fiber.NewError(fiber.StatusServiceUnavailable, "Filter store not configured")
	}

	if err := store.Put(c.Context(), projectID, state); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to save filters")
	}

	return c.JSON(fiber.Map{
		"ret":     0,
		"status":  "Success",
		"filters": state,
	})
}

// ShareLink renders the effective filter state as the query string used in
// shareable dashboard links.
//
// @Summary Get a shareable filter query string
// @Tags filters
// @Produce json
// @Param projectId query string true "Project ID"
// @Router /api/filters/share [get]
func ShareLink(c *fiber.Ctx) error {
	projectID := c.Query("projectId")
	if projectID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "projectId parameter required")
	}

	state := ResolveFromRequest(c, projectID)
	query := state.EncodeQuery()

	// Session selection travels alongside the filters in shared links.
	if sessionID := c.Query("sessionId"); sessionID != "" {
		query.Set("sessionId", sessionID)
	}

	return c.JSON(fiber.Map{
		"ret":    0,
		"status": "Success",
		"query":  query.Encode(),
	})
}
