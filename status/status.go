package status

import (
	"github.com/gofiber/fiber/v2"
	"github.com/juspay/genius-dashboard-go/database"
	"github.com/juspay/genius-dashboard-go/filters"
)

// GetStatus reports whether the ratings database and the filter store are
// reachable.  The trace store is deliberately not probed; it is rate-limited
// and its failures already surface per-request.
//
// @Summary Get system status
// @Tags status
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/status [get]
func GetStatus(c *fiber.Ctx) error {
	dbOK := false

	if database.DBConn != nil {
		if sqlDB, err := database.DBConn.DB(); err == nil {
			dbOK = sqlDB.Ping() == nil
		}
	}

	storeOK := false

	if store := filters.GetStore(); store != nil {
		storeOK = store.Ping(c.Context()) == nil
	}

	ret := 0
	statusStr := "Success"

	if !dbOK || !storeOK {
		ret = 1
		statusStr = "Degraded"
	}

	return c.JSON(fiber.Map{
		"ret":         ret,
		"status":      statusStr,
		"database":    dbOK,
		"filterstore": storeOK,
	})
}
