package misc

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

// generateRequestID returns a unique id: hex ms timestamp plus 4 random bytes.
func generateRequestID() string {
	now := time.Now().UnixMilli()
	randomBytes := make([]byte, 4)
	rand.Read(randomBytes)
	return fmt.Sprintf("%x-%s", now, hex.EncodeToString(randomBytes))
}

// LokiMiddleware logs each API request to the Loki JSON file. Logging happens
// in a goroutine after the response so the request path is never blocked.
func LokiMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		loki := GetLoki()

		if !loki.IsEnabled() {
			return c.Next()
		}

		start := time.Now()
		requestID := generateRequestID()
		c.Locals("request_id", requestID)

		method := c.Method()
		path := c.Path()
		ip := c.IP()
		query := string(c.Request().URI().QueryString())
		projectID := c.Query("projectId")

		err := c.Next()

		status := c.Response().StatusCode()
		duration := float64(time.Since(start).Microseconds()) / 1000.0

		extra := map[string]string{
			"request_id": requestID,
			"ip":         ip,
		}
		if query != "" {
			extra["query"] = truncateString(query, 256)
		}
		if err != nil {
			extra["error"] = truncateString(err.Error(), 256)
		}

		go loki.LogApiRequest(method, path, status, duration, projectID, extra)

		return err
	}
}

func truncateString(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
