package misc

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// LokiClient writes JSON log lines to files that Alloy ships to Grafana Loki.
// Writing to local files survives Loki downtime and keeps the request path
// non-blocking.
type LokiClient struct {
	enabled      bool
	jsonFilePath string
	fileMutex    sync.Mutex
	currentFile  *os.File
	currentDate  string
}

type lokiJsonLogEntry struct {
	Timestamp string            `json:"timestamp"`
	Labels    map[string]string `json:"labels"`
	Message   json.RawMessage   `json:"message"`
}

var lokiInstance *LokiClient
var lokiOnce sync.Once

// GetLoki returns the singleton Loki client instance.
func GetLoki() *LokiClient {
	lokiOnce.Do(func() {
		enabled := os.Getenv("LOKI_ENABLED") == "true" || os.Getenv("LOKI_ENABLED") == "1"
		jsonFilePath := os.Getenv("LOKI_JSON_PATH")

		if enabled && jsonFilePath == "" {
			fmt.Println("Loki enabled but LOKI_JSON_PATH not set, disabling Loki")
			enabled = false
		}

		lokiInstance = &LokiClient{
			enabled:      enabled,
			jsonFilePath: jsonFilePath,
		}

		if enabled {
			if err := os.MkdirAll(jsonFilePath, 0755); err != nil {
				fmt.Printf("Failed to create Loki log directory %s: %v\n", jsonFilePath, err)
			}
		}
	})
	return lokiInstance
}

// IsEnabled returns whether Loki logging is enabled.
func (l *LokiClient) IsEnabled() bool {
	return l.enabled
}

// LogApiRequest logs one API request.
func (l *LokiClient) LogApiRequest(method, endpoint string, statusCode int, durationMs float64, projectID string, extra map[string]string) {
	if !l.enabled {
		return
	}

	// Only 5xx is "error"; everything else, including 4xx, is normal traffic.
	level := "info"
	if statusCode >= 500 {
		level = "error"
	}

	labels := map[string]string{
		"app":         "genius-dashboard",
		"source":      "api",
		"method":      method,
		"status_code": fmt.Sprintf("%d", statusCode),
		"level":       level,
	}

	logData := map[string]interface{}{
		"endpoint":    endpoint,
		"duration_ms": durationMs,
		"timestamp":   time.Now().Format(time.RFC3339),
	}

	if projectID != "" {
		logData["project_id"] = projectID
	}

	for k, v := range extra {
		logData[k] = v
	}

	logLine, _ := json.Marshal(logData)
	l.log(labels, string(logLine))
}

// LogUpstreamError logs a failed trace-store fetch.
func (l *LokiClient) LogUpstreamError(projectID string, err error) {
	if !l.enabled || err == nil {
		return
	}

	labels := map[string]string{
		"app":    "genius-dashboard",
		"source": "tracestore",
		"level":  "error",
	}

	logLine, _ := json.Marshal(map[string]interface{}{
		"project_id": projectID,
		"error":      err.Error(),
		"timestamp":  time.Now().Format(time.RFC3339),
	})
	l.log(labels, string(logLine))
}

// log writes one entry to the current day's file, rotating at midnight.
func (l *LokiClient) log(labels map[string]string, message string) {
	l.fileMutex.Lock()
	defer l.fileMutex.Unlock()

	today := time.Now().Format("2006-01-02")

	if l.currentFile == nil || l.currentDate != today {
		if l.currentFile != nil {
			l.currentFile.Close()
		}

		path := filepath.Join(l.jsonFilePath, fmt.Sprintf("api-%s.json", today))
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Printf("Failed to open Loki log file %s: %v\n", path, err)
			return
		}

		l.currentFile = f
		l.currentDate = today
	}

	entry := lokiJsonLogEntry{
		Timestamp: time.Now().Format(time.RFC3339Nano),
		Labels:    labels,
		Message:   json.RawMessage(message),
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return
	}

	l.currentFile.Write(append(line, '\n'))
}
