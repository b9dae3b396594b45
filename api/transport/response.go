package transport

import (
	"time"

	"github.com/fastygo/taskmanager/internal/infrastructure/monitor"
)

// Envelope wraps service-level payloads such as the health report. Resource
// endpoints return bare JSON.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
}

// HealthReport is the body of GET /health.
type HealthReport struct {
	Timestamp time.Time       `json:"timestamp"`
	Driver    string          `json:"driver"`
	Services  map[string]bool `json:"services"`
	LastCheck time.Time       `json:"last_check"`
}

// NewHealthReport snapshots status for the store backend named driver.
func NewHealthReport(driver string, status monitor.Status, now time.Time) HealthReport {
	services := status.Services
	if services == nil {
		services = map[string]bool{}
	}
	return HealthReport{
		Timestamp: now.UTC(),
		Driver:    driver,
		Services:  services,
		LastCheck: status.LastCheck,
	}
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}) Envelope {
	return Envelope{Status: "success", Data: data}
}

// NewError returns an error envelope carrying data for diagnostics.
func NewError(code string, err interface{}, data interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  err,
		Data:   data,
	}
}
