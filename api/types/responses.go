package types

import "github.com/sweeparr/sweeparr/internal/services/providermap"

// Status constants for API responses
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// BaseResponse contains fields common to all API responses
type BaseResponse struct {
	Status  string `json:"status"`            // One of the Status constants above
	Message string `json:"message,omitempty"` // Human-readable message
}

// DeletionResponse acknowledges a media-server deletion notification. The
// sender only cares about the status code; the body exists for humans poking
// the endpoint.
type DeletionResponse struct {
	BaseResponse
	Outcome string   `json:"outcome"`
	Actions []string `json:"actions,omitempty"`
}

// EventResponse acknowledges a catalog change event.
type EventResponse struct {
	BaseResponse
	Applied int `json:"applied"`
	Skipped int `json:"skipped,omitempty"`
}

// RebuildResponse reports a completed manual rebuild.
type RebuildResponse struct {
	BaseResponse
	Report *providermap.RebuildReport `json:"report,omitempty"`
}

// IndexStatusResponse reports index freshness and size.
type IndexStatusResponse struct {
	BaseResponse
	LastRefresh string                `json:"lastRefresh,omitempty"`
	Counts      providermap.RowCounts `json:"counts"`
}

// ErrorResponse for detailed error information
type ErrorResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Error   string      `json:"error,omitempty"`   // Error code/type
	Details interface{} `json:"details,omitempty"` // Additional error details
}
