package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/cadence/internal/domain/metrics"
)

// Boundary error codes.
const (
	CodeInvalidTimeframe = "INVALID_TIMEFRAME"
	CodeInvalidParams    = "INVALID_PARAMS"
	CodeMethodNotFound   = "METHOD_NOT_FOUND"
)

// APIError represents an MCP error response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) MessageValue() string {
	return e.Message
}

func (e *APIError) DetailsValue() any {
	return e.Details
}

// TimeframeDetails describes a rejected timeframe.
type TimeframeDetails struct {
	Timeframe string   `json:"timeframe"`
	Allowed   []string `json:"allowed"`
}

// MapError maps domain errors to MCP error codes. Errors without a boundary
// code map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, metrics.ErrInvalidTimeframe):
		return &APIError{Code: CodeInvalidTimeframe, Message: err.Error()}
	default:
		return nil
	}
}

func invalidTimeframe(raw string, err error) *APIError {
	return &APIError{
		Code:    CodeInvalidTimeframe,
		Message: err.Error(),
		Details: TimeframeDetails{
			Timeframe: raw,
			Allowed: []string{
				string(metrics.TimeframeDay),
				string(metrics.TimeframeWeek),
				string(metrics.TimeframeMonth),
			},
		},
	}
}
