package errors

import (
	"fmt"
	"net/http"
	"strings"
)

// NewValidationError reports caller-supplied request bodies missing required
// fields. It is always raised before any state mutation or upstream call.
func NewValidationError(missing ...string) *AppError {
	return New(ErrCodeValidationFailed,
		fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", "))).
		WithContext("missing", missing)
}

// NewBadPayloadError reports a webhook body that is not valid JSON.
func NewBadPayloadError(err error) *AppError {
	return Wrap(err, ErrCodeBadPayload, "request body is not valid JSON")
}

// NewNotFoundError creates a not found error with resource context
func NewNotFoundError(resource, identifier string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource)).
		WithContext("resource", resource).
		WithContext("identifier", identifier)
}

// NewUpstreamError reports a non-success response from the gateway. The
// message is drawn from the upstream's own error field when one was parsed.
func NewUpstreamError(statusCode int, payload map[string]interface{}, err error) *AppError {
	message := ""
	for _, key := range []string{"error", "message"} {
		if payload == nil {
			break
		}
		if v, ok := payload[key].(string); ok && v != "" {
			message = v
			break
		}
	}
	if message == "" {
		message = fmt.Sprintf("failed to communicate with upstream (status %d)", statusCode)
	}

	appErr := Wrap(err, ErrCodeUpstreamAPI, message).
		WithContext("status_code", statusCode)
	if payload != nil {
		appErr = appErr.WithContext("upstream", payload)
	}
	appErr.Status = statusCode
	appErr.Retryable = statusCode >= 500 || statusCode == http.StatusTooManyRequests
	return appErr
}

// NewUnreachableError reports a gateway call that failed before any HTTP
// status was received.
func NewUnreachableError(err error) *AppError {
	appErr := Wrap(err, ErrCodeUpstreamAPI, "failed to communicate with upstream")
	appErr.Retryable = true
	return appErr
}

// HTTPStatusCode maps error codes to appropriate HTTP status codes
func HTTPStatusCode(err error) int {
	appErr, ok := err.(*AppError)
	if !ok {
		return http.StatusInternalServerError
	}
	if appErr.Status >= 400 {
		return appErr.Status
	}

	switch appErr.Code {
	case ErrCodeValidationFailed, ErrCodeBadPayload, ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUpstreamAPI:
		if appErr.Retryable {
			return http.StatusBadGateway
		}
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// Details returns the public context of an error for HTTP responses, or nil
// for plain errors.
func Details(err error) map[string]interface{} {
	if appErr, ok := err.(*AppError); ok && len(appErr.Context) > 0 {
		return appErr.Context
	}
	return nil
}
