package errors

import "net/http"

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation and configuration errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInvalidFilterWindow  ErrorCode = 102
	ErrCodeInvalidAllowList     ErrorCode = 103
	ErrCodeInvalidProvider      ErrorCode = 104
	ErrCodeInvalidVersion       ErrorCode = 105
	ErrCodeVersionMismatch      ErrorCode = 106

	// Data source errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeHistoryDealsFailed    ErrorCode = 203
	ErrCodeAccountInfoFailed     ErrorCode = 204
	ErrCodePositionsFailed       ErrorCode = 205
	ErrCodeFixtureParseFailed    ErrorCode = 206
	ErrCodeCircuitOpen           ErrorCode = 207

	// Access errors (300-399)
	ErrCodeUnauthorized ErrorCode = 300

	// Display errors (400-499)
	ErrCodeMonitorUnreachable  ErrorCode = 400
	ErrCodeMonitorBadResponse  ErrorCode = 401
	ErrCodePublicIPUnavailable ErrorCode = 402
	ErrCodeClipboardFailed     ErrorCode = 403
	ErrCodeReadOnlyDisplay     ErrorCode = 404

	// Server lifecycle errors (500-599)
	ErrCodeServerStartFailed    ErrorCode = 500
	ErrCodeServerShutdownFailed ErrorCode = 501
	ErrCodeTickerAlreadyRunning ErrorCode = 502
)

// HTTPStatus maps an error code to the HTTP status used when it reaches a client.
func HTTPStatus(code ErrorCode) int {
	switch {
	case code == ErrCodeUnauthorized:
		return http.StatusForbidden
	case code >= 100 && code < 200:
		return http.StatusBadRequest
	case code == ErrCodeDataNotFound:
		return http.StatusNotFound
	case code > ErrCodeDataSourceUnavailable && code < 300:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
