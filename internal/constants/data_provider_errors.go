package constants

// Sheet webhook error codes
const (
	ErrCodeNotConfigured     = "NOT_CONFIGURED"
	ErrCodeNetworkError      = "NETWORK_ERROR"
	ErrCodeRateLimited       = "RATE_LIMITED"
	ErrCodeUpstreamRejected  = "UPSTREAM_REJECTED"
	ErrCodeInvalidResponse   = "INVALID_RESPONSE"
	ErrCodeInvalidDataFormat = "INVALID_DATA_FORMAT"
)

var DataProviderErrorMessages = map[string]string{
	ErrCodeNotConfigured:     "URL não configurada",
	ErrCodeNetworkError:      "Failed to reach the sheet webhook",
	ErrCodeRateLimited:       "The sheet webhook is rate limiting requests",
	ErrCodeUpstreamRejected:  "The sheet webhook rejected the request",
	ErrCodeInvalidResponse:   "The sheet webhook returned an unreadable response",
	ErrCodeInvalidDataFormat: "The data format is invalid",
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, exists := DataProviderErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}
