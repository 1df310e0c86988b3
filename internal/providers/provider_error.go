package providers

import (
	"errors"
	"fmt"

	"cross-country/runflow/internal/constants"
)

// ProviderError carries a stable code alongside the underlying failure
type ProviderError struct {
	Code       string
	Message    string
	Details    string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// IsNotConfigured reports whether err means no webhook URL is set
func IsNotConfigured(err error) bool {
	var pErr *ProviderError
	return errors.As(err, &pErr) && pErr.Code == constants.ErrCodeNotConfigured
}
