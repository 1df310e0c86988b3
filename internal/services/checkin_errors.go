package services

import "net/http"

// RejectionKind classifies why a check-in was refused
type RejectionKind string

const (
	KindEmptyName             RejectionKind = "empty_name"
	KindMissingNameBeforeCode RejectionKind = "missing_name_before_code"
	KindOutsideSchedule       RejectionKind = "outside_schedule"
	KindOutsideRadius         RejectionKind = "outside_radius"
	KindLocationUnsupported   RejectionKind = "location_unsupported"
	KindLocationDenied        RejectionKind = "location_denied"
	KindLocationTimeout       RejectionKind = "location_timeout"
	KindLocationUnavailable   RejectionKind = "location_unavailable"
	KindInvalidCoordinates    RejectionKind = "invalid_coordinates"
)

// HTTPStatus maps a kind to the status the API answers with.
// Input problems are 400, policy refusals 403, device location failures 422.
func (k RejectionKind) HTTPStatus() int {
	switch k {
	case KindOutsideSchedule, KindOutsideRadius:
		return http.StatusForbidden
	case KindLocationUnsupported, KindLocationDenied, KindLocationTimeout, KindLocationUnavailable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// CheckInError is a user-facing refusal. Message is shown verbatim (pt-BR).
type CheckInError struct {
	Kind    RejectionKind
	Message string
	Details *ValidationDetails
}

func (e *CheckInError) Error() string {
	return e.Message
}

func newCheckInError(kind RejectionKind, message string) *CheckInError {
	return &CheckInError{Kind: kind, Message: message}
}
