package dtos

// CheckInRequest is the check-in form submission. Coordinates are nil when the
// device could not produce a fix; LocationError then says why.
type CheckInRequest struct {
	Name          string   `json:"name" validate:"max=200"`
	Latitude      *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude     *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	LocationError string   `json:"location_error,omitempty" validate:"omitempty,oneof=unsupported permission_denied timeout unavailable"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}
