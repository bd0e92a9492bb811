package provider

import "errors"

var (
	ErrNotFound        = errors.New("provider not found")
	ErrDateUnavailable = errors.New("the provider is unavailable on the requested date")
	ErrDayClosed       = errors.New("the provider does not accept bookings on that day")
	ErrOutsideHours    = errors.New("requested time is outside business hours")
)
