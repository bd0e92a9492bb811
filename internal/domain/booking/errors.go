package booking

import "errors"

var (
	ErrForbidden        = errors.New("payer reference does not match the authenticated user")
	ErrDuplicateSlot    = errors.New("an active booking already exists for this slot")
	ErrInvalidProvider  = errors.New("this provider cannot be booked here")
	ErrNotFound         = errors.New("booking not found")
	ErrAlreadyCancelled = errors.New("booking is already cancelled")
	ErrInvalidDate      = errors.New("invalid appointment date")
	ErrInvalidTime      = errors.New("invalid appointment time")
	ErrCreateFailed     = errors.New("failed to create appointment")
)
