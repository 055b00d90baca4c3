package bedbooking

import "errors"

var (
	ErrBookingNotFound         = errors.New("bed booking not found")
	ErrInvalidBedType          = errors.New("invalid bed type")
	ErrInvalidStatus           = errors.New("invalid bed booking status")
	ErrInvalidStatusTransition = errors.New("invalid bed booking status transition")
)
