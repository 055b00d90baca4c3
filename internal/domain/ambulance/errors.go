package ambulance

import "errors"

var (
	ErrNoAmbulanceAvailable    = errors.New("No ambulance available at the moment")
	ErrBookingNotFound         = errors.New("ambulance booking not found")
	ErrInvalidStatus           = errors.New("invalid ambulance booking status")
	ErrInvalidStatusTransition = errors.New("invalid ambulance booking status transition")
)
