package doctor

import "errors"

var (
	ErrDoctorNotFound = errors.New("doctor not found")
	ErrInvalidFee     = errors.New("consultation fee cannot be negative")
)
