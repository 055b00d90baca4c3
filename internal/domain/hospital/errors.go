package hospital

import "errors"

var (
	ErrHospitalNotFound = errors.New("hospital not found")
	ErrInvalidBedCount  = errors.New("total beds cannot be negative")
)
