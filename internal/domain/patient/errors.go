package patient

import "errors"

var (
	ErrProfileNotFound = errors.New("patient profile not found")
	ErrInvalidGender   = errors.New("invalid gender value")
	ErrInvalidBirth    = errors.New("date of birth cannot be in the future")
)
