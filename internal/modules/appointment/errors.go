package appointment

import "errors"

var (
	ErrNotFound           = errors.New("appointment not found")
	ErrCounselorNotFound  = errors.New("counselor not found")
	ErrForbidden          = errors.New("not authorized for this appointment")
	ErrInvalidSessionType = errors.New("not a video session")
	ErrInvalidTransition  = errors.New("status transition not allowed")
	ErrNotCompleted       = errors.New("appointment is not completed")
	ErrValidation         = errors.New("validation error")
)
