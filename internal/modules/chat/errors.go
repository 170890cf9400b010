package chat

import "errors"

var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrForbidden           = errors.New("not a party of this appointment")
	ErrEmptyBody           = errors.New("message body is empty")
)
