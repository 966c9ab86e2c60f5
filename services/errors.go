package services

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindAuthorization ErrorKind = "authorization"
	KindForbidden     ErrorKind = "forbidden"
	KindNotFound      ErrorKind = "not_found"
	KindConflict      ErrorKind = "conflict"
	KindProcessor     ErrorKind = "processor"
	KindPersistence   ErrorKind = "persistence"
)

// BookingError is the single error type returned across the service boundary.
// Code is stable and machine readable, Message is safe to show to a user.
type BookingError struct {
	Kind    ErrorKind
	Code    string
	Message string
	Err     error
}

func (e *BookingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *BookingError) Unwrap() error { return e.Err }

func newValidation(code, msg string) error {
	return &BookingError{Kind: KindValidation, Code: code, Message: msg}
}

func newAuthorization(code, msg string) error {
	return &BookingError{Kind: KindAuthorization, Code: code, Message: msg}
}

func newForbidden(code, msg string) error {
	return &BookingError{Kind: KindForbidden, Code: code, Message: msg}
}

func newNotFound(code, msg string) error {
	return &BookingError{Kind: KindNotFound, Code: code, Message: msg}
}

func newConflict(code, msg string) error {
	return &BookingError{Kind: KindConflict, Code: code, Message: msg}
}

func newProcessor(msg string, err error) error {
	return &BookingError{Kind: KindProcessor, Code: "error.paymentProcessor", Message: msg, Err: err}
}

func newPersistence(msg string, err error) error {
	return &BookingError{Kind: KindPersistence, Code: "error.persistence", Message: msg, Err: err}
}

// ErrRoomAlreadyBooked is the conflict reported when a paid booking already covers the dates.
var ErrRoomAlreadyBooked = &BookingError{
	Kind:    KindConflict,
	Code:    "error.roomAlreadyBooked",
	Message: "Room is already booked for the selected dates",
}

// KindOf returns the kind of err, or "" when err is not a *BookingError.
func KindOf(err error) ErrorKind {
	var be *BookingError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
