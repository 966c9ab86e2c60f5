package models

const (
	BookingStatusPending = "pending"
	BookingStatusPaid    = "paid"
	BookingStatusExpired = "expired"
)

// DateLayout is the wire format for booking dates.
const DateLayout = "2006-01-02"
