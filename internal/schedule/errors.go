package schedule

import "errors"

var (
	// ErrInvalidSlotLabel signals a slot string outside the clinic slot
	// enumeration. The store is left unchanged.
	ErrInvalidSlotLabel = errors.New("slot label is not a valid clinic time")

	// ErrSlotUnavailable signals that the requested (date, time) is not in
	// the nurse's effective availability, including blocked dates.
	ErrSlotUnavailable = errors.New("slot is not in the nurse's availability")

	// ErrSlotConflict signals that another upcoming appointment already
	// holds the (nurse, date, time) key.
	ErrSlotConflict = errors.New("slot already has an upcoming appointment")

	// ErrInvalidTransition signals a status transition out of a terminal
	// state or to an unrecognized status.
	ErrInvalidTransition = errors.New("invalid appointment status transition")

	ErrNurseNotFound       = errors.New("nurse not found")
	ErrNurseInactive       = errors.New("nurse is deactivated")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrInvalidDate         = errors.New("date must be formatted YYYY-MM-DD")
	ErrDateInPast          = errors.New("date is in the past")
)
