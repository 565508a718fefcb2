package booking

import "errors"

var (
	// ErrSlotConflict means another customer took one of the requested slots
	// between the availability read and the write. Nothing was committed.
	ErrSlotConflict = errors.New("slot no longer available")

	// ErrSubmissionFailed covers any non-conflict backend failure on submit.
	// The caller's form state should be retained for retry.
	ErrSubmissionFailed = errors.New("booking submission failed")

	// ErrAvailabilityFetchFailed means the booked-slot read failed. Callers
	// must treat availability as unknown, never as "all free".
	ErrAvailabilityFetchFailed = errors.New("availability lookup failed")

	// ErrSlotOccupied rejects blocking a slot that already has a confirmed
	// customer booking for that date.
	ErrSlotOccupied = errors.New("slot already has a confirmed booking")

	ErrNotBlocked        = errors.New("slot is not blocked")
	ErrNotFound          = errors.New("booking not found")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrCourtNotBookable  = errors.New("court is not available for booking")
	ErrUnknownSlot       = errors.New("unknown time slot")
	ErrPastDate          = errors.New("booking date is in the past")
	ErrTooManySlots      = errors.New("too many slots selected")
	ErrInvalidDate       = errors.New("invalid date, expected YYYY-MM-DD")
	ErrSubmissionInvalid = errors.New("submission is missing required fields")
)
