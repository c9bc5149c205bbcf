package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds of the scheduling core
// Every constraint violation is reported as one of these (possibly inside a BookingRejection)
var (
	ErrCapacityExceeded = errors.New("capacity exceeded")
	ErrQuotaExhausted   = errors.New("quota exhausted")
	ErrNoticeViolation  = errors.New("inside minimum notice window")
	ErrWindowViolation  = errors.New("beyond booking window")
	ErrOverlapConflict  = errors.New("overlapping booking")
	ErrSlotNotOffered   = errors.New("slot is not offered by coach availability")
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrBookingCancelled = errors.New("booking is cancelled")
)

// SlotViolation binds one failed constraint to the slot it failed for
// Slot is nil for batch-wide violations (quota)
type SlotViolation struct {
	Slot   *Slot
	Reason error
}

// BookingRejection lists every violation found while validating a request
// Nothing has been written when it is returned
type BookingRejection struct {
	Violations []SlotViolation
}

// Add appends a violation
func (r *BookingRejection) Add(slot *Slot, reason error) {
	r.Violations = append(r.Violations, SlotViolation{Slot: slot, Reason: reason})
}

// HasViolations returns true if at least one violation was recorded
func (r *BookingRejection) HasViolations() bool {
	return r != nil && len(r.Violations) > 0
}

// Error implements error
func (r *BookingRejection) Error() string {
	parts := make([]string, 0, len(r.Violations))
	for _, v := range r.Violations {
		if v.Slot == nil {
			parts = append(parts, v.Reason.Error())
			continue
		}
		parts = append(parts, fmt.Sprintf("%s [%s]", v.Reason.Error(), v.Slot.StartsAt.Format("2006-01-02T15:04Z07:00")))
	}
	return "booking rejected: " + strings.Join(parts, "; ")
}

// Unwrap exposes reasons so errors.Is(err, ErrCapacityExceeded) works on a rejection
func (r *BookingRejection) Unwrap() []error {
	reasons := make([]error, 0, len(r.Violations))
	for _, v := range r.Violations {
		reasons = append(reasons, v.Reason)
	}
	return reasons
}

// Kind returns a stable machine-readable name of an error kind
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, ErrQuotaExhausted):
		return "quota_exhausted"
	case errors.Is(err, ErrNoticeViolation):
		return "notice_violation"
	case errors.Is(err, ErrWindowViolation):
		return "window_violation"
	case errors.Is(err, ErrOverlapConflict):
		return "overlap_conflict"
	case errors.Is(err, ErrSlotNotOffered):
		return "slot_not_offered"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrBookingCancelled):
		return "booking_cancelled"
	default:
		return "internal"
	}
}
