package shipment

import (
	"fmt"

	"tracking/internal/pkg/errs"
)

// Status represents the delivery lifecycle state of a shipment.
// It implements a small state machine so shipments follow the correct
// tracking workflow.
//
// State transitions:
//
//	Registered ──> InTransit ──> Delivered
//	     │             │
//	     └─────────────┴──────> Failed
//
// Delivered and Failed are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Registered is the initial status when a shipment is first created
	// from an incoming order and its voucher has been accepted.
	Registered

	// InTransit indicates the courier has reported movement for the voucher.
	InTransit

	// Delivered indicates the courier confirmed delivery. Terminal.
	Delivered

	// Failed indicates the courier reported a permanent delivery failure. Terminal.
	Failed
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "Unknown",
		Registered: "Registered",
		InTransit:  "InTransit",
		Delivered:  "Delivered",
		Failed:     "Failed",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Registered: "Registered",
		InTransit:  "InTransit",
		Delivered:  "Delivered",
		Failed:     "Failed",
	}
}

// Validate checks if the Status value is valid.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// Safe to call on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the status permits no further transitions.
// Terminal shipments are excluded from status polling.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Failed
}

// CanTransitionTo reports whether the state machine allows moving to next.
func (s Status) CanTransitionTo(next Status) bool {
	if next.Validate() != nil {
		return false
	}
	if s.IsTerminal() {
		return false
	}

	switch s {
	case Registered:
		return next == InTransit || next == Delivered || next == Failed
	case InTransit:
		return next == Delivered || next == Failed || next == InTransit
	default:
		return false
	}
}

// StatusFromString parses a persisted status name back into a Status.
// Returns an error for unknown names, including "Unknown" itself.
func StatusFromString(name string) (Status, error) {
	for status, str := range getValidStatusStrings() {
		if str == name {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", name))
}
