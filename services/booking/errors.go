package booking

import (
	"errors"
	"fmt"
)

// Error codes. User-input codes map to clarification replies; a guest count
// mismatch keeps the booking dialog open so the user can correct the guest
// list against the still-valid offer; integrity codes mean the cached offer
// itself is unusable and the user is asked to search again.
const (
	CodeInvalidSearchDates     = "invalidSearchDates"
	CodeOptionNotFound         = "optionNotFound"
	CodeGuestCountMismatch     = "guestCountMismatch"
	CodeMissingPlacementData   = "missingPlacementData"
	CodeSlotAssignmentInternal = "slotAssignmentInternal"
	CodeNoGuarantee            = "noGuarantee"
)

type BookingError struct {
	Code    string
	Message string
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewBookingError(code, msg string) error {
	return &BookingError{Code: code, Message: msg}
}

// AsBookingError unwraps err into a *BookingError if it is one.
func AsBookingError(err error) (*BookingError, bool) {
	var be *BookingError
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// IsUserInputError reports whether err should be answered with a
// clarification rather than a failure notice.
func IsUserInputError(err error) bool {
	be, ok := AsBookingError(err)
	if !ok {
		return false
	}
	return be.Code == CodeInvalidSearchDates || be.Code == CodeNoGuarantee
}

// IsGuestCountMismatch reports whether err means the supplied guest list does
// not match the offer's declared capacity. The offer stays valid; the user
// corrects the guest details and retries.
func IsGuestCountMismatch(err error) bool {
	be, ok := AsBookingError(err)
	if !ok {
		return false
	}
	return be.Code == CodeGuestCountMismatch
}

// IsIntegrityError reports whether err means the cached offer can no longer
// be booked and the user must search again.
func IsIntegrityError(err error) bool {
	be, ok := AsBookingError(err)
	if !ok {
		return false
	}
	switch be.Code {
	case CodeOptionNotFound, CodeMissingPlacementData, CodeSlotAssignmentInternal:
		return true
	}
	return false
}
