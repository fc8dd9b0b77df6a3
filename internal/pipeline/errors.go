package pipeline

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when Run is called while another submission is in flight.
var ErrBusy = errors.New("a submission is already in progress")

// Kind classifies pipeline failures.
type Kind int

const (
	MissingCredential Kind = iota + 1
	InvalidInput
	VendorFailure
	EmptyContent
	AnalysisParseFailure
)

func (k Kind) String() string {
	switch k {
	case MissingCredential:
		return "MissingCredential"
	case InvalidInput:
		return "InvalidInput"
	case VendorFailure:
		return "VendorFailure"
	case EmptyContent:
		return "EmptyContent"
	case AnalysisParseFailure:
		return "AnalysisParseFailure"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is a fatal submission failure. Message is the single user-facing text.
type Error struct {
	Kind    Kind
	State   State
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a pipeline error of kind k.
func IsKind(err error, k Kind) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.Kind == k
}
