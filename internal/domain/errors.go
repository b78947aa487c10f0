package domain

import "errors"

// ErrorKind classifies registry failures independently of any transport.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindBadRequest
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	default:
		return "unknown"
	}
}

// Error is returned by registry operations whose preconditions fail.
type Error struct {
	Kind   ErrorKind
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

var (
	// ErrActivityNotFound is returned when the named activity does not exist.
	ErrActivityNotFound = &Error{Kind: KindNotFound, Detail: "Activity not found"}
	// ErrAlreadySignedUp is returned when the email is already enrolled.
	ErrAlreadySignedUp = &Error{Kind: KindBadRequest, Detail: "Student is already signed up"}
	// ErrNotRegistered is returned when unregistering an email that is not enrolled.
	ErrNotRegistered = &Error{Kind: KindBadRequest, Detail: "Student is not registered for this activity"}
)

// KindOf extracts the ErrorKind from err, or KindUnknown.
func KindOf(err error) ErrorKind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindUnknown
}
