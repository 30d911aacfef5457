package domain

import (
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeUnavailable     ErrorCode = "UNAVAILABLE"
	CodeFailedPrecond   ErrorCode = "FAILED_PRECONDITION"
	CodeUnsupported     ErrorCode = "UNSUPPORTED"
	CodeInternal        ErrorCode = "INTERNAL"
	CodeCanceled        ErrorCode = "CANCELED"
)

var (
	// ErrUnknownToolKind is returned when an event names a tool kind without a controller.
	ErrUnknownToolKind = errors.New("unknown tool kind")
	// ErrControllerDisabled is returned when a disabled controller is asked to act.
	ErrControllerDisabled = errors.New("tool option controller disabled")
	// ErrInvalidChoice is returned when a menu choice key cannot be parsed.
	ErrInvalidChoice = errors.New("invalid menu choice")
	// ErrUnknownEvent is returned for host events with an unrecognized type.
	ErrUnknownEvent = errors.New("unknown host event")
)

type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
	Meta    map[string]string
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.Op == "" {
		if msg == "" {
			return string(e.Code)
		}
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	if msg == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, msg)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func E(code ErrorCode, op, msg string, cause error) *Error {
	if msg == "" && cause != nil {
		msg = cause.Error()
	}
	return &Error{
		Code:    code,
		Op:      op,
		Message: msg,
		Cause:   cause,
	}
}

func Wrap(code ErrorCode, op string, err error) *Error {
	if err == nil {
		return nil
	}
	var existing *Error
	if errors.As(err, &existing) {
		if existing.Op != "" || op == "" {
			return existing
		}
		return &Error{
			Code:    existing.Code,
			Op:      op,
			Message: existing.Message,
			Cause:   existing.Cause,
			Meta:    existing.Meta,
		}
	}
	if code == "" {
		if derived, ok := CodeFrom(err); ok {
			code = derived
		} else {
			code = CodeInternal
		}
	}
	return E(code, op, "", err)
}

func CodeFrom(err error) (ErrorCode, bool) {
	if err == nil {
		return "", false
	}
	var domainErr *Error
	if errors.As(err, &domainErr) && domainErr.Code != "" {
		return domainErr.Code, true
	}
	var unsupported *UnsupportedToolError
	switch {
	case errors.As(err, &unsupported):
		return CodeUnsupported, true
	case errors.Is(err, ErrInvalidChoice), errors.Is(err, ErrUnknownEvent):
		return CodeInvalidArgument, true
	case errors.Is(err, ErrUnknownToolKind):
		return CodeNotFound, true
	case errors.Is(err, ErrControllerDisabled):
		return CodeFailedPrecond, true
	default:
		return "", false
	}
}
