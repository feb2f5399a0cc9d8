// Package zxdisk holds the error taxonomy shared by the MV disk image, CP/M
// directory and +3DOS header codecs.
package zxdisk

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

type CodecError interface {
	error
	WithMessage(message string) CodecError
	WithMessagef(format string, args ...any) CodecError
	Wrap(err error) CodecError
}

type baseCodecError string

const rootError = baseCodecError("")

// ErrTruncatedRecord is returned when a buffer is shorter than the fixed-size
// record (or the sequence of records) that was supposed to be decoded from it.
var ErrTruncatedRecord = rootError.WithMessage("Truncated record")

// ErrInvariantViolation is returned when a structure can't be encoded because
// its parts disagree with each other, e.g. a track holding more sectors than
// its TIB has sector information blocks for.
var ErrInvariantViolation = rootError.WithMessage("Structure invariant violated")

// ErrValueOutOfRange is returned when a value can't be represented on the wire
// without corrupting a neighboring record.
var ErrValueOutOfRange = rootError.WithMessage("Value out of range")

var ErrInvalidSignature = rootError.WithMessage("Invalid signature")
var ErrNotFound = rootError.WithMessage("No such file or directory")
var ErrInvalidArgument = rootError.WithMessage("Invalid argument")

func (e baseCodecError) Error() string {
	return string(e)
}

func (e baseCodecError) RootCause() CodecError {
	return e
}

func (e baseCodecError) WithMessage(message string) CodecError {
	return customCodecError{
		message:       message,
		originalError: e,
	}
}

func (e baseCodecError) WithMessagef(format string, args ...any) CodecError {
	return e.WithMessage(fmt.Sprintf(format, args...))
}

func (e baseCodecError) Wrap(err error) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

// -----------------------------------------------------------------------------

type customCodecError struct {
	message       string
	originalError error
}

// Error implements the `error` object interface. When called, it returns a string
// describing the error.
func (e customCodecError) Error() string {
	return e.message
}

func (e customCodecError) WithMessage(message string) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.message, message),
		originalError: e,
	}
}

// WithMessagef is a convenience wrapper around WithMessage that formats the
// message first.
func (e customCodecError) WithMessagef(format string, args ...any) CodecError {
	return e.WithMessage(fmt.Sprintf(format, args...))
}

func (e customCodecError) Wrap(err error) CodecError {
	return customCodecError{
		message:       fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		originalError: multierror.Append(e, err),
	}
}

func (e customCodecError) Unwrap() error {
	return e.originalError
}
