package mpv

import (
	stderrors "errors"

	"github.com/wippyai/go-mpv/errors"
)

// Error is a status code returned by libmpv client functions.
// Zero means success; negative values are errors.
type Error int32

const (
	ErrSuccess             Error = 0
	ErrEventQueueFull      Error = -1
	ErrNomem               Error = -2
	ErrUninitialized       Error = -3
	ErrInvalidParameter    Error = -4
	ErrOptionNotFound      Error = -5
	ErrOptionFormat        Error = -6
	ErrOptionError         Error = -7
	ErrPropertyNotFound    Error = -8
	ErrPropertyFormat      Error = -9
	ErrPropertyUnavailable Error = -10
	ErrPropertyError       Error = -11
	ErrCommand             Error = -12
	ErrLoadingFailed       Error = -13
	ErrAoInitFailed        Error = -14
	ErrVoInitFailed        Error = -15
	ErrNothingToPlay       Error = -16
	ErrUnknownFormat       Error = -17
	ErrUnsupported         Error = -18
	ErrNotImplemented      Error = -19
	ErrGeneric             Error = -20
)

var errorMessages = [...]string{
	"success",
	"event ringbuffer is full and can't receive any events",
	"memory allocation failed",
	"mpv core is not initialized",
	"invalid or unsupported parameter value",
	"option does not exist",
	"unsupported format of option",
	"provided option value could not be parsed",
	"accessed property does not exist",
	"usage of unsupported format",
	"property exists, but is currently unavailable",
	"something went wrong when setting or getting a property",
	"something went wrong while running a command",
	"something went wrong while loading",
	"initialization of audio output failed",
	"initialization of video output failed",
	"there is no audio or video data to play",
	"cannot identify file format",
	"system requirements not fulfilled",
	"function is not implemented",
	"unknown error occurred",
}

// String returns the description of the code.
func (e Error) String() string {
	if e > 0 || int(-e) >= len(errorMessages) {
		return errorMessages[-ErrGeneric]
	}
	return errorMessages[-e]
}

// Err converts the code to an error, nil for success.
// Codes outside the known range map to the ErrGeneric description but keep their value.
func (e Error) Err() error {
	if e >= 0 {
		return nil
	}
	return &errors.Error{
		Phase:  errors.PhaseClient,
		Kind:   errors.KindClient,
		Detail: e.String(),
		Value:  e,
	}
}

// ErrorFromCode converts a raw libmpv return value.
func ErrorFromCode(code int) error {
	return Error(code).Err()
}

// Code extracts the libmpv status code carried by err.
func Code(err error) (Error, bool) {
	var se *errors.Error
	if !stderrors.As(err, &se) || se.Kind != errors.KindClient {
		return 0, false
	}
	code, ok := se.Value.(Error)
	return code, ok
}
