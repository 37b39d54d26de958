package domain

import (
	"errors"
	"fmt"
)

type Error struct {
	orig error
	msg  string
	code error
}

func (e *Error) Error() string {
	if e.orig != nil {
		return fmt.Sprintf("%s", e.msg)
	}

	return e.msg
}

func (e *Error) Unwrap() error {
	return e.orig
}

// Is makes errors.Is(err, ErrEmptyQueue) match the wrapped code.
func (e *Error) Is(target error) bool {
	return errors.Is(e.code, target)
}

func WrapErrorf(orig error, code error, format string, a ...interface{}) error {
	return &Error{
		code: code,
		orig: orig,
		msg:  fmt.Sprintf(format, a...),
	}
}

func (e *Error) Code() error {
	return e.code
}

var (
	// ErrEmptyQueue will throw if dequeue/first/changed is called on an empty priority queue
	ErrEmptyQueue = errors.New("the priority queue is empty")
	// ErrIndexOutOfRange will throw if an enqueued index does not address a valid reference-array slot
	ErrIndexOutOfRange = errors.New("index out of range for the reference array")
	// ErrBadParamInput will throw if the given config or params is not valid
	ErrBadParamInput = errors.New("given Param is not valid")
)
