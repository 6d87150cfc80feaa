// Package setuperr defines the error kinds a bootstrap attempt can fail with.
// Components return *Error values (or wrap them); only the orchestrator turns
// them into user-facing text.
package setuperr

import (
	"errors"
	"fmt"
	"syscall"
)

// Kind classifies a bootstrap failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindPlatform
	KindCorruptArchive
	KindExtraction
	KindInsufficientSpace
	KindNoEmbeddedPackage
	KindProcessLaunch
	KindNonZeroExit
)

func (k Kind) String() string {
	switch k {
	case KindPlatform:
		return "platform"
	case KindCorruptArchive:
		return "corrupt archive"
	case KindExtraction:
		return "extraction"
	case KindInsufficientSpace:
		return "insufficient space"
	case KindNoEmbeddedPackage:
		return "no embedded package"
	case KindProcessLaunch:
		return "process launch"
	case KindNonZeroExit:
		return "non-zero exit"
	default:
		return "unknown"
	}
}

// Error is a classified failure. Code carries an OS error code for
// KindPlatform or the child exit code for KindNonZeroExit.
type Error struct {
	Kind   Kind
	Op     string
	Detail string
	Code   int
	Err    error
}

func (e *Error) Error() string {
	msg := e.Detail
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Op == "" {
		return msg
	}
	return e.Op + ": " + msg
}

func (e *Error) Unwrap() error { return e.Err }

// New returns an Error of the given kind with a detail message.
func New(kind Kind, op, detail string) *Error {
	return &Error{Kind: kind, Op: op, Detail: detail}
}

// Wrap classifies err. A nil err yields nil.
func Wrap(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Platform wraps an OS failure, recording its errno when one is present.
func Platform(op string, err error) error {
	if err == nil {
		return nil
	}
	return withErrno(KindPlatform, op, "", err)
}

// Launch wraps a failure to create a child process.
func Launch(op, detail string, err error) error {
	if err == nil {
		return nil
	}
	return withErrno(KindProcessLaunch, op, detail, err)
}

func withErrno(kind Kind, op, detail string, err error) *Error {
	e := &Error{Kind: kind, Op: op, Detail: detail, Err: err}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		e.Code = int(errno)
	}
	return e
}

// NonZeroExit reports a child process that finished with a failing code.
func NonZeroExit(op string, code int) error {
	return &Error{
		Kind:   KindNonZeroExit,
		Op:     op,
		Code:   code,
		Detail: fmt.Sprintf("process exited with error code: %d", code),
	}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
