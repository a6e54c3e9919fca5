package domain

import (
	"errors"
	"strings"
)

type ErrorKind string

const (
	KindNotFound        ErrorKind = "not found"
	KindVerification    ErrorKind = "verification failed"
	KindInvalidArgument ErrorKind = "invalid argument"
	KindBackup          ErrorKind = "backup failed"
	KindStorage         ErrorKind = "storage failed"
)

var (
	ErrNotFound        = &Error{Kind: KindNotFound}
	ErrVerification    = &Error{Kind: KindVerification}
	ErrInvalidArgument = &Error{Kind: KindInvalidArgument}
	ErrBackup          = &Error{Kind: KindBackup}
	ErrStorage         = &Error{Kind: KindStorage}
)

// Error carries one of the failure kinds of the backup engine. errors.Is
// matches on Kind, so errors.Is(err, ErrNotFound) holds for any NotFound.
type Error struct {
	Kind  ErrorKind
	What  string
	Cause error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.What != "" {
		b.WriteString(": ")
		b.WriteString(e.What)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func NotFoundError(what string) error {
	return &Error{Kind: KindNotFound, What: what}
}

func VerificationError(what string) error {
	return &Error{Kind: KindVerification, What: what}
}

func InvalidArgumentError(what string) error {
	return &Error{Kind: KindInvalidArgument, What: what}
}

func BackupError(what string, cause error) error {
	return &Error{Kind: KindBackup, What: what, Cause: cause}
}

func StorageError(what string, cause error) error {
	return &Error{Kind: KindStorage, What: what, Cause: cause}
}

// KindOf returns the kind of the first domain error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
