package exchange

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedImport = errors.New("exchange: malformed import document")
	ErrUnknownMode     = errors.New("exchange: unknown import mode")
)

// ImportError describes why a document could not be read.
type ImportError struct {
	Kind error
	Msg  string
	Err  error
}

func (e *ImportError) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Kind.Error()
	if e.Msg != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *ImportError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func malformed(msg string, err error) error {
	return &ImportError{Kind: ErrMalformedImport, Msg: msg, Err: err}
}
