package insurance

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a failed chain read.
type ErrorKind string

const (
	KindNotFound ErrorKind = "NOT_FOUND"
	KindRPCError ErrorKind = "RPC_ERROR"
	KindTimeout  ErrorKind = "TIMEOUT"
)

// ReadError is the typed failure returned by every reader operation. The
// reader never retries; retry policy belongs to the assembler.
type ReadError struct {
	Kind   ErrorKind
	Op     string
	Detail string
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Op, e.Kind, e.Detail)
}

// Retryable reports whether the failure is worth one more attempt.
func (e *ReadError) Retryable() bool {
	return e.Kind == KindRPCError || e.Kind == KindTimeout
}

// AsReadError unwraps a ReadError from err.
func AsReadError(err error) (*ReadError, bool) {
	var re *ReadError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// IsNotFound reports whether err is a NOT_FOUND read failure.
func IsNotFound(err error) bool {
	re, ok := AsReadError(err)
	return ok && re.Kind == KindNotFound
}

func notFound(op, detail string) *ReadError {
	return &ReadError{Kind: KindNotFound, Op: op, Detail: detail}
}

// classify maps a transport error to the read taxonomy. Reverts mean the
// contract rejected the id, which this surface only does for absent entities.
func classify(op string, err error) *ReadError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &ReadError{Kind: KindTimeout, Op: op, Detail: err.Error()}
	case strings.Contains(err.Error(), "execution reverted"):
		return notFound(op, err.Error())
	default:
		return &ReadError{Kind: KindRPCError, Op: op, Detail: err.Error()}
	}
}
