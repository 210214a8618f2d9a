package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Generator abstracts generative model providers. Generate performs a single blocking
// round-trip; failures are *Error values carrying exactly one Kind.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Kind classifies a model client failure.
type Kind int

const (
	KindUnexpected Kind = iota
	KindRateLimited
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unexpected"
	}
}

var (
	ErrRateLimited       = errors.New("model rate limited")
	ErrUnavailable       = errors.New("model unavailable")
	ErrUnexpected        = errors.New("model call failed")
	ErrMalformedResponse = errors.New("malformed model response")
)

// Error is the failure returned by Generator implementations.
type Error struct {
	Kind     Kind
	Provider string
	Status   int
	Err      error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Provider != "" {
		b.WriteString(e.Provider)
		b.WriteString(": ")
	}
	b.WriteString(e.Kind.String())
	if e.Status != 0 {
		fmt.Fprintf(&b, " (http status %d)", e.Status)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets callers match on kind with errors.Is(err, ErrRateLimited) and friends.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrRateLimited:
		return e.Kind == KindRateLimited
	case ErrUnavailable:
		return e.Kind == KindUnavailable
	case ErrUnexpected:
		return e.Kind == KindUnexpected
	}
	return false
}

// NewError classifies err (and the upstream HTTP status, if any) into an *Error.
func NewError(provider string, status int, err error) *Error {
	kind := classifyStatus(status)
	if status == 0 {
		kind = classifyErr(err)
	}
	return &Error{Kind: kind, Provider: provider, Status: status, Err: err}
}

// KindOf reports the failure kind of err. Errors that did not come from a Generator
// are classified by inspection.
func KindOf(err error) Kind {
	var modelErr *Error
	if errors.As(err, &modelErr) {
		return modelErr.Kind
	}
	return classifyErr(err)
}

func classifyStatus(status int) Kind {
	switch {
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status == http.StatusRequestTimeout, status >= 500:
		return KindUnavailable
	default:
		return KindUnexpected
	}
}

func classifyErr(err error) Kind {
	if err == nil {
		return KindUnexpected
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindUnavailable
	}
	if errors.Is(err, context.Canceled) {
		return KindUnexpected
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindUnavailable
	}

	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "client.timeout") ||
		strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "connection closed") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "tls handshake timeout") ||
		strings.Contains(msg, "no such host") {
		return KindUnavailable
	}
	return KindUnexpected
}
