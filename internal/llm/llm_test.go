package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		err    error
		want   error
	}{
		{name: "429", status: 429, err: errors.New("quota"), want: ErrRateLimited},
		{name: "503", status: 503, err: errors.New("overloaded"), want: ErrUnavailable},
		{name: "408", status: 408, err: errors.New("timeout"), want: ErrUnavailable},
		{name: "400", status: 400, err: errors.New("bad request"), want: ErrUnexpected},
		{name: "deadline", err: fmt.Errorf("post: %w", context.DeadlineExceeded), want: ErrUnavailable},
		{name: "canceled", err: context.Canceled, want: ErrUnexpected},
		{name: "net op error", err: &net.OpError{Op: "dial", Err: errors.New("refused")}, want: ErrUnavailable},
		{name: "reset string", err: errors.New("read: connection reset by peer"), want: ErrUnavailable},
		{name: "other", err: errors.New("empty response"), want: ErrUnexpected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fmt.Errorf("generate: %w", NewError("test", tt.status, tt.err))
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			for _, other := range []error{ErrRateLimited, ErrUnavailable, ErrUnexpected} {
				if other != tt.want {
					assert.False(t, errors.Is(err, other), "unexpected match %v", other)
				}
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindRateLimited, KindOf(NewError("gemini", 429, nil)))
	assert.Equal(t, KindUnavailable, KindOf(context.DeadlineExceeded))
	assert.Equal(t, KindUnexpected, KindOf(errors.New("boom")))
}

func TestErrorMessage(t *testing.T) {
	err := NewError("gemini", 429, errors.New("RESOURCE_EXHAUSTED"))
	assert.Equal(t, "gemini: rate_limited (http status 429): RESOURCE_EXHAUSTED", err.Error())
	assert.True(t, errors.Is(err, err.Err))
}
