package ai

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindForStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code int
		want Kind
	}{
		{code: http.StatusUnauthorized, want: KindUnauthorized},
		{code: http.StatusForbidden, want: KindUnknown},
		{code: http.StatusTooManyRequests, want: KindRateLimited},
		{code: http.StatusInternalServerError, want: KindTransport},
		{code: http.StatusBadGateway, want: KindTransport},
		{code: http.StatusBadRequest, want: KindUnknown},
		{code: http.StatusNotFound, want: KindUnknown},
	}

	for _, tt := range tests {
		if got := KindForStatus(tt.code); got != tt.want {
			t.Fatalf("status %d: expected %s, got %s", tt.code, tt.want, got)
		}
	}
}

func TestKindOfWrappedError(t *testing.T) {
	t.Parallel()

	base := &Error{Kind: KindUnauthorized, Provider: "openrouter", Model: "m1", StatusCode: 401, Err: errors.New("no auth")}
	wrapped := fmt.Errorf("generate: %w", base)

	if !IsUnauthorized(wrapped) {
		t.Fatalf("expected wrapped error to be unauthorized")
	}

	if got := KindOf(errors.New("401 Unauthorized")); got != KindUnknown {
		t.Fatalf("untyped errors must not be classified from text, got %s", got)
	}

	want := "openrouter model m1: unauthorized (status 401): no auth"
	if base.Error() != want {
		t.Fatalf("unexpected message: %q", base.Error())
	}
}
