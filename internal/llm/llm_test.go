package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestKindForStatus(t *testing.T) {
	cases := []struct {
		status int
		want   Kind
	}{
		{http.StatusUnauthorized, KindAuthFailure},
		{http.StatusForbidden, KindAuthFailure},
		{http.StatusTooManyRequests, KindRateLimited},
		{http.StatusGatewayTimeout, KindTimeout},
		{http.StatusBadRequest, KindModelError},
		{http.StatusInternalServerError, KindModelError},
		{http.StatusServiceUnavailable, KindModelError},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.status), func(t *testing.T) {
			if got := KindForStatus(tc.status); got != tc.want {
				t.Fatalf("status %d: got %s want %s", tc.status, got, tc.want)
			}
		})
	}
}

func TestTransportError(t *testing.T) {
	if err := TransportError("groq", context.DeadlineExceeded); !errors.Is(err, ErrTimeout) {
		t.Fatalf("deadline should be a timeout, got %v", err)
	}
	wrapped := &net.OpError{Op: "dial", Err: timeoutErr{}}
	if err := TransportError("groq", wrapped); !errors.Is(err, ErrTimeout) {
		t.Fatalf("net timeout should be a timeout, got %v", err)
	}
	if err := TransportError("groq", errors.New("connection refused")); !errors.Is(err, ErrNetworkFailure) {
		t.Fatalf("expected network failure, got %v", err)
	}
}

func TestErrorIsMatchesKindOnly(t *testing.T) {
	err := fmt.Errorf("summarize: %w", &Error{Kind: KindRateLimited, Provider: "groq", Status: 429, Err: errors.New("slow down")})
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected rate limited match")
	}
	if errors.Is(err, ErrAuthFailure) {
		t.Fatalf("unexpected auth failure match")
	}
	if got := err.Error(); got != "summarize: groq rate_limited (status 429): slow down" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestSafeReasonNeverLeaksInternals(t *testing.T) {
	secret := "sk-live-123 stack trace at handler.go:42"
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"auth", &Error{Kind: KindAuthFailure, Status: 401, Err: errors.New(secret)}, "authentication with the language model failed"},
		{"rate", &Error{Kind: KindRateLimited, Err: errors.New(secret)}, "the language model is receiving too many requests"},
		{"network", &Error{Kind: KindNetworkFailure, Err: errors.New(secret)}, "the language model could not be reached"},
		{"model", fmt.Errorf("wrapped: %w", &Error{Kind: KindModelError, Err: errors.New(secret)}), "the language model returned an error"},
		{"timeout", &Error{Kind: KindTimeout, Err: errors.New(secret)}, "the language model took too long to respond"},
		{"bare deadline", fmt.Errorf("%s: %w", secret, context.DeadlineExceeded), "the language model took too long to respond"},
		{"unknown", errors.New(secret), "the language model is temporarily unavailable"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := SafeReason(tc.err)
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
			if strings.Contains(got, "sk-live") || strings.Contains(got, "handler.go") {
				t.Fatalf("reason leaked internals: %q", got)
			}
		})
	}
	if SafeReason(nil) != "" {
		t.Fatalf("nil error should have no reason")
	}
}
