package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// Summarizer turns one prompt into one free-text answer.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// Kind classifies summarization failures.
type Kind string

const (
	KindAuthFailure    Kind = "auth_failure"
	KindRateLimited    Kind = "rate_limited"
	KindNetworkFailure Kind = "network_failure"
	KindModelError     Kind = "model_error"
	KindTimeout        Kind = "timeout"
)

var (
	ErrAuthFailure    = &Error{Kind: KindAuthFailure}
	ErrRateLimited    = &Error{Kind: KindRateLimited}
	ErrNetworkFailure = &Error{Kind: KindNetworkFailure}
	ErrModelError     = &Error{Kind: KindModelError}
	ErrTimeout        = &Error{Kind: KindTimeout}
)

// Error is returned by every Summarizer implementation.
// Err may carry provider internals and must not reach users; see SafeReason.
type Error struct {
	Kind     Kind
	Provider string
	Status   int
	Err      error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Provider != "" {
		msg = e.Provider + " " + msg
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches the Err* sentinels by kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Err == nil && t.Provider == "" && t.Status == 0 && t.Kind == e.Kind
}

// KindForStatus maps an HTTP status from a provider onto a failure kind.
func KindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return KindAuthFailure
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return KindTimeout
	default:
		return KindModelError
	}
}

// TransportError classifies a failure that happened before a response arrived.
func TransportError(provider string, err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		return &Error{Kind: KindTimeout, Provider: provider, Err: err}
	}
	return &Error{Kind: KindNetworkFailure, Provider: provider, Err: err}
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

var safeReasons = map[Kind]string{
	KindAuthFailure:    "authentication with the language model failed",
	KindRateLimited:    "the language model is receiving too many requests",
	KindNetworkFailure: "the language model could not be reached",
	KindModelError:     "the language model returned an error",
	KindTimeout:        "the language model took too long to respond",
}

// SafeReason renders a failure as a short description that is safe to show a user.
// Provider messages, keys and status bodies never appear in the result.
func SafeReason(err error) string {
	if err == nil {
		return ""
	}
	var llmErr *Error
	if errors.As(err, &llmErr) {
		if reason, ok := safeReasons[llmErr.Kind]; ok {
			return reason
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return safeReasons[KindTimeout]
	}
	return "the language model is temporarily unavailable"
}
