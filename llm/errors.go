package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/bitrise-io/sage/errs"
	cerr "github.com/cockroachdb/errors"
)

// ErrorKind classifies why a provider call failed.
type ErrorKind int

const (
	AuthFailure ErrorKind = iota + 1
	NetworkFailure
	RateLimited
	MalformedResponse
	ProviderRefused
	ServiceError
)

func (k ErrorKind) String() string {
	switch k {
	case AuthFailure:
		return "authentication failed"
	case NetworkFailure:
		return "network failure"
	case RateLimited:
		return "rate limited"
	case MalformedResponse:
		return "malformed response"
	case ProviderRefused:
		return "request refused"
	case ServiceError:
		return "service error"
	}
	return "unknown error"
}

func (k ErrorKind) hint() string {
	switch k {
	case AuthFailure:
		return "check your API key with `sage config --show`, or replace it with `sage config --provider <name> --update-key <key>`"
	case NetworkFailure:
		return "check your connection, or raise `timeout` in the config if the provider is slow"
	case RateLimited:
		return "wait a moment and retry, or check the quota of your plan"
	case MalformedResponse:
		return "the provider returned an unexpected payload; try again or switch model with `sage config --model`"
	case ProviderRefused:
		return "the provider declined the request; adjust the diff or the --context text"
	case ServiceError:
		return "the provider is having trouble; try again later"
	}
	return ""
}

// ProviderError is a classified provider failure.
type ProviderError struct {
	Kind       ErrorKind
	Provider   string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Provider, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is reports the provider error category.
func (e *ProviderError) Is(target error) bool {
	return target == errs.ErrProvider
}

func newProviderError(kind ErrorKind, provider string, status int, err error) error {
	return cerr.WithHint(&ProviderError{
		Kind:       kind,
		Provider:   provider,
		StatusCode: status,
		Err:        err,
	}, kind.hint())
}

// KindOf returns the classification of err, or 0 when err is not a
// provider error.
func KindOf(err error) ErrorKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return 0
}

func classifyStatus(status int) ErrorKind {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return AuthFailure
	case status == http.StatusTooManyRequests:
		return RateLimited
	case status == http.StatusRequestTimeout, status == http.StatusGatewayTimeout:
		return NetworkFailure
	}
	return ServiceError
}

// classifyTransport handles failures without an HTTP status: an undecodable
// body is malformed, everything else failed on the way.
func classifyTransport(err error) ErrorKind {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
	)
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return MalformedResponse
	}
	return NetworkFailure
}
