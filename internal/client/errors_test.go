package client

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
	"testing"
)

func TestErrorType_String(t *testing.T) {
	tests := []struct {
		errType ErrorType
		want    string
	}{
		{ErrTypeNetwork, "Network Error"},
		{ErrTypeAuth, "Authentication Error"},
		{ErrTypeHTTP, "HTTP Error"},
		{ErrTypeParse, "Parse Error"},
		{ErrTypeValidation, "Validation Error"},
		{ErrTypeRejected, "Rejected"},
		{ErrTypeTimeout, "Timeout"},
		{ErrTypeConnectionRefused, "Connection Refused"},
		{ErrTypeDNS, "DNS Error"},
		{ErrorType(99), "ErrorType(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.errType.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyNetworkError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantType  ErrorType
		retryable bool
	}{
		{
			name:      "connection refused",
			err:       &net.OpError{Op: "dial", Err: syscall.ECONNREFUSED},
			wantType:  ErrTypeConnectionRefused,
			retryable: true,
		},
		{
			name:      "host unreachable",
			err:       &net.OpError{Op: "dial", Err: syscall.EHOSTUNREACH},
			wantType:  ErrTypeNetwork,
			retryable: true,
		},
		{
			name:     "dns",
			err:      &net.DNSError{Name: "mything.local", Err: "no such host"},
			wantType: ErrTypeDNS,
		},
		{
			name:      "timeout",
			err:       &net.DNSError{Name: "x", IsTimeout: true},
			wantType:  ErrTypeTimeout,
			retryable: true,
		},
		{
			name:      "generic",
			err:       errors.New("boom"),
			wantType:  ErrTypeNetwork,
			retryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyNetworkError(tt.err)
			if got.Type != tt.wantType {
				t.Errorf("Type = %v, want %v", got.Type, tt.wantType)
			}
			if got.Retryable != tt.retryable {
				t.Errorf("Retryable = %v, want %v", got.Retryable, tt.retryable)
			}
			if !errors.Is(got, tt.err) {
				t.Error("classified error should wrap the cause")
			}
		})
	}

	if ClassifyNetworkError(nil) != nil {
		t.Error("nil error should classify to nil")
	}
}

func TestHTTPErrorRetryable(t *testing.T) {
	if !NewHTTPError(500, "x").Retryable {
		t.Error("5xx should be retryable")
	}
	if NewHTTPError(404, "x").Retryable {
		t.Error("4xx should not be retryable")
	}
}

func TestPredicatesSeeWrappedErrors(t *testing.T) {
	err := fmt.Errorf("set: %w", NewRejectedError(map[string]string{"b": "bad", "a": "worse"}))
	if !IsRejectedError(err) {
		t.Error("IsRejectedError should unwrap")
	}
	if IsAuthError(err) || IsNetworkError(err) {
		t.Error("wrong predicate matched")
	}
	if msg := err.Error(); !strings.Contains(msg, "a: worse; b: bad") {
		t.Errorf("field errors not listed in order: %s", msg)
	}
	if !strings.Contains(GetShortErrorMessage(NewAuthError("x")), "admin") {
		t.Error("auth hint should name the user")
	}
}
