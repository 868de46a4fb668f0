package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "message only",
			err:  New(ErrCodeInvalidTheme, "theme %q not found", "noir_2"),
			want: `INVALID_THEME: theme "noir_2" not found`,
		},
		{
			name: "with cause",
			err:  Wrap(ErrCodeNetwork, errors.New("connection reset"), "street network for %s", "paris"),
			want: "NETWORK_ERROR: street network for paris: connection reset",
		},
		{
			name: "empty message",
			err:  New(ErrCodeNoData, ""),
			want: "NO_MAP_DATA: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("overpass: 504 gateway timeout")
	err := Wrap(ErrCodeTimeout, cause, "water features")

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}
	if New(ErrCodeInvalidPin, "unknown pin").Unwrap() != nil {
		t.Error("Unwrap() of an unwrapped error should be nil")
	}
}

func TestCodeLookups(t *testing.T) {
	geocode := New(ErrCodeGeocode, "no match for %q", "Atlantis")
	stdWrapped := fmt.Errorf("render: %w", geocode)
	nested := Wrap(ErrCodeRender, New(ErrCodeInvalidFont, "font %q not found", "Lato"), "poster")

	tests := []struct {
		name     string
		err      error
		code     Code
		is       bool
		wantCode Code
		message  string
	}{
		{
			name:     "direct",
			err:      geocode,
			code:     ErrCodeGeocode,
			is:       true,
			wantCode: ErrCodeGeocode,
			message:  `no match for "Atlantis"`,
		},
		{
			name:     "through fmt wrapping",
			err:      stdWrapped,
			code:     ErrCodeGeocode,
			is:       true,
			wantCode: ErrCodeGeocode,
			message:  `no match for "Atlantis"`,
		},
		{
			name:     "outermost code wins",
			err:      nested,
			code:     ErrCodeInvalidFont,
			is:       false,
			wantCode: ErrCodeRender,
			message:  `poster: font "Lato" not found`,
		},
		{
			name:     "different code",
			err:      New(ErrCodeInvalidPin, "pin %q", "rocket"),
			code:     ErrCodeInvalidInput,
			is:       false,
			wantCode: ErrCodeInvalidPin,
			message:  `pin "rocket"`,
		},
		{
			name:     "plain error",
			err:      errors.New("disk full"),
			code:     ErrCodeInternal,
			is:       false,
			wantCode: "",
			message:  "disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.is {
				t.Errorf("Is(%s) = %v, want %v", tt.code, got, tt.is)
			}
			if got := GetCode(tt.err); got != tt.wantCode {
				t.Errorf("GetCode() = %q, want %q", got, tt.wantCode)
			}
			if got := UserMessage(tt.err); got != tt.message {
				t.Errorf("UserMessage() = %q, want %q", got, tt.message)
			}
		})
	}
}

func TestNilLookups(t *testing.T) {
	if Is(nil, ErrCodeNoData) {
		t.Error("Is(nil) should be false")
	}
	if GetCode(nil) != "" {
		t.Error("GetCode(nil) should be empty")
	}
}

func TestRateLimitedError(t *testing.T) {
	tests := []struct {
		err  *RateLimitedError
		want string
	}{
		{&RateLimitedError{RetryAfter: 30, Service: "overpass"}, "overpass rate limited: retry after 30 seconds"},
		{&RateLimitedError{Service: "nominatim"}, "nominatim rate limited"},
		{&RateLimitedError{}, "service rate limited"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
		if tt.err.Code() != ErrCodeRateLimited {
			t.Errorf("Code() = %s, want %s", tt.err.Code(), ErrCodeRateLimited)
		}
	}

	wrapped := Wrap(ErrCodeNetwork, &RateLimitedError{RetryAfter: 5, Service: "overpass"}, "fetch")
	var rl *RateLimitedError
	if !errors.As(wrapped, &rl) || rl.RetryAfter != 5 {
		t.Errorf("errors.As did not recover RateLimitedError from %v", wrapped)
	}
	if !strings.Contains(wrapped.Error(), "retry after 5") {
		t.Errorf("wrapped message lost the retry hint: %s", wrapped)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"cancelled", fmt.Errorf("fetch: %w", context.Canceled), ExitCancelled},
		{"invalid pin", New(ErrCodeInvalidPin, "pin %q", "rocket"), ExitUsage},
		{"invalid format", New(ErrCodeInvalidFormat, "format"), ExitUsage},
		{"geocode", New(ErrCodeGeocode, "no match"), ExitNotFound},
		{"no map data", Wrap(ErrCodeNoData, errors.New("empty"), "streets"), ExitNotFound},
		{"timeout", New(ErrCodeTimeout, "overpass"), ExitNetwork},
		{"rate limited", &RateLimitedError{RetryAfter: 10}, ExitNetwork},
		{"render", New(ErrCodeRender, "rsvg-convert missing"), ExitFailure},
		{"plain", errors.New("disk full"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
