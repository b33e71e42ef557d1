package server

import (
	"errors"
	"fmt"
	"strings"
	"syscall"
	"testing"

	"github.com/vulntor/uihost/pkg/portalloc"
)

func exhaustedBindError() error {
	return &BindError{
		Err: &portalloc.RangeError{Start: 8000, End: 8005, Err: portalloc.ErrPortRangeExhausted},
	}
}

func TestServerError_WithErrorCodeAndUnwrap(t *testing.T) {
	if WithErrorCode(nil, "X") != nil {
		t.Errorf("expected nil when err is nil")
	}

	base := errors.New("base")
	wrapped := WithErrorCode(base, "CODE123")
	if wrapped.(*withCodeError).Code() != "CODE123" {
		t.Errorf("expected CODE123")
	}
	if !errors.Is(wrapped, base) {
		t.Errorf("unwrap mismatch")
	}
}

func TestServerError_NewInvalidPortError(t *testing.T) {
	err := NewInvalidPortError(99999)
	if !errors.Is(err, ErrInvalidPort) {
		t.Errorf("expected invalid port err")
	}
	if ErrorCode(err) != errorCodeInvalidPort {
		t.Errorf("expected code invalid_port")
	}
	if !strings.Contains(err.Error(), "99999") {
		t.Errorf("expected port in message, got %q", err.Error())
	}
}

func TestServerError_NewInvalidPortRangeError(t *testing.T) {
	err := NewInvalidPortRangeError(65500, 100)
	if !errors.Is(err, ErrInvalidPortRange) {
		t.Errorf("expected invalid port range err")
	}
	if ErrorCode(err) != errorCodeInvalidPortRange {
		t.Errorf("expected code invalid_port_range")
	}
}

func TestServerError_BindErrorExhausted(t *testing.T) {
	err := exhaustedBindError()

	if !errors.Is(err, ErrBind) {
		t.Errorf("expected errors.Is(ErrBind)")
	}
	if !errors.Is(err, portalloc.ErrPortRangeExhausted) {
		t.Errorf("expected errors.Is(ErrPortRangeExhausted)")
	}
	if ErrorCode(err) != errorCodePortRangeExhausted {
		t.Errorf("expected port_range_exhausted, got %s", ErrorCode(err))
	}
	if !strings.Contains(err.Error(), "8000 - 8005") {
		t.Errorf("expected scanned range in message, got %q", err.Error())
	}
}

func TestServerError_BindErrorOS(t *testing.T) {
	err := &BindError{Addr: "127.0.0.1:8000", Port: 8000, Err: syscall.EADDRINUSE}

	if !errors.Is(err, ErrBind) {
		t.Errorf("expected errors.Is(ErrBind)")
	}
	if !errors.Is(err, syscall.EADDRINUSE) {
		t.Errorf("expected cause to be reachable")
	}
	if errors.Is(err, portalloc.ErrPortRangeExhausted) {
		t.Errorf("OS bind failure is not exhaustion")
	}
	if ErrorCode(err) != errorCodeBindFailed {
		t.Errorf("expected bind_failed, got %s", ErrorCode(err))
	}
	if !strings.Contains(err.Error(), "127.0.0.1:8000") {
		t.Errorf("expected address in message, got %q", err.Error())
	}
}

func TestServerError_BindErrorSurvivesWrapping(t *testing.T) {
	err := WrapAppInit(fmt.Errorf("create server: %w", exhaustedBindError()))

	if ErrorCode(err) != errorCodePortRangeExhausted {
		t.Errorf("expected port_range_exhausted through wrappers, got %s", ErrorCode(err))
	}
	if ExitCode(err) != 3 {
		t.Errorf("expected exit 3, got %d", ExitCode(err))
	}
}

func TestServerError_WrapInvalidConfig(t *testing.T) {
	if WrapInvalidConfig(nil) != nil {
		t.Errorf("expected nil for nil input")
	}
	e := errors.New("bad")
	err := WrapInvalidConfig(e)
	if !errors.Is(err, e) {
		t.Errorf("unwrap mismatch")
	}
	if ErrorCode(err) != errorCodeInvalidConfig {
		t.Errorf("expected invalid_config code")
	}
}

func TestServerError_WrapAppInit(t *testing.T) {
	if WrapAppInit(nil) != nil {
		t.Errorf("expected nil for nil input")
	}
	err := WrapAppInit(errors.New("s"))
	if ErrorCode(err) != errorCodeAppInitFailed {
		t.Errorf("expected app_init_failed code")
	}
}

func TestServerError_WrapRuntime(t *testing.T) {
	if WrapRuntime(nil) != nil {
		t.Errorf("expected nil for nil input")
	}
	err := WrapRuntime(errors.New("s"))
	if ErrorCode(err) != errorCodeRuntimeFailed {
		t.Errorf("expected runtime_failed code")
	}
}

func TestServerError_ErrorCodeBranches(t *testing.T) {
	if ErrorCode(nil) != "" {
		t.Errorf("expected empty for nil")
	}

	coded := WithErrorCode(errors.New("x"), "CUSTOM")
	if ErrorCode(coded) != "CUSTOM" {
		t.Errorf("expected CUSTOM")
	}

	tests := []struct {
		err  error
		want string
	}{
		{ErrInvalidPort, errorCodeInvalidPort},
		{ErrInvalidPortRange, errorCodeInvalidPortRange},
		{portalloc.ErrInvalidRange, errorCodeInvalidPortRange},
		{ErrConfigUnavailable, errorCodeConfigUnavailable},
		{portalloc.ErrPortRangeExhausted, errorCodePortRangeExhausted},
		{ErrBind, errorCodeBindFailed},
		{errors.New("random"), errorCodeRuntimeFailed},
	}
	for _, tt := range tests {
		if got := ErrorCode(tt.err); got != tt.want {
			t.Errorf("ErrorCode(%v) = %s, want %s", tt.err, got, tt.want)
		}
	}
}

func TestServerError_ExitCode(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{nil, 0},
		{NewInvalidPortError(0), 2},
		{NewInvalidPortRangeError(65535, 1), 2},
		{WrapInvalidConfig(errors.New("bad")), 2},
		{exhaustedBindError(), 3},
		{&BindError{Addr: ":8000", Port: 8000, Err: syscall.EACCES}, 4},
		{ErrConfigUnavailable, 1},
		{WrapAppInit(errors.New("x")), 1},
		{WrapRuntime(errors.New("x")), 1},
	}

	for _, tt := range tests {
		if got := ExitCode(tt.err); got != tt.expected {
			t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.expected)
		}
	}
}

func TestServerError_Suggestions(t *testing.T) {
	if Suggestions(nil) != nil {
		t.Errorf("expected nil suggestions for nil error")
	}

	errs := []error{
		exhaustedBindError(),
		&BindError{Addr: ":8000", Port: 8000, Err: syscall.EACCES},
		NewInvalidPortError(0),
		NewInvalidPortRangeError(65535, 1),
		ErrConfigUnavailable,
		WrapInvalidConfig(errors.New("bad")),
		WrapAppInit(errors.New("x")),
		WrapRuntime(errors.New("x")),
	}
	for _, err := range errs {
		if len(Suggestions(err)) == 0 {
			t.Errorf("expected suggestions for %s", ErrorCode(err))
		}
	}

	if Suggestions(WithErrorCode(errors.New("x"), "UNKNOWN")) != nil {
		t.Errorf("expected nil suggestions for unknown code")
	}

	hints := Suggestions(exhaustedBindError())
	if !strings.Contains(hints[len(hints)-1], "8000-8005") {
		t.Errorf("expected range hint, got %v", hints)
	}
}
