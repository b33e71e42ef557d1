package server

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/vulntor/uihost/pkg/portalloc"
)

const (
	errorCodePortRangeExhausted = "SERVER_PORT_RANGE_EXHAUSTED"
	errorCodeBindFailed         = "SERVER_BIND_FAILED"
	errorCodeInvalidPort        = "SERVER_INVALID_PORT"
	errorCodeInvalidPortRange   = "SERVER_INVALID_PORT_RANGE"
	errorCodeConfigUnavailable  = "SERVER_CONFIG_UNAVAILABLE"
	errorCodeInvalidConfig      = "SERVER_INVALID_CONFIG"
	errorCodeAppInitFailed      = "SERVER_INIT_FAILED"
	errorCodeRuntimeFailed      = "SERVER_RUNTIME_FAILED"
)

var (
	// ErrBind indicates the server could not obtain its listening socket.
	ErrBind = errors.New("bind failed")
	// ErrInvalidPort indicates an invalid port flag value.
	ErrInvalidPort = errors.New("invalid port")
	// ErrInvalidPortRange indicates a port range that leaves 1..65535.
	ErrInvalidPortRange = errors.New("invalid port range")
	// ErrConfigUnavailable indicates the CLI context lacked a config manager.
	ErrConfigUnavailable = errors.New("config manager unavailable")
)

// BindError reports a failure to bind the listening socket. Err is either
// portalloc.ErrPortRangeExhausted (no candidate port) or the OS error from
// listening on Addr.
type BindError struct {
	Addr string
	Port int
	Err  error
}

func (e *BindError) Error() string {
	if e.Addr == "" {
		return fmt.Sprintf("%v: %v", ErrBind, e.Err)
	}
	return fmt.Sprintf("%v on %s: %v", ErrBind, e.Addr, e.Err)
}

// Unwrap exposes both ErrBind and the underlying cause to errors.Is.
func (e *BindError) Unwrap() []error {
	return []error{ErrBind, e.Err}
}

// Code reports the error code of the bind failure.
func (e *BindError) Code() string {
	if errors.Is(e.Err, portalloc.ErrPortRangeExhausted) {
		return errorCodePortRangeExhausted
	}
	return errorCodeBindFailed
}

type errorCoder interface {
	error
	Code() string
}

type withCodeError struct {
	error
	code string
}

func (e *withCodeError) Code() string {
	return e.code
}

func (e *withCodeError) Unwrap() error {
	return e.error
}

// WithErrorCode annotates err with a server error code.
func WithErrorCode(err error, code string) error {
	if err == nil {
		return nil
	}
	return &withCodeError{error: err, code: code}
}

// NewInvalidPortError formats an invalid port error with context.
func NewInvalidPortError(port int) error {
	return WithErrorCode(fmt.Errorf("%w: invalid port %d: must be between 1 and 65535", ErrInvalidPort, port), errorCodeInvalidPort)
}

// NewInvalidPortRangeError formats an invalid range error with context.
func NewInvalidPortRangeError(start, span int) error {
	return WithErrorCode(
		fmt.Errorf("%w: %d + %d: range must be non-negative and end at or below %d", ErrInvalidPortRange, start, span, portalloc.MaxPort),
		errorCodeInvalidPortRange,
	)
}

// WrapInvalidConfig annotates server config validation errors.
func WrapInvalidConfig(err error) error {
	if err == nil {
		return nil
	}
	return WithErrorCode(fmt.Errorf("invalid server configuration: %w", err), errorCodeInvalidConfig)
}

// WrapAppInit annotates server app creation failures.
func WrapAppInit(err error) error {
	if err == nil {
		return nil
	}
	return WithErrorCode(err, errorCodeAppInitFailed)
}

// WrapRuntime annotates server runtime failures.
func WrapRuntime(err error) error {
	if err == nil {
		return nil
	}
	return WithErrorCode(err, errorCodeRuntimeFailed)
}

// ErrorCode resolves a server error to its error code.
func ErrorCode(err error) string {
	if err == nil {
		return ""
	}

	// BindError is checked first so an init wrapper does not hide the cause.
	var bindErr *BindError
	if errors.As(err, &bindErr) {
		return bindErr.Code()
	}

	var coded errorCoder
	if errors.As(err, &coded) {
		if code := coded.Code(); code != "" {
			return code
		}
	}

	switch {
	case errors.Is(err, portalloc.ErrPortRangeExhausted):
		return errorCodePortRangeExhausted
	case errors.Is(err, ErrBind):
		return errorCodeBindFailed
	case errors.Is(err, ErrInvalidPort):
		return errorCodeInvalidPort
	case errors.Is(err, ErrInvalidPortRange), errors.Is(err, portalloc.ErrInvalidRange):
		return errorCodeInvalidPortRange
	case errors.Is(err, ErrConfigUnavailable):
		return errorCodeConfigUnavailable
	default:
		return errorCodeRuntimeFailed
	}
}

// ExitCode maps server errors to CLI exit codes.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	switch ErrorCode(err) {
	case errorCodeInvalidPort, errorCodeInvalidPortRange, errorCodeInvalidConfig:
		return 2
	case errorCodePortRangeExhausted:
		return 3
	case errorCodeBindFailed:
		return 4
	default:
		return 1
	}
}

// Suggestions provides CLI hints for server errors.
func Suggestions(err error) []string {
	if err == nil {
		return nil
	}

	switch ErrorCode(err) {
	case errorCodePortRangeExhausted:
		hints := []string{
			"Widen the scanned range:  uihost serve --port-range 200",
			"Move the range:           uihost serve --port-start 9000",
		}
		var rangeErr *portalloc.RangeError
		if errors.As(err, &rangeErr) {
			hints = append(hints, "Inspect listeners:        lsof -iTCP:"+strconv.Itoa(rangeErr.Start)+"-"+strconv.Itoa(rangeErr.End)+" -sTCP:LISTEN")
		}
		return hints
	case errorCodeBindFailed:
		return []string{
			"Another process may have taken the port after the scan; run the command again",
			"Binding all interfaces may need extra privileges; retry without --allow-local-access",
		}
	case errorCodeInvalidPort:
		return []string{
			"Use a port between 1 and 65535",
			"Example:                  uihost serve --port-start 8000",
		}
	case errorCodeInvalidPortRange:
		return []string{
			"Keep --port-start + --port-range at or below 65535",
			"Example:                  uihost serve --port-start 8000 --port-range 100",
		}
	case errorCodeConfigUnavailable:
		return []string{
			"Run via the uihost CLI so the config manager initializes",
		}
	case errorCodeInvalidConfig:
		return []string{
			"Check configuration values in config file",
			"Print the effective configuration: uihost config show",
		}
	case errorCodeAppInitFailed:
		return []string{
			"Retry with debug logging: uihost serve --debug",
			"Review configuration for invalid values",
		}
	case errorCodeRuntimeFailed:
		return []string{
			"Check server logs for runtime errors",
		}
	default:
		return nil
	}
}
