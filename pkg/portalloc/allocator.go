// Package portalloc finds a free TCP port on the local host within a bounded range.
//
// The allocator takes a single snapshot of the host's active TCP listeners and
// returns the first port of [start, start+span] that is not in it. The snapshot
// is not a reservation: another process may bind the returned port before the
// caller does, which callers must surface as a bind failure.
package portalloc

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// MaxPort is the highest valid TCP port.
const MaxPort = 65535

var (
	// ErrPortRangeExhausted indicates every port of the scanned range was in use.
	ErrPortRangeExhausted = errors.New("port range exhausted")
	// ErrInvalidRange indicates a start port or span outside the TCP port space.
	ErrInvalidRange = errors.New("invalid port range")
	// ErrListenerSnapshot indicates the active listener table could not be read.
	ErrListenerSnapshot = errors.New("listener snapshot failed")
)

// RangeError describes a failed scan over [Start, End].
type RangeError struct {
	Start int
	End   int
	Err   error
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("couldn't find open port within range %d - %d: %v", e.Start, e.End, e.Err)
}

func (e *RangeError) Unwrap() error {
	return e.Err
}

// Allocator scans a port range against a ListenerSource.
type Allocator struct {
	listeners ListenerSource
	logger    zerolog.Logger
}

// Option configures an Allocator.
type Option func(*Allocator)

// WithLogger sets the logger used for scan diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Allocator) {
		a.logger = logger
	}
}

// New returns an Allocator that reads listeners from src.
// A nil src falls back to the host's listener table.
func New(src ListenerSource, opts ...Option) *Allocator {
	if src == nil {
		src = SystemListeners{}
	}
	a := &Allocator{
		listeners: src,
		logger:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Allocate returns the smallest port in [start, start+span] that has no active
// listener. The upper bound is inclusive, so span=0 probes exactly one port.
func (a *Allocator) Allocate(ctx context.Context, start, span int) (int, error) {
	end, err := Bounds(start, span)
	if err != nil {
		return 0, err
	}

	active, err := a.listeners.ActivePorts(ctx)
	if err != nil {
		return 0, &RangeError{Start: start, End: end, Err: fmt.Errorf("%w: %w", ErrListenerSnapshot, err)}
	}

	a.logger.Debug().
		Int("start", start).
		Int("end", end).
		Int("listeners", len(active)).
		Msg("Scanning for free port")

	for candidate := start; candidate <= end; candidate++ {
		if !active.Contains(candidate) {
			a.logger.Debug().Int("port", candidate).Msg("Port allocated")
			return candidate, nil
		}
		a.logger.Trace().Int("port", candidate).Msg("Port in use, skipping")
	}

	return 0, &RangeError{Start: start, End: end, Err: ErrPortRangeExhausted}
}

// Bounds validates start and span and returns the inclusive upper bound.
func Bounds(start, span int) (int, error) {
	if start < 1 || start > MaxPort {
		return 0, fmt.Errorf("%w: start port %d must be between 1 and %d", ErrInvalidRange, start, MaxPort)
	}
	if span < 0 {
		return 0, fmt.Errorf("%w: span %d must not be negative", ErrInvalidRange, span)
	}
	if start+span > MaxPort {
		return 0, fmt.Errorf("%w: range %d - %d exceeds port %d", ErrInvalidRange, start, start+span, MaxPort)
	}
	return start + span, nil
}
