// pkg/server/server.go
package server

import (
	"context"
	"os"
	"os/signal"
	"sync"

	"github.com/rs/zerolog"
)

// Server supervises process-level concerns of a running uihost: operator
// signals (log rotation) and the stop handshake between the signal context
// and the command that blocks in Wait.
type Server struct {
	signals  chan os.Signal
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	logger   zerolog.Logger

	// rotate is invoked on SIGUSR1.
	rotate func() error
}

// NewServer creates a Server. rotate may be nil.
func NewServer(logger zerolog.Logger, rotate func() error) *Server {
	srv := &Server{
		signals:  make(chan os.Signal, 1),
		stopChan: make(chan struct{}),
		logger:   logger.With().Str("component", "server").Logger(),
		rotate:   rotate,
	}

	srv.configureSignals()

	return srv
}

// Start begins signal handling. Cancelling ctx stops the server.
func (s *Server) Start(ctx context.Context) {
	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Stopping server gracefully...")
			s.Stop()
		case <-s.stopChan:
		}
	}()

	go func() {
		defer s.wg.Done()
		s.listenSignals(ctx)
	}()
}

// Wait blocks until Stop is called or the start context is cancelled.
func (s *Server) Wait() {
	<-s.stopChan
}

// Stop releases Wait. Safe to call more than once.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		s.logger.Debug().Msg("Server stop requested")
	})
}

// Close stops signal delivery and waits for the supervisor goroutines.
func (s *Server) Close() {
	s.Stop()
	signal.Stop(s.signals)
	s.wg.Wait()
}
