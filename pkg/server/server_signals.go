// pkg/server/server_signals.go
//go:build !windows

package server

import (
	"context"
	"os/signal"
	"syscall"
)

func (s *Server) configureSignals() {
	signal.Notify(s.signals, syscall.SIGUSR1)
}

func (s *Server) listenSignals(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopChan:
			return
		case sig := <-s.signals:
			if sig == syscall.SIGUSR1 {
				s.logger.Info().Msgf("Closing and re-opening log files for rotation: %+v", sig)
				if s.rotate != nil {
					if err := s.rotate(); err != nil {
						s.logger.Error().Err(err).Msg("Error rotating log file")
					}
				}
			}
		}
	}
}
