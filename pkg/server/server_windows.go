// pkg/server/server_windows.go
//go:build windows

package server

import "context"

func (s *Server) configureSignals() {}

func (s *Server) listenSignals(ctx context.Context) {
	select {
	case <-ctx.Done():
	case <-s.stopChan:
	}
}
