package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/vulntor/uihost/pkg/assets"
	"github.com/vulntor/uihost/pkg/portalloc"
)

// Deps holds dependencies for the server application.
// This pattern enables dependency injection and easier testing.
type Deps struct {
	// Assets is the embedded UI bundle, already rooted at its namespace prefix.
	Assets assets.Source

	// Listeners supplies the active-listener snapshot for port allocation.
	// Nil uses the system connection table.
	Listeners portalloc.ListenerSource

	// Registry receives the HTTP collectors. Nil creates a private registry.
	Registry *prometheus.Registry

	// Logger for structured logging (injected by caller)
	Logger zerolog.Logger
}
