// Package appctx carries process-wide collaborators through cobra command contexts.
package appctx

import (
	"context"

	"github.com/vulntor/uihost/pkg/config"
	"github.com/vulntor/uihost/pkg/portalloc"
)

type key string

const (
	configKey    key = "uihost.config.manager"
	listenersKey key = "uihost.portalloc.listeners"
)

// WithConfig stores the shared config manager on context.
func WithConfig(ctx context.Context, manager *config.Manager) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, configKey, manager)
}

// Config retrieves the shared config manager from context.
func Config(ctx context.Context) (*config.Manager, bool) {
	if ctx == nil {
		return nil, false
	}
	mgr, ok := ctx.Value(configKey).(*config.Manager)
	return mgr, ok && mgr != nil
}

// WithListeners overrides the listener snapshot used for port allocation.
func WithListeners(ctx context.Context, src portalloc.ListenerSource) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, listenersKey, src)
}

// Listeners returns the listener source stored on ctx, or nil so callers
// fall back to the system table.
func Listeners(ctx context.Context) portalloc.ListenerSource {
	if ctx == nil {
		return nil
	}
	src, _ := ctx.Value(listenersKey).(portalloc.ListenerSource)
	return src
}
