package ui

import (
	"bytes"
	"errors"
	"mime"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"

	"github.com/vulntor/uihost/pkg/assets"
	"github.com/vulntor/uihost/pkg/config"
)

// NewHandler creates an HTTP handler for serving UI assets from src.
//
// Routing:
//   - Paths ending in "/" serve the default document of that directory
//   - A directory path without the trailing slash redirects to the slash form
//   - Everything else serves the matching asset or 404
//
// With cfg.SPAFallback set, extension-less routes that miss fall back to the
// root default document so client-side routers can take over.
func NewHandler(cfg config.UIConfig, src assets.Source, logger zerolog.Logger) http.Handler {
	doc := cfg.DefaultDocument
	if doc == "" {
		doc = "index.html"
	}

	logger.Debug().
		Str("component", "ui").
		Str("default_document", doc).
		Bool("spa_fallback", cfg.SPAFallback).
		Msg("Serving UI from embedded assets")

	return &staticHandler{
		src:             src,
		defaultDocument: doc,
		spa:             cfg.SPAFallback,
		logger:          logger.With().Str("component", "ui").Logger(),
	}
}

type staticHandler struct {
	src             assets.Source
	defaultDocument string
	spa             bool
	logger          zerolog.Logger
}

func (h *staticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	urlPath := r.URL.Path
	if !strings.HasPrefix(urlPath, "/") {
		urlPath = "/" + urlPath
	}

	name, ok := assets.Normalize(urlPath)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if strings.HasSuffix(urlPath, "/") {
		name = path.Join(name, h.defaultDocument)
	}

	data, err := h.src.Lookup(name)
	switch {
	case err == nil:
		h.serve(w, r, name, data)
	case errors.Is(err, assets.ErrNotFound):
		h.notFound(w, r, urlPath, name)
	default:
		h.logger.Error().Err(err).Str("path", urlPath).Msg("Failed to read asset")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *staticHandler) notFound(w http.ResponseWriter, r *http.Request, urlPath, name string) {
	if !strings.HasSuffix(urlPath, "/") && name != "." {
		if _, err := h.src.Lookup(path.Join(name, h.defaultDocument)); err == nil {
			target := urlPath + "/"
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusMovedPermanently)
			return
		}
	}

	if h.spa && !shouldServeFile(urlPath) {
		if data, err := h.src.Lookup(h.defaultDocument); err == nil {
			h.serve(w, r, h.defaultDocument, data)
			return
		}
	}

	h.logger.Debug().Str("path", urlPath).Msg("Asset not found")
	http.NotFound(w, r)
}

func (h *staticHandler) serve(w http.ResponseWriter, r *http.Request, name string, data []byte) {
	w.Header().Set("Content-Type", contentType(name, data))
	// Embedded files carry no modification time.
	http.ServeContent(w, r, name, time.Time{}, bytes.NewReader(data))
}

// contentType resolves the MIME type from the extension and falls back to
// sniffing the content.
func contentType(name string, data []byte) string {
	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		return ct
	}
	return mimetype.Detect(data).String()
}

// shouldServeFile reports whether a missing path names a file rather than a
// client-side route, in which case SPA fallback does not apply.
//
// Example:
//   - /assets/main.js → file (404 when missing)
//   - /dashboard → route (falls back to the default document)
//   - /settings/profile → route
func shouldServeFile(urlPath string) bool {
	if ext := path.Ext(urlPath); ext != "" && ext != ".html" {
		return true
	}

	if strings.HasPrefix(urlPath, "/assets/") ||
		strings.HasPrefix(urlPath, "/static/") ||
		strings.HasPrefix(urlPath, "/public/") {
		return true
	}

	return strings.HasPrefix(urlPath, "/favicon")
}
