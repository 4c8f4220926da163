package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kozaktomas/face-stream/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	streamHandler := handlers.NewStreamHandler(s.pipe)
	facesHandler := handlers.NewFacesHandler(s.pipe)
	configHandler := handlers.NewConfigHandler(s.config)

	// The MJPEG stream lives outside the timeout group; it writes for as
	// long as the client watches.
	s.router.Get("/video", streamHandler.Get)

	// API routes
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(chiMiddleware.Timeout(30 * time.Second))

		r.Get("/health", handlers.HealthCheck)
		r.Get("/faces", facesHandler.Get)
		r.Get("/config", configHandler.Get)
	})

	s.router.Get("/", s.serveIndex)
}

// serveIndex serves a minimal page embedding the stream, handy for checking
// the service without a separate frontend.
func (s *Server) serveIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`<!DOCTYPE html>
<html>
<head>
    <title>Face Stream</title>
    <style>
        body { font-family: system-ui, sans-serif; display: flex; justify-content: center; align-items: center; flex-direction: column; height: 100vh; margin: 0; background: #1a1a2e; color: #eee; }
        h1 { color: #00d9ff; }
        img { max-width: 90vw; border-radius: 8px; }
        a { color: #00d9ff; }
    </style>
</head>
<body>
    <h1>Face Stream</h1>
    <img src="/video" alt="live stream">
    <p>Tracking data at <a href="/api/v1/faces">/api/v1/faces</a></p>
</body>
</html>`))
}
