package web

import (
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/jaminalder/connect-four/internal/app"
)

// Seat holds the fallback colour and name for one player slot.
type Seat struct {
	Name  string
	Color string
}

// ServerOption configures NewServer.
type ServerOption func(*handlers)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) ServerOption {
	return func(h *handlers) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithSeats sets the defaults used when the setup form leaves a field blank.
func WithSeats(p1, p2 Seat) ServerOption {
	return func(h *handlers) { h.seats = [2]Seat{p1, p2} }
}

// WithHeartbeat sets the SSE keep-alive interval.
func WithHeartbeat(d time.Duration) ServerOption {
	return func(h *handlers) {
		if d > 0 {
			h.heartbeat = d
		}
	}
}

// NewServer wires routes and returns an http.Handler. It installs the board
// fragment as the service's broadcast renderer.
func NewServer(s *app.Service, opts ...ServerOption) http.Handler {
	h := &handlers{
		svc:       s,
		tpl:       loadTemplates(),
		logger:    log.New(io.Discard),
		seats:     [2]Seat{{Name: "P1", Color: "red"}, {Name: "P2", Color: "gold"}},
		heartbeat: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(h)
	}
	s.SetRenderer(h.renderBoard)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)
	r.Get("/", h.index)
	r.Post("/game", h.create)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", h.view)
		r.Post("/play", h.play)
		r.Get("/events", h.events)
	})
	return r
}

func (h *handlers) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "dur", time.Since(start))
	})
}
