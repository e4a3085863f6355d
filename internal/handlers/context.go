package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aaronzipp/distance-resistance/internal/sse"
	"github.com/aaronzipp/distance-resistance/internal/store"
)

// Context holds shared application dependencies
type Context struct {
	Registry      *store.Registry
	Hub           *sse.Hub
	PublicBaseURL string
	// RateLimitPerMinute caps mutating requests per client IP; 0 disables it
	RateLimitPerMinute int
}

// Routes builds the HTTP router
func (ctx *Context) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)

	r.Get("/healthz", ctx.HandleHealth)
	r.Handle("/metrics", promhttp.Handler())

	limit := func(next http.Handler) http.Handler { return next }
	if ctx.RateLimitPerMinute > 0 {
		limit = httprate.LimitByIP(ctx.RateLimitPerMinute, time.Minute)
	}

	r.Route("/sessions", func(r chi.Router) {
		r.With(limit).Post("/", ctx.HandleCreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(ctx.canonicalSessionPath)
			r.Group(func(r chi.Router) {
				r.Use(limit)
				r.Post("/join", ctx.HandleJoin)
				r.Put("/name", ctx.HandleChangeName)
				r.Post("/start", ctx.HandleStart)
				r.Post("/operatives", ctx.HandleChooseOperatives)
				r.Post("/approvals", ctx.HandleVote)
				r.Post("/mission", ctx.HandleMission)
			})
			r.Get("/", ctx.HandleGetSession)
			r.Get("/me", ctx.HandleMe)
			r.Get("/events", ctx.HandleEvents)
			r.Get("/qr", ctx.HandleQR)
		})
	})
	return r
}

// HandleHealth reports liveness
func (ctx *Context) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": ctx.Registry.Len()})
}
