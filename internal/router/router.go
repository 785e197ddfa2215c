package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"marina-frontdesk/internal/handlers"
	"marina-frontdesk/internal/middleware"
	"marina-frontdesk/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	chatLimiter *middleware.RateLimiter,
	chatHandler *handlers.ChatHandler,
	roomHandler *handlers.RoomHandler,
	reservationHandler *handlers.ReservationHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Guest Routes (rate limited per IP) ────
		r.Group(func(r chi.Router) {
			r.Use(chatLimiter.Middleware)
			r.Post("/chat", chatHandler.Chat)
			r.Post("/conversations/respond", chatHandler.Converse)
		})

		r.Get("/rooms", roomHandler.List)

		// ──── Staff Routes ────
		r.Route("/staff", func(r chi.Router) {
			r.With(jwtAuth.Middleware).Post("/reservations", reservationHandler.Reserve)

			// Token is checked by the hub; browsers cannot send headers on upgrade.
			r.Get("/ws", wsHub.HandleWebSocket)
		})
	})

	return r
}
