package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"marina-frontdesk/internal/config"
	"marina-frontdesk/internal/database"
	"marina-frontdesk/internal/events"
	"marina-frontdesk/internal/handlers"
	"marina-frontdesk/internal/logger"
	"marina-frontdesk/internal/middleware"
	"marina-frontdesk/internal/router"
	"marina-frontdesk/internal/services"
	"marina-frontdesk/internal/websocket"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			return err
		}
		if cfg.JWTSecret == "" {
			return errors.New("JWT_SECRET is required to serve the staff API")
		}

		log, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat, "marina-frontdesk")
		if err != nil {
			return err
		}
		defer log.Sync()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return serve(ctx, cfg, log)
	},
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger) error {
	// ──── Inventory Store ────
	db, roomRepo, err := openInventory(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()
	log.Info("inventory store ready")

	// ──── Booking Events ────
	var (
		publisher services.ReservationPublisher = events.NewLogPublisher(log)
		feed      *redis.Client
	)
	if cfg.RedisURL != "" {
		redisClients, err := database.NewRedisClients(cfg.RedisURL)
		if err != nil {
			return err
		}
		defer redisClients.Close()
		publisher = events.NewRedisPublisher(redisClients.Publisher)
		feed = redisClients.PubSub
		log.Info("redis connected, staff booking feed enabled")
	}

	wsHub := websocket.NewHub(feed, cfg.JWTSecret, log)
	go wsHub.Run(ctx)

	// ──── Assistant ────
	reasoner, closeReasoner, err := newReasoner(cfg)
	if err != nil {
		return err
	}
	defer closeReasoner()

	opts, err := receptionistOptions(ctx, cfg)
	if err != nil {
		return err
	}

	roomService := services.NewRoomService(roomRepo)
	reservationService := services.NewReservationService(roomRepo, publisher, log)
	receptionist := services.NewReceptionist(reasoner, roomService, reservationService, opts, log)
	log.Info("receptionist ready",
		zap.String("provider", cfg.ReasonerProvider),
		zap.Int("max_tool_rounds", cfg.MaxToolRounds),
		zap.Bool("speech", opts.Speech != nil),
		zap.Bool("images", opts.Images != nil),
	)

	// ──── HTTP Server ────
	chatLimiter := middleware.NewRateLimiter(cfg.ChatRateLimit, time.Minute)
	go chatLimiter.StartCleanup(ctx)

	r := router.New(
		middleware.NewJWTAuth(cfg.JWTSecret),
		chatLimiter,
		handlers.NewChatHandler(receptionist, log),
		handlers.NewRoomHandler(roomService, log),
		handlers.NewReservationHandler(reservationService, log),
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:        fmt.Sprintf(":%s", cfg.Port),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		// A rich turn may chain several model calls, an image and speech.
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Warn("http shutdown", zap.Error(err))
		}
	}()

	log.Info("front desk ready", zap.String("addr", server.Addr), zap.Int("pid", os.Getpid()))
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
