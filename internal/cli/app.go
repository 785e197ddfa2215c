package cli

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"marina-frontdesk/internal/config"
	"marina-frontdesk/internal/database"
	"marina-frontdesk/internal/repository"
	"marina-frontdesk/internal/services"
)

// openInventory connects to Postgres and seeds the rooms table on first use.
func openInventory(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*sql.DB, *repository.RoomRepo, error) {
	db, err := database.NewPostgresDB(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	repo := repository.NewRoomRepo(db)
	seeded, err := repo.Initialize(ctx)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to initialize inventory: %w", err)
	}
	if seeded {
		logger.Info("inventory seeded", zap.Int("rooms", len(repository.SeedRooms)))
	}
	return db, repo, nil
}

// newReasoner picks the model provider. The returned close func is never nil.
func newReasoner(cfg *config.Config) (services.Reasoner, func() error, error) {
	switch cfg.ReasonerProvider {
	case config.ProviderOpenAI:
		return services.NewOpenAIReasoner(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel), func() error { return nil }, nil
	default:
		g, err := services.NewGeminiReasoner(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiConcurrentReqs)
		if err != nil {
			return nil, nil, err
		}
		return g, g.Close, nil
	}
}

// receptionistOptions wires the prompt, round cap and, when configured, speech and images.
func receptionistOptions(ctx context.Context, cfg *config.Config) (services.ReceptionistOptions, error) {
	profile, err := config.LoadHotelProfile(cfg.HotelProfilePath)
	if err != nil {
		return services.ReceptionistOptions{}, err
	}

	opts := services.ReceptionistOptions{
		SystemPrompt:  services.BuildSystemPrompt(profile),
		MaxToolRounds: cfg.MaxToolRounds,
	}
	if !cfg.MediaEnabled() {
		return opts, nil
	}

	studio, err := services.NewMediaStudio(ctx, cfg.GeminiAPIKey, cfg.SpeechModel, cfg.SpeechVoice, cfg.ImageModel)
	if err != nil {
		return opts, err
	}
	if cfg.SpeechModel != "" {
		opts.Speech = studio
	}
	if cfg.ImageModel != "" {
		opts.Images = studio
	}
	return opts, nil
}
