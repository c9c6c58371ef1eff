package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lstbot/internal/builder"
	"lstbot/internal/config"
	"lstbot/internal/database"
	"lstbot/internal/handler"
	"lstbot/internal/lexicon"
	"lstbot/internal/middleware"
	"lstbot/internal/normalizer"
	"lstbot/internal/playback"
	"lstbot/internal/repository/postgres"
	"lstbot/internal/resolver"
	"lstbot/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting sign language bot")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	logger.Info("Configuration loaded successfully",
		zap.String("clips_dir", cfg.Clips.Dir),
		zap.String("default_language", string(cfg.DefaultLanguage)),
	)

	// Connect to database with retries
	db, err := database.Connect(cfg.DSN(), database.DefaultRetry, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connection established")

	if err := database.Migrate(db, database.DefaultMigrations, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepo(db)
	signRepo := postgres.NewSignRepo(db)
	translationRepo := postgres.NewTranslationRepo(db)

	// Lookup tables and catalog are immutable from here on
	lex, err := lexicon.Default()
	if err != nil {
		logger.Fatal("Failed to load lexicon", zap.Error(err))
	}
	logger.Info("Lexicon loaded", zap.Any("tables", lex.Stats()))

	signs, err := service.LoadCatalog(signRepo, service.DirSource(cfg.Clips.Dir, cfg.Clips.Manifest), logger)
	if err != nil {
		logger.Fatal("Failed to load sign catalog", zap.Error(err))
	}

	// Initialize services
	userService := service.NewUserService(userRepo, cfg.DefaultLanguage)
	translationService := service.NewTranslationService(
		normalizer.New(lex),
		resolver.New(lex),
		builder.New(signs, cfg.MaxSequenceLength, logger),
		translationRepo,
		logger,
	)
	statsService := service.NewStatsService(translationRepo, signs, cfg.HistoryRetentionDays, logger)

	// Initialize Telegram bot
	bot, err := tele.NewBot(tele.Settings{
		Token:  cfg.BotToken,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		logger.Fatal("Failed to create bot", zap.Error(err))
	}

	logger.Info("Telegram bot initialized")

	sessions := handler.NewSessions(bot, playback.NewFileLoader(cfg.Clips.Dir), cfg.Clips.IdleClip, logger)
	defer sessions.Close()

	bot.Use(middleware.Logging(logger), middleware.RegisterUser(userService, logger))

	h := handler.NewHandler(bot, userService, translationService, statsService, sessions, logger)
	h.RegisterHandlers()

	logger.Info("Handlers registered")

	// Start cleanup job in background
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go runCleanupJob(ctx, statsService, logger)

	// Start bot in background
	go func() {
		logger.Info("Bot started successfully", zap.Int("signs", signs.Len()))
		bot.Start()
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan

	logger.Info("Shutdown signal received, stopping bot...")

	// Graceful shutdown
	bot.Stop()
	cancel()

	logger.Info("Bot stopped gracefully")
}

// runCleanupJob runs periodic cleanup of old translations
func runCleanupJob(ctx context.Context, statsService *service.StatsService, logger *zap.Logger) {
	// Run cleanup once at startup
	if err := statsService.CleanupOldData(); err != nil {
		logger.Error("Failed to run initial cleanup", zap.Error(err))
	}

	// Then run every 24 hours
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cleanup job stopped")
			return
		case <-ticker.C:
			logger.Info("Running scheduled cleanup")
			if err := statsService.CleanupOldData(); err != nil {
				logger.Error("Failed to run scheduled cleanup", zap.Error(err))
			}
		}
	}
}
