package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shelfie-bot/shelfie/internal/common/clock"
	"github.com/shelfie-bot/shelfie/internal/common/uuid"
	"github.com/shelfie-bot/shelfie/internal/config"
	"github.com/shelfie-bot/shelfie/internal/handlers/discord"
	libraryRepo "github.com/shelfie-bot/shelfie/internal/repositories/library"
	sessionRepo "github.com/shelfie-bot/shelfie/internal/repositories/session"
	clubService "github.com/shelfie-bot/shelfie/internal/services/club"
	libraryService "github.com/shelfie-bot/shelfie/internal/services/library"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect to Redis", zap.Error(err))
	}

	// Initialize repositories
	sessions, err := sessionRepo.NewRedis(&sessionRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		logger.Fatal("failed to create session repository", zap.Error(err))
	}

	books, err := libraryRepo.NewRedis(&libraryRepo.Config{
		RedisClient: redisClient,
	})
	if err != nil {
		logger.Fatal("failed to create library repository", zap.Error(err))
	}

	// One Discord session shared by the bot and the announcer
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		logger.Fatal("failed to create Discord session", zap.Error(err))
	}

	announcer, err := discord.NewAnnouncer(dg, logger)
	if err != nil {
		logger.Fatal("failed to create announcer", zap.Error(err))
	}

	systemClock := &clock.DefaultClock{}

	// Initialize services
	clubSvc, err := clubService.New(&clubService.Config{
		SessionRepo: sessions,
		Registry:    clubService.NewRegistry(),
		Clock:       systemClock,
		UUID:        uuid.New(),
		Announcer:   announcer,
		Logger:      logger,
		PollWindow:  cfg.PollWindow,
	})
	if err != nil {
		logger.Fatal("failed to create club service", zap.Error(err))
	}

	librarySvc, err := libraryService.New(&libraryService.Config{
		LibraryRepo: books,
		Clock:       systemClock,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("failed to create library service", zap.Error(err))
	}

	// Reconciliation sweeper keeps deadlines honest even when nobody
	// interacts with the bot
	sweeper, err := clubService.NewSweeper(&clubService.SweeperConfig{
		Service:     clubSvc,
		SessionRepo: sessions,
		Clock:       systemClock,
		Interval:    cfg.SweepInterval,
		Logger:      logger,
	})
	if err != nil {
		logger.Fatal("failed to create sweeper", zap.Error(err))
	}

	sweepCtx, stopSweeper := context.WithCancel(context.Background())
	defer stopSweeper()
	go sweeper.Run(sweepCtx)

	// Initialize the Discord bot
	bot, err := discord.New(&discord.Config{
		Session:        dg,
		ApplicationID:  cfg.ApplicationID,
		GuildID:        cfg.GuildID,
		ClubService:    clubSvc,
		LibraryService: librarySvc,
		Logger:         logger,
	})
	if err != nil {
		logger.Fatal("failed to create Discord bot", zap.Error(err))
	}

	if err := bot.Start(); err != nil {
		logger.Fatal("failed to start Discord bot", zap.Error(err))
	}

	// Wait for interrupt signal to gracefully shut down
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	stopSweeper()
	if err := bot.Stop(); err != nil {
		logger.Error("error stopping bot", zap.Error(err))
	}

	logger.Info("bot has been shut down")
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
