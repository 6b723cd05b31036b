package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/dnd-test-dialog/internal/config"
	"github.com/KirkDiggler/dnd-test-dialog/internal/discord/core"
	"github.com/KirkDiggler/dnd-test-dialog/internal/discord/middleware"
	discordTestDialog "github.com/KirkDiggler/dnd-test-dialog/internal/discord/testdialog"
	"github.com/KirkDiggler/dnd-test-dialog/internal/events"
	"github.com/KirkDiggler/dnd-test-dialog/internal/repositories/testresults"
	"github.com/KirkDiggler/dnd-test-dialog/internal/scripts/catalog"
	"github.com/KirkDiggler/dnd-test-dialog/internal/services/testdialog"
	"github.com/KirkDiggler/dnd-test-dialog/internal/telemetry"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	} else {
		log.Println("Loaded .env file")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	log.Printf("Application ID: %s", cfg.Discord.AppID)
	if cfg.Discord.GuildID != "" {
		log.Printf("Guild ID: %s", cfg.Discord.GuildID)
	}

	shutdownTelemetry, err := telemetry.Setup(context.Background(), telemetry.Options{
		ServiceName: cfg.Telemetry.ServiceName,
		Endpoint:    cfg.Telemetry.Endpoint,
		Enabled:     cfg.Telemetry.Enabled,
	})
	if err != nil {
		log.Fatalf("Failed to set up telemetry: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(ctx); err != nil {
			log.Printf("Failed to flush telemetry: %v", err)
		}
	}()

	scripts, err := catalog.Load(cfg.Dialog.ScriptsPath)
	if err != nil {
		log.Fatalf("Failed to load script catalog: %v", err)
	}
	selection := catalog.NewSelection()

	// Keep Redis client for cleanup
	redisClient := connectRedis(cfg.Redis)

	var repository testresults.Repository
	if redisClient != nil {
		repository = testresults.NewRedis(redisClient, cfg.Dialog.ResultTTL)
		log.Println("Using Redis for test results")
	} else {
		repository = testresults.NewInMemoryRepository()
		log.Println("Using in-memory test results")
	}

	bus := events.NewBus()
	service := testdialog.NewService(&testdialog.ServiceConfig{
		ScriptSource: scripts,
		Targets:      selection,
		Actors:       scripts,
		Repository:   repository,
		Bus:          bus,
		RollMode:     cfg.RollMode(),
	})

	pipeline := core.NewPipeline()
	pipeline.Use(
		middleware.RecoveryMiddleware(),
		middleware.LoggingMiddleware(),
		middleware.TracingMiddleware(telemetry.Tracer()),
	)

	handler := discordTestDialog.NewHandler(&discordTestDialog.HandlerConfig{
		Service:   service,
		Actors:    scripts,
		Selection: selection,
		Bus:       bus,
	})
	handler.Register(pipeline)

	// Create Discord session
	dg, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		log.Fatalf("Failed to create Discord session: %v", err)
	}

	// Register interaction handler
	dg.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if err := pipeline.Execute(context.Background(), s, i); err != nil {
			log.Printf("Failed to handle interaction: %v", err)
		}
	})

	// Open connection to Discord
	if err := dg.Open(); err != nil {
		log.Printf("Failed to open Discord connection: %v", err)
		return
	}
	defer func() {
		if clientErr := dg.Close(); clientErr != nil {
			log.Printf("Failed to close Discord connection: %v", clientErr)
		}
	}()

	// Use empty guild ID for global commands
	command := discordTestDialog.Command(scripts.Actors())
	if _, err := dg.ApplicationCommandCreate(cfg.Discord.AppID, cfg.Discord.GuildID, command); err != nil {
		log.Printf("Failed to register commands: %v", err)
		return
	}

	if cfg.Discord.GuildID != "" {
		log.Printf("Registered commands for guild: %s", cfg.Discord.GuildID)
	} else {
		log.Println("Registered global commands (may take up to 1 hour to propagate)")
	}

	fmt.Println("Bot is now running. Press CTRL-C to exit.")

	// Wait for interrupt signal
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	fmt.Println("Shutting down...")

	for _, id := range service.ActiveIDs() {
		if err := service.Cancel(context.Background(), id); err != nil {
			log.Printf("Failed to cancel dialog %s: %v", id, err)
		}
	}

	// Clean up Redis connection if we have one
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Printf("Error closing Redis connection: %v", err)
		} else {
			log.Println("Closed Redis connection")
		}
	}
}

// connectRedis returns nil when Redis is not reachable
func connectRedis(cfg config.RedisConfig) *redis.Client {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			log.Printf("Failed to parse Redis URL: %v", err)
			log.Println("Falling back to in-memory repositories")
			return nil
		}
		opts = parsed
	}

	log.Printf("Connecting to Redis at: %s", opts.Addr)
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		log.Println("Falling back to in-memory repositories")
		_ = client.Close()
		return nil
	}

	log.Println("Successfully connected to Redis")
	return client
}
