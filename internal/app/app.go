package app

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"

	"lumen-ai/backend/internal/api"
	"lumen-ai/backend/internal/config"
	"lumen-ai/backend/internal/database"
	"lumen-ai/backend/internal/llm"
	"lumen-ai/backend/internal/repository"
	"lumen-ai/backend/internal/secret"
	"lumen-ai/backend/internal/service"
)

// App holds the wired application: the open database handle and the
// configured HTTP server, ready to listen.
type App struct {
	DB     *sql.DB
	Server *http.Server
}

// NewApp wires the full dependency graph from configuration: cipher,
// database, store, provider, services, handlers, router.
func NewApp(cfg *config.Config) (*App, error) {
	cipher, err := secret.New(cfg.EncryptionKey, cfg.RequirePersistentKey)
	if err != nil {
		return nil, fmt.Errorf("could not initialize credential cipher: %w", err)
	}

	db, err := database.InitDB(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("could not initialize database: %w", err)
	}

	store := repository.NewSQLiteStore(db, cipher)
	provider := llm.NewGeminiProvider(cfg.GeminiAPIURL, time.Duration(cfg.ProviderTimeoutSeconds)*time.Second)

	userService := service.NewUserService(store)
	chatService := service.NewChatService(store, provider, cfg.GeminiAPIKey)
	adminService := service.NewAdminService(store)

	authHandler := api.NewAuthHandler(userService)
	chatHandler := api.NewChatHandler(chatService)
	adminHandler := api.NewAdminHandler(adminService)
	router := api.NewRouter(authHandler, chatHandler, adminHandler, userService)

	server := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.AppPort),
		Handler:           router,
		ReadHeaderTimeout: 20 * time.Second,
		WriteTimeout:      90 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &App{DB: db, Server: server}, nil
}

func Run() int {
	cfg, err := config.LoadConfig()
	if err != nil {
		// slog is not yet configured, so use the default logger here.
		slog.Error("Failed to load configuration", "error", err)
		return 1
	}

	setupLogger(cfg.LogLevel)

	logConfigSource()

	app, err := NewApp(cfg)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return 1
	}
	defer func() {
		if err := app.DB.Close(); err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}()
	slog.Info("Successfully connected to SQLite database.")

	slog.Info("Starting server", "port", cfg.AppPort)
	if err := app.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server failed", "error", err)
		return 1
	}

	return 0
}

func logConfigSource() {
	configFileUsed := viper.ConfigFileUsed()
	if configFileUsed != "" {
		slog.Info("Successfully loaded configuration from file.", "file", configFileUsed)
	} else {
		slog.Info("Configuration file not found. Using environment variables and defaults.")
	}
}

func setupLogger(logLevel string) {
	var level slog.Level
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)
}
