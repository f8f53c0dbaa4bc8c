package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jaekwang-park/todo-bot/internal/chat"
	cognitopkg "github.com/jaekwang-park/todo-bot/internal/cognito"
	"github.com/jaekwang-park/todo-bot/internal/config"
	todohttp "github.com/jaekwang-park/todo-bot/internal/http"
	"github.com/jaekwang-park/todo-bot/internal/http/handler"
	"github.com/jaekwang-park/todo-bot/internal/middleware"
	"github.com/jaekwang-park/todo-bot/internal/repository"
	"github.com/jaekwang-park/todo-bot/internal/service"
)

// userResolverAdapter adapts the auth service to the middleware.UserResolver interface.
type userResolverAdapter struct {
	svc *service.AuthService
}

func (a *userResolverAdapter) ResolveUserID(ctx context.Context, cognitoSub string) (string, error) {
	userID, err := a.svc.UserIDForSub(ctx, cognitoSub)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return "", middleware.ErrUserNotFound
		}
		return "", fmt.Errorf("failed to resolve user: %w", err)
	}
	return userID, nil
}

func main() {
	// Initial logger at info level; reconfigured after config load
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(context.Background()); err != nil {
		logger.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.ParseLogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("config loaded",
		"env", cfg.AppEnv,
		"port", cfg.ServerPort,
		"auth_dev_mode", cfg.AuthDevMode,
		"log_level", cfg.LogLevel,
		"store_driver", cfg.StoreDriver,
		"prefix", cfg.Bot.Prefix,
	)

	// Store
	dialect := repository.Dialect(cfg.StoreDriver)
	db, err := repository.Open(ctx, dialect, cfg.StoreDSN())
	if err != nil {
		return err
	}
	defer db.Close()
	logger.Info("store connected", "driver", cfg.StoreDriver)

	itemRepo := repository.NewSQLItemRepository(db, dialect, repository.Limits{
		Title:       cfg.Bot.TitleMaxLength,
		Description: cfg.Bot.DescriptionMaxLength,
	})
	userRepo := repository.NewSQLUserRepository(db, dialect)
	if err := userRepo.EnsureSchema(ctx); err != nil {
		return fmt.Errorf("failed to prepare user table: %w", err)
	}

	// Chat
	board := chat.NewBoard(logger)
	defer board.Close()

	table, err := service.NewCommandTable(cfg.Bot.Prefix)
	if err != nil {
		return fmt.Errorf("failed to build command table: %w", err)
	}
	colours := cfg.Bot.Colours
	bot := service.NewBot(itemRepo, board, table, service.Options{
		TitleMaxLength:        cfg.Bot.TitleMaxLength,
		DescriptionMaxLength:  cfg.Bot.DescriptionMaxLength,
		AdminUserIDs:          cfg.Bot.AdminUserIDs,
		ConfirmTimeout:        cfg.Bot.ConfirmTimeout,
		ToggleTimeout:         cfg.Bot.ToggleTimeout,
		ToggleMaxInteractions: cfg.Bot.ToggleMaxInteractions,
		Location:              cfg.Bot.Location(),
		Colours: service.Colours{
			Default: colours.Default,
			Error:   colours.Error,
			Warn:    colours.Warn,
			Cancel:  colours.Cancel,
			Success: colours.Success,
		},
	}, logger)

	// Cognito client + Auth service
	var authSvc *service.AuthService
	if cfg.Cognito.AppClientID != "" {
		cognitoClient, err := cognitopkg.NewAWSClient(
			ctx,
			cfg.Cognito.Region,
			cfg.Cognito.AppClientID,
			cfg.Cognito.AppClientSecret,
		)
		if err != nil {
			return err
		}
		authSvc = service.NewAuthService(cognitoClient, userRepo)
		logger.Info("cognito client initialized", "region", cfg.Cognito.Region)
	} else {
		logger.Warn("cognito client not initialized: COGNITO_APP_CLIENT_ID not set")
	}

	// Auth middleware
	authCfg := middleware.AuthConfig{
		DevMode:    cfg.AuthDevMode,
		AdminGroup: cfg.Bot.AdminGroup,
	}
	if !cfg.AuthDevMode {
		jwksURL := middleware.CognitoJWKSURL(cfg.Cognito.Region, cfg.Cognito.UserPoolID)
		authCfg.JWKSClient = middleware.NewJWKSClient(jwksURL)
		authCfg.Issuer = middleware.CognitoIssuer(cfg.Cognito.Region, cfg.Cognito.UserPoolID)
		authCfg.AppClientID = cfg.Cognito.AppClientID
		authCfg.UserResolver = &userResolverAdapter{svc: authSvc}
	}
	auth, err := middleware.NewAuth(authCfg)
	if err != nil {
		return fmt.Errorf("failed to create auth middleware: %w", err)
	}

	// HTTP Server
	storeCheck := handler.Check{Name: "store", Ping: db.PingContext}
	srv := todohttp.NewServer(cfg.ServerPort, logger, bot, board, authSvc, auth, storeCheck)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	logger.Info("server starting", "port", cfg.ServerPort)

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}
