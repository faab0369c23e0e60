package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qrave1/MemStudy/internal/application/config"
	"github.com/qrave1/MemStudy/internal/application/constant"
	"github.com/qrave1/MemStudy/internal/application/metric"
	"github.com/qrave1/MemStudy/internal/domain/quiz"
	"github.com/qrave1/MemStudy/internal/infra/adapters/memory"
	"github.com/qrave1/MemStudy/internal/infra/adapters/postgres"
	"github.com/qrave1/MemStudy/internal/infra/adapters/postgres/repository"
	"github.com/qrave1/MemStudy/internal/infra/ports/http/handlers"
	"github.com/qrave1/MemStudy/internal/infra/ports/http/server"
	"github.com/qrave1/MemStudy/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

func runApp() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.New()
	if err != nil {
		slog.Error("parse config", slog.Any(constant.Error, err))
		os.Exit(1)
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	slog.SetDefault(
		slog.New(
			slog.NewJSONHandler(
				os.Stdout,
				&slog.HandlerOptions{Level: level},
			),
		),
	)

	slog.Info("Running app", slog.Bool("debug", cfg.Debug))

	dbConn, err := postgres.NewPostgres(ctx, cfg.Postgres.DSN())
	if err != nil {
		slog.Error("connect to postgres", slog.Any(constant.Error, err))
		os.Exit(1)
	}
	defer dbConn.Close()

	userRepo := repository.NewUserRepo(dbConn)
	folderRepo := repository.NewFolderRepo(dbConn)
	flashcardRepo := repository.NewFlashcardRepo(dbConn)

	wsConnRepo := memory.NewWSConnectionRepository(cfg.Versus.SendBuffer)
	roomSubsRepo := memory.NewRoomSubscriptionRepository()
	roomRegistry := memory.NewRoomRegistry(quiz.NewCodeGenerator(), cfg.Versus.CodeAttempts)

	userUsecase := usecase.NewUserUsecase([]byte(cfg.JWTSecret), cfg.JWTTTL, userRepo)
	folderUsecase := usecase.NewFolderUsecase(folderRepo, flashcardRepo)
	versusUsecase := usecase.NewVersusUsecase(cfg.Versus.DeckTimeout, roomRegistry, roomSubsRepo, wsConnRepo, flashcardRepo)

	authHandler := handlers.NewAuthHandler(cfg, userUsecase)
	folderHandler := handlers.NewFolderHandler(folderUsecase)
	flashcardHandler := handlers.NewFlashcardHandler(folderUsecase)
	wsHandler := handlers.NewWebSocketHandler(cfg, versusUsecase, wsConnRepo)

	echoSrv := server.New(cfg, authHandler, folderHandler, flashcardHandler, wsHandler, roomRegistry, wsConnRepo)

	metricsSrv := metric.NewServer()

	echoSrvCh := make(chan error, 1)
	metricsSrvCh := make(chan error, 1)

	// Запускаем HTTP сервер
	go func() {
		echoSrvCh <- echoSrv.Start(":" + cfg.Port)
	}()

	// Запускаем сервер метрик
	go func() {
		metricsSrvCh <- metricsSrv.Start(":" + cfg.MetricPort)
	}()

	// Ожидаем сигнал завершения или ошибку сервера
	select {
	case <-ctx.Done():
		slog.Info("Shutting down servers due to context cancel")
	case err := <-echoSrvCh:
		slog.Error(
			"HTTP server failed",
			slog.Any(constant.Error, err),
		)
		os.Exit(1)
	case err := <-metricsSrvCh:
		slog.Error(
			"Metrics server failed",
			slog.Any(constant.Error, err),
		)
		os.Exit(1)
	}

	// Graceful shutdown
	timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer timeoutCancel()

	if err := echoSrv.Shutdown(timeoutCtx); err != nil {
		slog.Error("Failed to gracefully shutdown HTTP server", slog.Any(constant.Error, err))
	}

	if err := metricsSrv.Shutdown(timeoutCtx); err != nil {
		slog.Error("Failed to gracefully shutdown metric server", slog.Any(constant.Error, err))
	}

	versusUsecase.Shutdown()
}
