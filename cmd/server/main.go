package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sydneykevadiya/groundnut-backend/internal/config"
	httpHandlers "github.com/sydneykevadiya/groundnut-backend/internal/http/handlers"
	httpRouter "github.com/sydneykevadiya/groundnut-backend/internal/http/router"
	"github.com/sydneykevadiya/groundnut-backend/internal/kv"
	"github.com/sydneykevadiya/groundnut-backend/internal/logger"
	"github.com/sydneykevadiya/groundnut-backend/internal/repository"
	"github.com/sydneykevadiya/groundnut-backend/internal/service"
	"github.com/sydneykevadiya/groundnut-backend/internal/storage"
	"github.com/sydneykevadiya/groundnut-backend/internal/ws"
)

func main() {
	// Готовим контекст для graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("main: ошибка загрузки конфигурации: %v", err)
	}

	// Инициализация логгера
	if cfg.Env == "development" {
		logger.Init("debug")
		logger.SetTextFormatter()
	} else {
		logger.Init("info")
	}

	// KV хранилище выбирается конфигурацией.
	store, err := newStore(ctx, cfg)
	if err != nil {
		log.Fatalf("main: ошибка подключения к хранилищу: %v", err)
	}
	if closer, ok := store.(io.Closer); ok {
		defer safeClose(closer)
	}

	// Вспомогательные сервисы.
	tokenManager := service.NewTokenManager(cfg.JWTSecret, cfg.RefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	imageStorage, err := storage.NewImageStorage(cfg.MediaStoragePath, cfg.MaxUploadSizeMB)
	if err != nil {
		log.Fatalf("main: не удалось подготовить файловое хранилище: %v", err)
	}

	// Репозитории.
	authRepo := repository.NewAuthRepository(store)
	profileRepo := repository.NewProfileRepository(store)
	listingRepo := repository.NewListingRepository(store)
	offerRepo := repository.NewOfferRepository(store)
	reportRepo := repository.NewReportRepository(store)

	// Сервисы.
	authService := service.NewAuthService(authRepo, profileRepo, tokenManager)
	otpService := service.NewOtpService(authRepo, profileRepo)
	listingService := service.NewListingService(listingRepo, profileRepo)
	offerService := service.NewOfferService(offerRepo, listingRepo, profileRepo)
	reportService := service.NewReportService(reportRepo, profileRepo)
	adminService := service.NewAdminService(profileRepo, authRepo, listingRepo, offerRepo)

	// Сидинг администратора при старте.
	if err := authService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.Fatalf("main: не удалось создать администратора: %v", err)
	}

	// Вебсокеты.
	hub := ws.NewHub()
	go hub.Run()
	offerService.SetHub(hub)

	// HTTP хэндлеры.
	authHandler := httpHandlers.NewAuthHandler(authService, otpService)
	listingHandler := httpHandlers.NewListingHandler(listingService, offerService)
	offerHandler := httpHandlers.NewOfferHandler(offerService)
	reportHandler := httpHandlers.NewReportHandler(reportService)
	adminHandler := httpHandlers.NewAdminHandler(adminService, offerService, reportService)
	mediaHandler := httpHandlers.NewMediaHandler(imageStorage)
	wsHandler := httpHandlers.NewWSHandler(hub, tokenManager)
	healthHandler := httpHandlers.NewHealthHandler(cfg.KVBackend)

	// Роутер.
	engine := httpRouter.SetupRouter(cfg, authHandler, listingHandler, offerHandler, reportHandler, adminHandler, mediaHandler, wsHandler, healthHandler, tokenManager)

	server := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: engine,
	}

	// Завершаем сервер при получении сигнала.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("main: ошибка остановки http сервера: %v", err)
		}
	}()

	log.Printf("main: HTTP сервер запущен на порту %s (KV бэкенд: %s)", cfg.HTTPPort, cfg.KVBackend)

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("main: сервер завершился с ошибкой: %v", err)
	}
}

// newStore создаёт KV хранилище по конфигурации.
func newStore(ctx context.Context, cfg *config.Config) (kv.Store, error) {
	switch cfg.KVBackend {
	case config.KVBackendRedis:
		return kv.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case config.KVBackendMemory:
		return kv.NewMemoryStore(), nil
	default:
		return kv.NewPostgresStore(ctx, cfg.DatabaseURL)
	}
}

// safeClose закрывает соединение с хранилищем.
func safeClose(c io.Closer) {
	if err := c.Close(); err != nil {
		log.Printf("main: ошибка закрытия хранилища: %v", err)
	}
}
