package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"digistore/internal/client"
	"digistore/internal/config"
	"digistore/internal/logger"
	"digistore/internal/repository"
	"digistore/internal/server"
	"digistore/internal/service"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		fmt.Printf("Failed to parse config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		fmt.Printf("Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := client.InitDatabase(cfg.Database)
	if err != nil {
		log.Fatal("init database", zap.Error(err))
	}

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	productRepo := repository.NewProductRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	couponRepo := repository.NewCouponRepository(db)
	downloadRepo := repository.NewDownloadRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	blogRepo := repository.NewBlogRepository(db)
	contactRepo := repository.NewContactRepository(db)
	settingRepo := repository.NewSettingRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)

	authService := service.NewAuthService(userRepo, cfg.Auth)
	catalogService := service.NewCatalogService(categoryRepo, productRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	couponService := service.NewCouponService(couponRepo)
	downloadService := service.NewDownloadService(downloadRepo, productRepo, orderRepo, cfg.Downloads)
	orderService := service.NewOrderService(
		db, log,
		orderRepo,
		productRepo,
		userRepo,
		couponRepo,
		webhookEventRepo,
		couponService,
		downloadService,
	)
	reviewService := service.NewReviewService(reviewRepo, productRepo)
	blogService := service.NewBlogService(blogRepo)
	contactService := service.NewContactService(contactRepo)
	settingService := service.NewSettingService(settingRepo)
	analyticsService := service.NewAnalyticsService(analyticsRepo, orderRepo)

	if cfg.Admin.Email != "" && cfg.Admin.Password != "" {
		if err := authService.EnsureAdmin(context.Background(), cfg.Admin.Email, cfg.Admin.Password); err != nil {
			log.Fatal("seed admin account", zap.Error(err))
		}
	}

	srv := server.NewServer(log, cfg.Auth, server.Services{
		Auth:      authService,
		Catalog:   catalogService,
		Cart:      cartService,
		Order:     orderService,
		Coupon:    couponService,
		Download:  downloadService,
		Review:    reviewService,
		Blog:      blogService,
		Contact:   contactService,
		Setting:   settingService,
		Analytics: analyticsService,
	})

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	log.Info("starting HTTP server", zap.String("addr", serverAddr))
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("signal received, starting graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("HTTP server shutdown error", zap.Error(err))
	}
}
