package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/cache"
	"github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/config"
	"github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/domain"
	"github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/httpapi"
	"github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/service"
	"github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/store"
	"github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/store/memory"
	pgstore "github.com/angiedazun/Sri-Lanka-Ports-Authority-Inventory-Management-System.-sub000/internal/store/postgres"
)

func main() {
	cfg := config.Load()
	if err := validateSecurityConfig(cfg); err != nil {
		log.Fatalf("invalid security configuration: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var repo store.Repository
	closers := make([]func() error, 0, 2)

	if cfg.DatabaseURL != "" {
		pg, err := pgstore.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres unavailable (%v) and DATABASE_URL is set; refusing to start with in-memory fallback", err)
		}
		if err := pg.Migrate(ctx); err != nil {
			log.Fatalf("migration failed: %v", err)
		}
		repo = pg
		closers = append(closers, pg.Close)
		log.Println("repository: postgres")

		if err := bootstrapAdmin(ctx, pg, cfg); err != nil {
			log.Fatalf("admin bootstrap failed: %v", err)
		}
	} else {
		repo = memory.NewSeeded()
		log.Println("repository: in-memory")
	}

	reportCache := cache.StockReportCache(cache.NoopStockReportCache{})
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisStockReportCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Printf("redis unavailable (%v), using noop cache", err)
		} else {
			reportCache = redisCache
			closers = append(closers, redisCache.Close)
			log.Println("cache: redis")
		}
	} else {
		log.Println("cache: noop")
	}

	svc := service.New(repo, reportCache, time.Duration(cfg.StockCacheTTLSeconds)*time.Second)
	auth := httpapi.NewAuthManager(cfg.AuthSecret, time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute, repo)
	api := httpapi.New(svc, auth, cfg.AllowedOrigin)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("inventory backend listening on %s", cfg.Address())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Printf("close error: %v", err)
		}
	}

	log.Println("server stopped")
}

// bootstrapAdmin creates the initial admin account on a fresh database.
// It is a no-op when any user account already exists.
func bootstrapAdmin(ctx context.Context, repo store.Repository, cfg config.Config) error {
	users, err := repo.ListUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}
	if cfg.BootstrapAdminPass == "" {
		return fmt.Errorf("no user accounts exist and BOOTSTRAP_ADMIN_PASS is not set")
	}
	return repo.CreateUser(ctx, domain.UserAccount{
		Username:  cfg.BootstrapAdminUser,
		Password:  cfg.BootstrapAdminPass,
		Role:      domain.RoleAdmin,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	})
}

func validateSecurityConfig(cfg config.Config) error {
	if len(cfg.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be set and at least 32 characters")
	}
	if cfg.DatabaseURL != "" && cfg.BootstrapAdminUser == "" {
		return fmt.Errorf("BOOTSTRAP_ADMIN_USER must not be empty")
	}
	return nil
}
