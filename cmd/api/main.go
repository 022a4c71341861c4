package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/time/rate"

	"github.com/vitrine-projetos/vitrine-backend/config"
	"github.com/vitrine-projetos/vitrine-backend/internal/auth"
	authmw "github.com/vitrine-projetos/vitrine-backend/internal/auth/middleware"
	"github.com/vitrine-projetos/vitrine-backend/internal/bootstrap"
	"github.com/vitrine-projetos/vitrine-backend/internal/notifications"
	cronjob "github.com/vitrine-projetos/vitrine-backend/internal/projects/cron"
	"github.com/vitrine-projetos/vitrine-backend/internal/projects/listing"
	"github.com/vitrine-projetos/vitrine-backend/internal/projects/repository"
	"github.com/vitrine-projetos/vitrine-backend/internal/projects/service"
	"github.com/vitrine-projetos/vitrine-backend/internal/projects/upstream"
	"github.com/vitrine-projetos/vitrine-backend/internal/storage/objects"
	"github.com/vitrine-projetos/vitrine-backend/internal/storage/postgres"
)

const serviceName = "vitrine-backend"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sqlDB, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("[db] %v", err)
	}
	defer sqlDB.Close()

	if err := postgres.Migrate(ctx, sqlDB); err != nil {
		log.Fatalf("[db] migrate: %v", err)
	}

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{DSN: postgres.DSN(&cfg.Database), MaxConns: 10})
	if err != nil {
		log.Fatalf("[db] %v", err)
	}
	defer pool.Close()

	presets := listing.DefaultPresets()
	if cfg.Listing.PresetsPath != "" {
		if presets, err = listing.LoadPresets(cfg.Listing.PresetsPath); err != nil {
			log.Fatalf("[projects] presets: %v", err)
		}
	}

	notifSvc := notifications.NewService(notifications.NewRepo(pool))
	deps := service.Deps{
		Store:    repository.NewProjectRepository(sqlDB),
		Notifier: notifSvc,
		Presets:  presets,
	}

	redisClient, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
	if err != nil {
		log.Printf("[cache] disabled: %v", err)
	} else {
		defer redisClient.Close()
		deps.Cache = repository.NewSnapshotCache(redisClient, cfg.Redis.SnapshotTTL)
	}

	if cfg.Storage.Endpoint != "" {
		signer, err := objects.NewSigner(&cfg.Storage)
		if err != nil {
			log.Fatalf("[storage] %v", err)
		}
		deps.Signer = signer
	} else {
		log.Println("[storage] MINIO_ENDPOINT not set, attachment downloads limited to absolute URLs")
	}

	projectSvc := service.NewProjectService(deps)

	viewerOpts := authmw.ViewerOptions{DevHeaders: cfg.Auth.DevHeaders}
	if cfg.Auth.FirebaseCredentialsPath != "" {
		authClient, err := auth.InitializeFirebase(ctx, &cfg.Auth)
		if err != nil {
			log.Fatalf("[auth] %v", err)
		}
		viewerOpts.Verifier = authClient
	} else {
		log.Println("[auth] Firebase not configured, every request is a guest unless dev headers are enabled")
	}

	var scheduler *cronjob.Scheduler
	if cfg.Upstream.BaseURL != "" {
		client := upstream.NewClient(upstream.Options{
			BaseURL:   cfg.Upstream.BaseURL,
			Token:     cfg.Upstream.Token,
			PageSize:  cfg.Upstream.PageSize,
			Timeout:   cfg.Upstream.Timeout,
			RateLimit: rate.Limit(cfg.Upstream.RateLimit),
			Burst:     cfg.Upstream.Burst,
		})
		scheduler = cronjob.NewScheduler(client, projectSvc, 0)
		if cfg.Sync.OnStartup {
			if res, err := scheduler.RunOnce(ctx); err != nil {
				log.Printf("[sync] startup sync failed: %v", err)
			} else {
				log.Printf("[sync] startup sync imported %d of %d projects", res.Imported, res.Received)
			}
		}
		if err := scheduler.Start(cfg.Sync.Schedule); err != nil {
			log.Fatalf("[sync] %v", err)
		}
		defer scheduler.Stop()
	} else if n, err := projectSvc.Refresh(ctx); err != nil {
		log.Printf("[projects] warm cache: %v", err)
	} else {
		log.Printf("[projects] %d projects loaded", n)
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		DB:             pool,
		Redis:          redisClient,
		Projects:       projectSvc,
		Notifications:  notifSvc,
		Viewer:         authmw.WithViewer(viewerOpts),
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("%s listening on :%s (%s)", serviceName, cfg.Server.Port, cfg.App.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
