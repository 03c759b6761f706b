package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	appanalysis "github.com/bintangp/dermalens/internal/application/analysis"
	apptimeline "github.com/bintangp/dermalens/internal/application/timeline"
	"github.com/bintangp/dermalens/internal/config"
	"github.com/bintangp/dermalens/internal/domain/timeline"
	"github.com/bintangp/dermalens/internal/infra/ai/openrouter"
	mysqlp "github.com/bintangp/dermalens/internal/infra/db/mysql"
	postgresp "github.com/bintangp/dermalens/internal/infra/db/postgres"
	"github.com/bintangp/dermalens/internal/infra/httpserver"
	minioStore "github.com/bintangp/dermalens/internal/infra/storage"
	"github.com/bintangp/dermalens/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}
	if cfg.AI.APIKey == "" {
		log.Printf("warning: no AI api key configured; analysis requests will return error records")
	}

	ctx := context.Background()

	// connect database (driver per config)
	var db *sql.DB
	var repo timeline.Repository
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		r := postgresp.NewTimelineRepository(db)
		if err := r.EnsureSchema(ctx); err != nil {
			log.Fatalf("postgres schema error: %v", err)
		}
		repo = r
	default:
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		r := mysqlp.NewTimelineRepository(db)
		if err := r.EnsureSchema(ctx); err != nil {
			log.Fatalf("mysql schema error: %v", err)
		}
		repo = r
	}
	defer db.Close()

	// init minio archive
	store, err := minioStore.New(ctx,
		cfg.Minio.Endpoint,
		cfg.Minio.Region,
		cfg.Minio.BucketName,
		cfg.Minio.AccessKey,
		cfg.Minio.SecretKey,
		cfg.Minio.UseSSL,
	)
	if err != nil {
		log.Fatalf("minio init error: %v", err)
	}

	// init AI cascade client + analysis service
	client := openrouter.NewClient(cfg.AI.APIKey, cfg.AI.BaseURL, cfg.AI.Temperature)
	analysisSvc := appanalysis.NewService(client, nil, appanalysis.Options{
		APIKey:   cfg.AI.APIKey,
		Models:   cfg.AI.Models,
		MaxWidth: cfg.AI.MaxWidth,
		Quality:  cfg.AI.Quality,
	})

	// init timeline service
	timelineSvc := &apptimeline.Service{
		Repo:     repo,
		Archive:  store,
		Analyzer: analysisSvc,
		Clock:    apptimeline.SystemClock{},
		MaxWidth: cfg.AI.MaxWidth,
		Quality:  cfg.AI.Quality,
	}

	// health checks
	health := middleware.HealthHandler(map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: db},
		"storage":  middleware.CheckerFunc(store.Ping),
	})

	// init router
	mux := chi.NewRouter()
	mux.Use(middleware.BearerAuth(cfg.Server.AuthToken))
	mux.Mount("/", httpserver.NewRouter(analysisSvc, timelineSvc, health))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
