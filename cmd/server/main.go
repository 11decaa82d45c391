// main wires high-level dependencies and keeps the process lifecycle small.
// Business logic lives in the internal services packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"eventgate/internal/access"
	accessmetrics "eventgate/internal/access/metrics"
	"eventgate/internal/ingest"
	ingesthandler "eventgate/internal/ingest/handler"
	ingestmetrics "eventgate/internal/ingest/metrics"
	"eventgate/internal/ingest/store/record"
	"eventgate/internal/platform/config"
	"eventgate/internal/platform/httpserver"
	"eventgate/internal/platform/logger"
	platformredis "eventgate/internal/platform/redis"
	"eventgate/internal/secrets"
	"eventgate/internal/summary"
	summarymetrics "eventgate/internal/summary/metrics"
	"eventgate/internal/summary/store/object"
	"eventgate/internal/token"
	httptransport "eventgate/internal/transport/http"
	"eventgate/pkg/platform/audit"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	trail := audit.NewTrail(log)

	// Secret source: the external parameter store when Redis is configured,
	// a static development secret otherwise. The cache is an explicit
	// collaborator so the engine can invalidate it on rotation fallout.
	var source secrets.Source
	if redisClient != nil {
		source = secrets.NewRedisSource(redisClient, cfg.SecretParam)
	} else {
		source = secrets.NewStaticSource(cfg.SecretFallback)
	}
	secretCache := secrets.NewCache(source, cfg.SecretCacheTTL)

	verifier, err := token.NewVerifier("HS256")
	if err != nil {
		log.Error("verifier init failed", "error", err)
		os.Exit(1)
	}

	engine, err := access.NewEngine(verifier, secretCache, trail,
		access.WithLogger(log),
		access.WithMetrics(accessmetrics.New()),
	)
	if err != nil {
		log.Error("access engine init failed", "error", err)
		os.Exit(1)
	}

	// Record store: Postgres when a DSN is configured, in-memory otherwise.
	var records ingest.RecordStore
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("postgres open failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(context.Background()); err != nil {
			log.Error("postgres ping failed", "error", err)
			os.Exit(1)
		}
		records = record.NewPostgres(db)
	} else {
		log.Warn("no POSTGRES_DSN configured, using in-memory record store")
		records = record.NewInMemory()
	}

	var objects summary.ObjectStore
	if redisClient != nil {
		objects = object.NewRedis(redisClient)
	} else {
		log.Warn("no REDIS_URL configured, using in-memory object store")
		objects = object.NewInMemory()
	}

	ingestMetrics := ingestmetrics.New()
	writer, err := ingest.NewService(records, trail,
		ingest.WithLogger(log),
		ingest.WithMetrics(ingestMetrics),
	)
	if err != nil {
		log.Error("ingest service init failed", "error", err)
		os.Exit(1)
	}

	aggregator, err := summary.NewService(records, objects, cfg.AggregationPeriod, trail,
		summary.WithLogger(log),
		summary.WithMetrics(summarymetrics.New()),
		summary.WithTopN(cfg.SummaryTopN),
	)
	if err != nil {
		log.Error("summary service init failed", "error", err)
		os.Exit(1)
	}

	router := httptransport.NewRouter(engine, ingesthandler.New(writer, trail, log, ingestMetrics))
	srv := httpserver.New(cfg.Addr, router)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting eventgate", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return summary.NewScheduler(aggregator, cfg.AggregationInterval, log).Run(ctx)
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
