package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"sahaay/internal/discovery"
	discoveryhandler "sahaay/internal/discovery/handler"
	"sahaay/internal/documents"
	documentshandler "sahaay/internal/documents/handler"
	docmetrics "sahaay/internal/documents/metrics"
	docstore "sahaay/internal/documents/store"
	"sahaay/internal/documents/tracer"
	"sahaay/internal/eligibility"
	eligibilityhandler "sahaay/internal/eligibility/handler"
	eligmetrics "sahaay/internal/eligibility/metrics"
	"sahaay/internal/ocr"
	"sahaay/internal/platform/config"
	"sahaay/internal/platform/database"
	"sahaay/internal/platform/httpserver"
	"sahaay/internal/platform/kafka"
	"sahaay/internal/platform/kafka/consumer"
	"sahaay/internal/platform/kafka/producer"
	"sahaay/internal/platform/logger"
	"sahaay/internal/platform/metrics"
	"sahaay/internal/platform/redis"
	"sahaay/internal/retrieval"
	"sahaay/internal/rules"
	rulesmetrics "sahaay/internal/rules/metrics"
	"sahaay/internal/rules/remote"
	httptransport "sahaay/internal/transport/http"
	audit "sahaay/pkg/platform/audit"
	auditconsumer "sahaay/pkg/platform/audit/consumer"
	"sahaay/pkg/platform/audit/publisher"
	kafkaaudit "sahaay/pkg/platform/audit/publishers/kafka"
	auditmemory "sahaay/pkg/platform/audit/store/memory"
	auditpostgres "sahaay/pkg/platform/audit/store/postgres"
	"sahaay/pkg/platform/middleware/session"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages; everything optional (Redis,
// Postgres, Kafka, retrieval) degrades to an in-process fallback so a bare
// `go run ./cmd/server` serves requests.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ruleRepo := rules.NewRepository(newRuleSource(cfg, log),
		rules.WithLogger(log),
		rules.WithMetrics(rulesmetrics.New()),
	)

	rdb, err := redis.New(cfg.RedisURL)
	if err != nil {
		fatal(log, "connect redis", err)
	}

	dbCfg := database.DefaultConfig()
	dbCfg.URL = cfg.PostgresDSN
	pool, err := database.New(dbCfg)
	if err != nil {
		fatal(log, "connect postgres", err)
	}

	var auditStore audit.Store
	if pool != nil {
		auditStore = auditpostgres.New(pool.DB())
	} else {
		auditStore = auditmemory.NewInMemoryStore()
	}

	// Audit events either flow through Kafka to a consumer that persists
	// them, or go straight to the store through an async publisher.
	var (
		auditor  audit.Emitter
		checkers []httptransport.HealthChecker
		closers  []func()
	)
	if len(cfg.KafkaBrokers) > 0 {
		brokers := strings.Join(cfg.KafkaBrokers, ",")

		prod, err := producer.New(producer.Config{
			Brokers:         brokers,
			Acks:            "all",
			Retries:         3,
			DeliveryTimeout: 30 * time.Second,
		}, log)
		if err != nil {
			fatal(log, "create kafka producer", err)
		}
		auditor = kafkaaudit.New(prod, log)

		cons, err := consumer.New(consumer.Config{
			Brokers: brokers,
			GroupID: "sahaay-audit",
			Topics:  []string{kafka.TopicAudit},
		}, auditconsumer.NewHandler(auditStore, log), log)
		if err != nil {
			fatal(log, "create kafka consumer", err)
		}
		cons.Start()

		checkers = append(checkers, kafka.NewHealthChecker(brokers))
		closers = append(closers, cons.Close, func() { _ = prod.Close() })
	} else {
		pub := publisher.NewPublisher(auditStore,
			publisher.WithAsyncBuffer(256),
			publisher.WithPublisherLogger(log),
		)
		auditor = pub
		closers = append(closers, pub.Close)
	}

	var submissions docstore.Store
	if rdb != nil {
		submissions = docstore.NewRedisStore(rdb.Client, cfg.SessionTTL)
		checkers = append(checkers, rdb)
	} else {
		submissions = docstore.NewMemoryStore()
	}
	if pool != nil {
		checkers = append(checkers, pool)
	}

	extractor := ocr.NewClient(cfg.OCRURL, cfg.OCRTimeout,
		ocr.WithMinTextLength(cfg.OCRMinTextLength))
	validator := documents.NewValidator(extractor,
		documents.WithTracer(tracer.NewOTel()))

	eligibilityService := eligibility.New(ruleRepo, auditor,
		eligibility.WithLogger(log),
		eligibility.WithMetrics(eligmetrics.New()),
	)
	documentService := documents.New(ruleRepo, validator, submissions, auditor,
		documents.WithLogger(log),
		documents.WithMetrics(docmetrics.New()),
		documents.WithServiceTracer(tracer.NewOTel()),
	)

	handlers := []httptransport.Registerer{
		eligibilityhandler.New(eligibilityService, log),
		documentshandler.New(documentService, log),
	}
	if cfg.RetrievalURL != "" {
		searcher := retrieval.NewClient(cfg.RetrievalURL, cfg.RetrievalAPIKey, cfg.RetrievalTimeout)
		recommender := discovery.New(searcher, eligibilityService, auditor,
			discovery.WithLogger(log))
		handlers = append(handlers, discoveryhandler.New(recommender, log))
	}

	router := httptransport.NewRouter(httptransport.Config{
		Logger:   log,
		Metrics:  metrics.New(),
		Sessions: session.NewTokenService(cfg.SessionSigningKey, "sahaay", cfg.SessionTTL),
		Auditor:  auditor,
		Handlers: handlers,
		Checkers: checkers,
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fatal(log, "server error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}

	// Stop the audit pipeline after the server so in-flight requests can
	// still emit, then release the backing connections.
	for _, closeFn := range closers {
		closeFn()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if pool != nil {
		_ = pool.Close()
	}
}

// newRuleSource prefers the rule extraction service when configured and falls
// back to the precomputed table shipped with the binary.
func newRuleSource(cfg config.Server, log *slog.Logger) rules.Source {
	if cfg.RegistryURL != "" {
		log.Info("using rule extraction service", "url", cfg.RegistryURL)
		return remote.NewClient(cfg.RegistryURL, cfg.RegistryAPIKey, cfg.RegistryTimeout)
	}

	table, err := rules.LoadTableSource(cfg.RulesTablePath)
	if err != nil {
		fatal(log, "load rules table", err)
	}
	log.Info("using precomputed rules table", "path", cfg.RulesTablePath)
	return table
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}
