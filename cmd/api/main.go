package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/azizikri/coupon-catalog/internal/catalog"
	"github.com/azizikri/coupon-catalog/internal/config"
	httphandler "github.com/azizikri/coupon-catalog/internal/delivery/http"
	"github.com/azizikri/coupon-catalog/internal/delivery/kafka"
	"github.com/azizikri/coupon-catalog/internal/repository"
	"github.com/azizikri/coupon-catalog/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/twmb/franz-go/pkg/kgo"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := initStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialise snapshot store: %v", err)
	}
	defer closeStore()

	service := usecase.NewCatalogService(store, cfg.CurrencySymbol)
	defaultLocale := catalog.ResolveLocale(cfg.DefaultLocale, "", catalog.DefaultLocale)

	var gateway usecase.CatalogGateway
	var kafkaClient *kgo.Client
	var replyConsumer *kgo.Client
	var retryClient *kgo.Client

	if cfg.EventDrivenEnabled {
		brokers := strings.Split(cfg.KafkaBrokers, ",")
		kafkaClient, err = newConsumerClient(brokers, cfg.KafkaClientID, cfg.KafkaGroupID, kafka.RequestTopics()...)
		if err != nil {
			log.Fatalf("Failed to create kafka client: %v", err)
		}

		if err := kafka.EnsureTopics(ctx, kafkaClient, cfg); err != nil {
			log.Printf("Warning: failed to ensure topics: %v", err)
		}

		kgateway := kafka.NewGateway(cfg, kafkaClient)
		gateway = kgateway

		consumer := kafka.NewConsumer(cfg, kafkaClient, service)
		go consumer.Start(ctx)

		retryClient, err = newConsumerClient(brokers, cfg.KafkaClientID+"-retry", cfg.KafkaRetryGroupID, kafka.RetryTopics()...)
		if err != nil {
			log.Fatalf("Failed to create retry kafka client: %v", err)
		}
		retryConsumer := kafka.NewConsumer(cfg, retryClient, service)
		go retryConsumer.StartRetry(ctx)

		replyConsumer, err = newReplyClient(brokers, cfg.KafkaClientID+"-reply", kafka.ReplyTopic(cfg.KafkaInstanceID))
		if err != nil {
			log.Fatalf("Failed to create reply kafka client: %v", err)
		}

		startReplyPoller(ctx, replyConsumer, kgateway)
	} else {
		gateway = kafka.NewDirectGateway(service)
	}

	handler := httphandler.NewHandler(gateway, defaultLocale)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	handler.Routes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	wg := sync.WaitGroup{}
	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("Starting server on port %s (snapshot source: %s, event-driven: %t)", cfg.AppPort, cfg.SnapshotSource, cfg.EventDrivenEnabled)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP shutdown error: %v", err)
	}

	if kafkaClient != nil {
		kafkaClient.Close()
	}
	if replyConsumer != nil {
		replyConsumer.Close()
	}
	if retryClient != nil {
		retryClient.Close()
	}

	wg.Wait()
	log.Println("Shutdown complete")
}

func initStore(ctx context.Context, cfg *config.Config) (repository.Store, func(), error) {
	if cfg.SnapshotSource == config.SnapshotFile {
		if _, err := repository.LoadSnapshot(cfg.SnapshotFile); err != nil {
			return nil, nil, err
		}
		return repository.NewFileStore(cfg.SnapshotFile), func() {}, nil
	}

	pool, err := initDB(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := repository.RunMigrations(ctx, pool, cfg.MigrationsDir); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}
	return repository.New(pool), pool.Close, nil
}

func initDB(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return pool, nil
}

func newConsumerClient(brokers []string, clientID, groupID string, topics ...string) (*kgo.Client, error) {
	return kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ClientID(clientID),
		kgo.ConsumerGroup(groupID),
		kgo.ConsumeTopics(topics...),
		kgo.DisableAutoCommit(),
	)
}

func newReplyClient(brokers []string, clientID, topic string) (*kgo.Client, error) {
	return kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ClientID(clientID),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtEnd()),
	)
}

func startReplyPoller(ctx context.Context, client *kgo.Client, gateway *kafka.Gateway) {
	go func() {
		for {
			fetches := client.PollFetches(ctx)
			if fetches.IsClientClosed() || ctx.Err() != nil {
				return
			}
			iter := fetches.RecordIter()
			for !iter.Done() {
				record := iter.Next()
				gateway.HandleResponse(record.Value)
			}
		}
	}()
}
