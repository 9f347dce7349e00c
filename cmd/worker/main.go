package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Domenick1991/airfleet/config"
	"github.com/Domenick1991/airfleet/internal/cache"
	"github.com/Domenick1991/airfleet/internal/kafka"
	"github.com/Domenick1991/airfleet/internal/notify"
	"github.com/Domenick1991/airfleet/internal/repository"
	"github.com/Domenick1991/airfleet/internal/service/airlines"
	"github.com/Domenick1991/airfleet/internal/service/cities"
	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis)

	airlineRepo := repository.NewAirlineRepository(pool)
	cityRepo := repository.NewCityRepository(pool)
	airlineService := airlines.NewAirlineService(airlineRepo, cityRepo, redisCache)
	cityService := cities.NewCityService(cityRepo, redisCache)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.RecordEventsTopic)
	defer consumer.Close()

	notifier := notify.NewNotifier()

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.RecordEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				log.Printf("decode event error: %v", err)
				return nil
			}
			return notifier.Notify(ctx, event)
		}); err != nil {
			log.Printf("consumer stopped: %v", err)
		}
	}()

	// Re-warm the aggregate lookups so the first read after an
	// invalidation does not pay the recompute.
	warmMinutes := cfg.Worker.CacheWarmMinutes
	if warmMinutes <= 0 {
		warmMinutes = 5
	}
	warmTicker := time.NewTicker(time.Duration(warmMinutes) * time.Minute)
	defer warmTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-warmTicker.C:
			if _, err := airlineService.All(ctx); err != nil {
				log.Printf("warm airlines cache error: %v", err)
			}
			if _, err := cityService.All(ctx); err != nil {
				log.Printf("warm cities cache error: %v", err)
			}
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
