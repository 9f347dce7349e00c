package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/airfleet/config"
	"github.com/Domenick1991/airfleet/internal/bootstrap"
	"github.com/Domenick1991/airfleet/internal/cache"
	"github.com/Domenick1991/airfleet/internal/kafka"
	"github.com/Domenick1991/airfleet/internal/repository"
	"github.com/Domenick1991/airfleet/internal/service/airlines"
	"github.com/Domenick1991/airfleet/internal/service/cities"
	"github.com/Domenick1991/airfleet/internal/service/flights"
	"github.com/jackc/pgx/v5/pgxpool"
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	airlineRepo := repository.NewAirlineRepository(pool)
	cityRepo := repository.NewCityRepository(pool)
	flightRepo := repository.NewFlightRepository(pool)

	airlineService := airlines.NewAirlineService(
		airlineRepo,
		cityRepo,
		redisCache,
		airlines.WithProducer(producer, cfg.Kafka.RecordEventsTopic),
	)
	cityService := cities.NewCityService(
		cityRepo,
		redisCache,
		cities.WithProducer(producer, cfg.Kafka.RecordEventsTopic),
	)
	flightService := flights.NewFlightService(
		flightRepo,
		flights.NewValidator(airlineRepo, cityRepo),
		flights.WithProducer(producer, cfg.Kafka.RecordEventsTopic),
	)

	if err := bootstrap.Run(ctx, cfg, airlineService, cityService, flightService); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
