package flights

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/Domenick1991/airfleet/internal/cursor"
	"github.com/Domenick1991/airfleet/internal/domain"
	"github.com/Domenick1991/airfleet/internal/kafka"
	"github.com/Domenick1991/airfleet/internal/repository"
	"github.com/google/uuid"
)

type FlightUseCase interface {
	List(ctx context.Context, opts repository.FlightListOptions) (*cursor.Page[domain.Flight], error)
	GetByID(ctx context.Context, id int64) (*domain.Flight, error)
	Create(ctx context.Context, input FlightInput) (*domain.Flight, error)
	Update(ctx context.Context, id int64, input FlightInput) (*domain.Flight, error)
	Delete(ctx context.Context, id int64) error
}

type Producer interface {
	PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error
}

// Event publication retries a few times before giving up; a mutation
// never fails because the broker hiccuped.
const publishRetries = 3

type FlightService struct {
	repo      repository.FlightRepository
	validator *Validator
	producer  Producer
	topic     string
}

type FlightServiceOption func(*FlightService)

func WithProducer(producer Producer, topic string) FlightServiceOption {
	return func(s *FlightService) {
		s.producer = producer
		s.topic = topic
	}
}

func NewFlightService(repo repository.FlightRepository, validator *Validator, opts ...FlightServiceOption) *FlightService {
	service := &FlightService{repo: repo, validator: validator}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// List always hits the store. Flight result sets are parameterized by
// five independent filters, so they are computed fresh rather than
// cached.
func (s *FlightService) List(ctx context.Context, opts repository.FlightListOptions) (*cursor.Page[domain.Flight], error) {
	return s.repo.List(ctx, opts)
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

// Create validates the candidate fully before anything is written; a
// rejected submission leaves no flight row behind.
func (s *FlightService) Create(ctx context.Context, input FlightInput) (*domain.Flight, error) {
	flight, err := s.validated(ctx, &input)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, flight); err != nil {
		return nil, err
	}
	s.publish(ctx, "flight_created", flight.ID)
	return flight, nil
}

func (s *FlightService) Update(ctx context.Context, id int64, input FlightInput) (*domain.Flight, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	flight, err := s.validated(ctx, &input)
	if err != nil {
		return nil, err
	}
	flight.ID = id

	if err := s.repo.Update(ctx, flight); err != nil {
		return nil, err
	}
	s.publish(ctx, "flight_updated", flight.ID)
	return flight, nil
}

func (s *FlightService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, "flight_deleted", id)
	return nil
}

func (s *FlightService) validated(ctx context.Context, input *FlightInput) (*domain.Flight, error) {
	verrs, err := s.validator.Validate(ctx, input)
	if err != nil {
		return nil, err
	}
	if !verrs.Empty() {
		return nil, verrs
	}

	departureAt, _ := input.departureTime()
	arrivalAt, _ := input.arrivalTime()
	return &domain.Flight{
		AirlineID:         *input.AirlineID,
		DepartureCityID:   *input.DepartureCityID,
		DestinationCityID: *input.DestinationCityID,
		DepartureAt:       departureAt,
		ArrivalAt:         arrivalAt,
	}, nil
}

func (s *FlightService) publish(ctx context.Context, eventType string, recordID int64) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := kafka.RecordEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		Entity:     "flight",
		RecordID:   recordID,
		OccurredAt: time.Now(),
	}
	if err := s.producer.PublishWithRetry(ctx, s.topic, strconv.FormatInt(recordID, 10), event, publishRetries); err != nil {
		log.Printf("publish %s event for flight %d: %v", eventType, recordID, err)
	}
}

var _ FlightUseCase = (*FlightService)(nil)
