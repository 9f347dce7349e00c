package airlines

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/Domenick1991/airfleet/internal/cache"
	"github.com/Domenick1991/airfleet/internal/cursor"
	"github.com/Domenick1991/airfleet/internal/domain"
	"github.com/Domenick1991/airfleet/internal/kafka"
	"github.com/Domenick1991/airfleet/internal/repository"
	"github.com/Domenick1991/airfleet/internal/validation"
	"github.com/google/uuid"
)

type AirlineUseCase interface {
	List(ctx context.Context, opts repository.AirlineListOptions) (*cursor.Page[domain.Airline], error)
	All(ctx context.Context) ([]domain.AirlineRef, error)
	GetByID(ctx context.Context, id int64) (*domain.Airline, error)
	Cities(ctx context.Context, id int64) ([]domain.CityRef, error)
	Create(ctx context.Context, input AirlineInput) (*domain.Airline, error)
	Update(ctx context.Context, id int64, input AirlineInput) (*domain.Airline, error)
	Delete(ctx context.Context, id int64, confirmed bool) error
	Restore(ctx context.Context, id int64) error
}

type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, entityType, key string, value any) error
	InvalidateAll(ctx context.Context, entityType string) error
}

type Producer interface {
	PublishWithRetry(ctx context.Context, topic, key string, value interface{}, maxRetries int) error
}

const publishRetries = 3

type AirlineInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Cities      []int64 `json:"cities"`
}

type AirlineService struct {
	repo     repository.AirlineRepository
	cities   repository.CityRepository
	cache    Cache
	producer Producer
	topic    string
}

type AirlineServiceOption func(*AirlineService)

func WithProducer(producer Producer, topic string) AirlineServiceOption {
	return func(s *AirlineService) {
		s.producer = producer
		s.topic = topic
	}
}

func NewAirlineService(repo repository.AirlineRepository, cities repository.CityRepository, cache Cache, opts ...AirlineServiceOption) *AirlineService {
	service := &AirlineService{repo: repo, cities: cities, cache: cache}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *AirlineService) List(ctx context.Context, opts repository.AirlineListOptions) (*cursor.Page[domain.Airline], error) {
	return s.repo.List(ctx, opts, time.Now())
}

// All returns the id+name list of every live airline, cached without
// expiry until the next airline mutation invalidates it.
func (s *AirlineService) All(ctx context.Context) ([]domain.AirlineRef, error) {
	if s.cache != nil {
		var cached []domain.AirlineRef
		if ok, err := s.cache.Get(ctx, cache.AllAirlinesKey(), &cached); err == nil && ok {
			return cached, nil
		}
	}

	refs, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, cache.EntityAirlines, cache.AllAirlinesKey(), refs)
	}
	return refs, nil
}

func (s *AirlineService) GetByID(ctx context.Context, id int64) (*domain.Airline, error) {
	return s.repo.GetByID(ctx, id, time.Now())
}

func (s *AirlineService) Cities(ctx context.Context, id int64) ([]domain.CityRef, error) {
	if _, err := s.repo.GetByID(ctx, id, time.Now()); err != nil {
		return nil, err
	}
	return s.repo.CitiesOf(ctx, id)
}

func (s *AirlineService) Create(ctx context.Context, input AirlineInput) (*domain.Airline, error) {
	verrs, err := s.validate(ctx, input, 0)
	if err != nil {
		return nil, err
	}
	if !verrs.Empty() {
		return nil, verrs
	}

	airline := &domain.Airline{Name: input.Name, Description: input.Description}
	if err := s.repo.Create(ctx, airline, input.Cities); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.publish(ctx, "airline_created", airline.ID)
	return airline, nil
}

func (s *AirlineService) Update(ctx context.Context, id int64, input AirlineInput) (*domain.Airline, error) {
	if _, err := s.repo.GetByID(ctx, id, time.Now()); err != nil {
		return nil, err
	}

	verrs, err := s.validate(ctx, input, id)
	if err != nil {
		return nil, err
	}
	if !verrs.Empty() {
		return nil, verrs
	}

	airline := &domain.Airline{ID: id, Name: input.Name, Description: input.Description}
	if err := s.repo.Update(ctx, airline, input.Cities); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.publish(ctx, "airline_updated", airline.ID)
	return airline, nil
}

// Delete guards against destructive cascades: an airline owning flights
// is only deleted when the caller confirmed, and the warning carries a
// count taken right now rather than a cached one.
func (s *AirlineService) Delete(ctx context.Context, id int64, confirmed bool) error {
	if _, err := s.repo.GetByID(ctx, id, time.Now()); err != nil {
		return err
	}

	flightsCount, err := s.repo.CountFlights(ctx, id)
	if err != nil {
		return err
	}
	if flightsCount > 0 && !confirmed {
		verrs := validation.Errors{}
		verrs.Add("confirmation", fmt.Sprintf("The airline is assigned to %d flight(s), this action will delete the airline as well as every flight assigned to it.", flightsCount))
		return verrs
	}

	if err := s.repo.DeleteCascade(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)
	s.publish(ctx, "airline_deleted", id)
	return nil
}

func (s *AirlineService) Restore(ctx context.Context, id int64) error {
	if err := s.repo.Restore(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.publish(ctx, "airline_restored", id)
	return nil
}

func (s *AirlineService) validate(ctx context.Context, input AirlineInput, ignoreID int64) (validation.Errors, error) {
	verrs := validation.Errors{}

	if input.Name == "" {
		verrs.Add("name", "The name field is required.")
	} else {
		if len(input.Name) > 75 {
			verrs.Add("name", "The name must not be greater than 75 characters.")
		}
		taken, err := s.repo.NameTaken(ctx, input.Name, ignoreID)
		if err != nil {
			return nil, err
		}
		if taken {
			verrs.Add("name", "The name has already been taken.")
		}
	}

	if input.Description == "" {
		verrs.Add("description", "The description field is required.")
	} else if len(input.Description) > 255 {
		verrs.Add("description", "The description must not be greater than 255 characters.")
	}

	for _, cityID := range input.Cities {
		exists, err := s.cities.Exists(ctx, cityID)
		if err != nil {
			return nil, err
		}
		if !exists {
			verrs.Add("cities", "Invalid city")
			break
		}
	}

	return verrs, nil
}

func (s *AirlineService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAll(ctx, cache.EntityAirlines); err != nil {
		log.Printf("invalidate airline cache: %v", err)
	}
}

func (s *AirlineService) publish(ctx context.Context, eventType string, recordID int64) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := kafka.RecordEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		Entity:     "airline",
		RecordID:   recordID,
		OccurredAt: time.Now(),
	}
	if err := s.producer.PublishWithRetry(ctx, s.topic, strconv.FormatInt(recordID, 10), event, publishRetries); err != nil {
		log.Printf("publish %s event for airline %d: %v", eventType, recordID, err)
	}
}

var _ AirlineUseCase = (*AirlineService)(nil)
