package cities

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/Domenick1991/airfleet/internal/cache"
	"github.com/Domenick1991/airfleet/internal/cursor"
	"github.com/Domenick1991/airfleet/internal/domain"
	"github.com/Domenick1991/airfleet/internal/kafka"
	"github.com/Domenick1991/airfleet/internal/repository"
	"github.com/Domenick1991/airfleet/internal/validation"
	"github.com/google/uuid"
)

type CityUseCase interface {
	List(ctx context.Context, opts repository.CityListOptions) (*cursor.Page[domain.City], error)
	All(ctx context.Context) ([]domain.CityRef, error)
	GetByID(ctx context.Context, id int64) (*domain.City, error)
	Create(ctx context.Context, input CityInput) (*domain.City, error)
	Update(ctx context.Context, id int64, input CityInput) (*domain.City, error)
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

type CityInput struct {
	Name string `json:"name"`
}

type CityService struct {
	repo     repository.CityRepository
	cache    Cache
	producer Producer
	topic    string
}

type CityServiceOption func(*CityService)

func WithProducer(producer Producer, topic string) CityServiceOption {
	return func(s *CityService) {
		s.producer = producer
		s.topic = topic
	}
}

func NewCityService(repo repository.CityRepository, cache Cache, opts ...CityServiceOption) *CityService {
	service := &CityService{repo: repo, cache: cache}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// ParseSort interprets the "<column>,<direction>" query parameter.
// Unknown columns and directions fall back to id, descending.
func ParseSort(sort string) (column string, desc bool) {
	column = "id"
	desc = true
	if sort == "" {
		return column, desc
	}

	parts := strings.SplitN(sort, ",", 2)
	if parts[0] == "id" || parts[0] == "name" {
		column = parts[0]
	}
	if len(parts) == 2 && parts[1] == "asc" {
		desc = false
	}
	return column, desc
}

func (s *CityService) List(ctx context.Context, opts repository.CityListOptions) (*cursor.Page[domain.City], error) {
	return s.repo.List(ctx, opts)
}

func (s *CityService) All(ctx context.Context) ([]domain.CityRef, error) {
	if s.cache != nil {
		var cached []domain.CityRef
		if ok, err := s.cache.Get(ctx, cache.AllCitiesKey(), &cached); err == nil && ok {
			return cached, nil
		}
	}

	refs, err := s.repo.All(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, cache.EntityCities, cache.AllCitiesKey(), refs)
	}
	return refs, nil
}

func (s *CityService) GetByID(ctx context.Context, id int64) (*domain.City, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *CityService) Create(ctx context.Context, input CityInput) (*domain.City, error) {
	verrs, err := s.validate(ctx, input, 0)
	if err != nil {
		return nil, err
	}
	if !verrs.Empty() {
		return nil, verrs
	}

	city := &domain.City{Name: input.Name}
	if err := s.repo.Create(ctx, city); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.publish(ctx, "city_created", city.ID)
	return city, nil
}

func (s *CityService) Update(ctx context.Context, id int64, input CityInput) (*domain.City, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	verrs, err := s.validate(ctx, input, id)
	if err != nil {
		return nil, err
	}
	if !verrs.Empty() {
		return nil, verrs
	}

	city := &domain.City{ID: id, Name: input.Name}
	if err := s.repo.Update(ctx, city); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	s.publish(ctx, "city_updated", city.ID)
	return city, nil
}

// Delete inspects the city's dependents fresh and refuses unconfirmed
// destructive deletes with a warning that names only the non-zero
// categories.
func (s *CityService) Delete(ctx context.Context, id int64, confirmed bool) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}

	dependents, err := s.repo.Dependents(ctx, id)
	if err != nil {
		return err
	}
	if !dependents.Empty() && !confirmed {
		verrs := validation.Errors{}
		verrs.Add("confirmation", dependentsWarning(dependents))
		return verrs
	}

	if err := s.repo.DeleteCascade(ctx, id); err != nil {
		return err
	}

	s.invalidate(ctx)
	s.publish(ctx, "city_deleted", id)
	return nil
}

func (s *CityService) Restore(ctx context.Context, id int64) error {
	if err := s.repo.Restore(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.publish(ctx, "city_restored", id)
	return nil
}

func dependentsWarning(d repository.CityDependents) string {
	var related []string
	if d.IncomingFlights > 0 {
		related = append(related, fmt.Sprintf("%d incoming flight(s)", d.IncomingFlights))
	}
	if d.OutgoingFlights > 0 {
		related = append(related, fmt.Sprintf("%d outgoing flight(s)", d.OutgoingFlights))
	}
	if d.Airlines > 0 {
		related = append(related, fmt.Sprintf("is assigned to %d airline(s)", d.Airlines))
	}

	return fmt.Sprintf("The city has %s, this action will delete the city as well as the mentioned related record(s), confirm to delete.", validation.JoinNatural(related))
}

func (s *CityService) validate(ctx context.Context, input CityInput, ignoreID int64) (validation.Errors, error) {
	verrs := validation.Errors{}

	if input.Name == "" {
		verrs.Add("name", "The name field is required.")
		return verrs, nil
	}

	taken, err := s.repo.NameTaken(ctx, input.Name, ignoreID)
	if err != nil {
		return nil, err
	}
	if taken {
		verrs.Add("name", "The name has already been taken.")
	}
	return verrs, nil
}

func (s *CityService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateAll(ctx, cache.EntityCities); err != nil {
		log.Printf("invalidate city cache: %v", err)
	}
}

func (s *CityService) publish(ctx context.Context, eventType string, recordID int64) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := kafka.RecordEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		Entity:     "city",
		RecordID:   recordID,
		OccurredAt: time.Now(),
	}
	if err := s.producer.PublishWithRetry(ctx, s.topic, strconv.FormatInt(recordID, 10), event, publishRetries); err != nil {
		log.Printf("publish %s event for city %d: %v", eventType, recordID, err)
	}
}

var _ CityUseCase = (*CityService)(nil)
