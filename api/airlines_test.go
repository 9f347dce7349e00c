package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Domenick1991/airfleet/internal/cursor"
	"github.com/Domenick1991/airfleet/internal/domain"
	"github.com/Domenick1991/airfleet/internal/repository"
	"github.com/Domenick1991/airfleet/internal/service/airlines"
	"github.com/Domenick1991/airfleet/internal/validation"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAirlineUseCase struct {
	mock.Mock
}

func (m *MockAirlineUseCase) List(ctx context.Context, opts repository.AirlineListOptions) (*cursor.Page[domain.Airline], error) {
	args := m.Called(ctx, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cursor.Page[domain.Airline]), args.Error(1)
}

func (m *MockAirlineUseCase) All(ctx context.Context) ([]domain.AirlineRef, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AirlineRef), args.Error(1)
}

func (m *MockAirlineUseCase) GetByID(ctx context.Context, id int64) (*domain.Airline, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airline), args.Error(1)
}

func (m *MockAirlineUseCase) Cities(ctx context.Context, id int64) ([]domain.CityRef, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CityRef), args.Error(1)
}

func (m *MockAirlineUseCase) Create(ctx context.Context, input airlines.AirlineInput) (*domain.Airline, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airline), args.Error(1)
}

func (m *MockAirlineUseCase) Update(ctx context.Context, id int64, input airlines.AirlineInput) (*domain.Airline, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airline), args.Error(1)
}

func (m *MockAirlineUseCase) Delete(ctx context.Context, id int64, confirmed bool) error {
	args := m.Called(ctx, id, confirmed)
	return args.Error(0)
}

func (m *MockAirlineUseCase) Restore(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newAirlineRouter(service airlines.AirlineUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewAirlineHandler(service, 10).Register(router.Group("/airlines"))
	return router
}

func TestAirlineHandler_List_PassesFilters(t *testing.T) {
	mockService := &MockAirlineUseCase{}
	router := newAirlineRouter(mockService)

	page := &cursor.Page[domain.Airline]{Data: []domain.Airline{{ID: 1}}, PerPage: 10}
	mockService.On("List", mock.Anything, mock.MatchedBy(func(opts repository.AirlineListOptions) bool {
		return opts.DestinationCityID != nil && *opts.DestinationCityID == 7 &&
			opts.ActiveFlights != nil && *opts.ActiveFlights == 2
	})).Return(page, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/airlines/?destination_city=7&active_flights=2", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	mockService.AssertExpectations(t)
}

func TestAirlineHandler_All(t *testing.T) {
	mockService := &MockAirlineUseCase{}
	router := newAirlineRouter(mockService)

	mockService.On("All", mock.Anything).Return([]domain.AirlineRef{{ID: 1, Name: "Nordic Air"}}, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/airlines/all", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Nordic Air")
}

func TestAirlineHandler_Show_IncludesCities(t *testing.T) {
	mockService := &MockAirlineUseCase{}
	router := newAirlineRouter(mockService)

	mockService.On("GetByID", mock.Anything, int64(1)).Return(&domain.Airline{ID: 1, Name: "Nordic Air"}, nil).Once()
	mockService.On("Cities", mock.Anything, int64(1)).Return([]domain.CityRef{{ID: 10, Name: "Madrid"}}, nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/airlines/1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Name   string           `json:"name"`
		Cities []domain.CityRef `json:"cities"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "Nordic Air", response.Name)
	assert.Len(t, response.Cities, 1)
}

func TestAirlineHandler_Create_ValidationErrors(t *testing.T) {
	mockService := &MockAirlineUseCase{}
	router := newAirlineRouter(mockService)

	verrs := validation.Errors{}
	verrs.Add("name", "The name field is required.")
	mockService.On("Create", mock.Anything, mock.Anything).Return(nil, verrs).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/airlines/", bytes.NewReader([]byte(`{}`)))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var response struct {
		Errors map[string][]string `json:"errors"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response.Errors["name"], "The name field is required.")
}

func TestAirlineHandler_Delete_UnconfirmedGuard(t *testing.T) {
	mockService := &MockAirlineUseCase{}
	router := newAirlineRouter(mockService)

	verrs := validation.Errors{}
	verrs.Add("confirmation", "The airline is assigned to 3 flight(s), this action will delete the airline as well as every flight assigned to it.")
	mockService.On("Delete", mock.Anything, int64(1), false).Return(verrs).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/airlines/1", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "3 flight(s)")

	mockService.AssertExpectations(t)
}

func TestAirlineHandler_Delete_Confirmed(t *testing.T) {
	mockService := &MockAirlineUseCase{}
	router := newAirlineRouter(mockService)

	mockService.On("Delete", mock.Anything, int64(1), true).Return(nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/airlines/1?confirmation=true", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Deleted airline 'ID 1' successfully.")

	mockService.AssertExpectations(t)
}

func TestAirlineHandler_Delete_ConfirmationInBody(t *testing.T) {
	mockService := &MockAirlineUseCase{}
	router := newAirlineRouter(mockService)

	mockService.On("Delete", mock.Anything, int64(1), true).Return(nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/airlines/1", bytes.NewReader([]byte(`{"confirmation":true}`)))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	mockService.AssertExpectations(t)
}

func TestAirlineHandler_Restore(t *testing.T) {
	mockService := &MockAirlineUseCase{}
	router := newAirlineRouter(mockService)

	mockService.On("Restore", mock.Anything, int64(2)).Return(nil).Once()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/airlines/2/restore", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Restored airline 'ID 2' successfully.")
}
