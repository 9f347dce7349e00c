package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/airfleet/api"
	"github.com/Domenick1991/airfleet/config"
	"github.com/Domenick1991/airfleet/internal/service/airlines"
	"github.com/Domenick1991/airfleet/internal/service/cities"
	"github.com/Domenick1991/airfleet/internal/service/flights"
	"github.com/gin-gonic/gin"
)

// Run starts the HTTP server and blocks until the context is canceled
// or the server fails.
func Run(ctx context.Context, cfg *config.Config, airlineSvc airlines.AirlineUseCase, citySvc cities.CityUseCase, flightSvc flights.FlightUseCase) error {
	router := NewRouter(cfg, airlineSvc, citySvc, flightSvc)

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func NewRouter(cfg *config.Config, airlineSvc airlines.AirlineUseCase, citySvc cities.CityUseCase, flightSvc flights.FlightUseCase) *gin.Engine {
	router := gin.Default()

	api.NewAirlineHandler(airlineSvc, cfg.Paging.AirlinesPerPage).Register(router.Group("/airlines"))
	api.NewCityHandler(citySvc, cfg.Paging.CitiesPerPage).Register(router.Group("/cities"))
	api.NewFlightHandler(flightSvc, cfg.Paging.FlightsPerPage).Register(router.Group("/flights"))

	return router
}
