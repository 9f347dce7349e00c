package api

import (
	"fmt"
	"net/http"

	"github.com/Domenick1991/airfleet/internal/repository"
	"github.com/Domenick1991/airfleet/internal/service/flights"
	"github.com/gin-gonic/gin"
)

type FlightHandler struct {
	service flights.FlightUseCase
	perPage int
}

func NewFlightHandler(service flights.FlightUseCase, perPage int) *FlightHandler {
	if perPage <= 0 {
		perPage = 10
	}
	return &FlightHandler{service: service, perPage: perPage}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.POST("/", h.create)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.remove)
}

func (h *FlightHandler) list(c *gin.Context) {
	opts := repository.FlightListOptions{PerPage: parsePerPage(c, h.perPage)}

	var ok bool
	if opts.Cursor, ok = parseCursor(c); !ok {
		return
	}
	if opts.AirlineID, ok = parseOptionalID(c, "airline"); !ok {
		return
	}
	if opts.DepartureCityID, ok = parseOptionalID(c, "departure_city"); !ok {
		return
	}
	if opts.DestinationCityID, ok = parseOptionalID(c, "destination_city"); !ok {
		return
	}
	if opts.DepartureDate, ok = parseOptionalDate(c, "departure_at"); !ok {
		return
	}
	if opts.ArrivalDate, ok = parseOptionalDate(c, "arrival_at"); !ok {
		return
	}

	page, err := h.service.List(c.Request.Context(), opts)
	if err != nil {
		respondError(c, err)
		return
	}
	page.Path = c.Request.URL.Path
	c.JSON(http.StatusOK, page)
}

func (h *FlightHandler) get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	flight, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, flight)
}

func (h *FlightHandler) create(c *gin.Context) {
	var input flights.FlightInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flight, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": fmt.Sprintf("Created flight 'ID %d' successfully.", flight.ID)})
}

func (h *FlightHandler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input flights.FlightInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	flight, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Updated flight 'ID %d' successfully.", flight.ID)})
}

func (h *FlightHandler) remove(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Deleted flight 'ID %d' successfully.", id)})
}
