package api

import (
	"fmt"
	"net/http"

	"github.com/Domenick1991/airfleet/internal/domain"
	"github.com/Domenick1991/airfleet/internal/repository"
	"github.com/Domenick1991/airfleet/internal/service/airlines"
	"github.com/gin-gonic/gin"
)

type AirlineHandler struct {
	service airlines.AirlineUseCase
	perPage int
}

type showAirlineResponse struct {
	domain.Airline
	Cities []domain.CityRef `json:"cities"`
}

func NewAirlineHandler(service airlines.AirlineUseCase, perPage int) *AirlineHandler {
	if perPage <= 0 {
		perPage = 10
	}
	return &AirlineHandler{service: service, perPage: perPage}
}

func (h *AirlineHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/all", h.all)
	router.POST("/", h.create)
	router.GET("/:id", h.show)
	router.GET("/:id/cities", h.cities)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.remove)
	router.POST("/:id/restore", h.restore)
}

func (h *AirlineHandler) list(c *gin.Context) {
	opts := repository.AirlineListOptions{PerPage: parsePerPage(c, h.perPage)}

	var ok bool
	if opts.Cursor, ok = parseCursor(c); !ok {
		return
	}
	if opts.DestinationCityID, ok = parseOptionalID(c, "destination_city"); !ok {
		return
	}
	if opts.ActiveFlights, ok = parseOptionalInt(c, "active_flights"); !ok {
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

// all serves the cached id+name lookup used to populate selects.
func (h *AirlineHandler) all(c *gin.Context) {
	refs, err := h.service.All(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, refs)
}

func (h *AirlineHandler) show(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	airline, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	cities, err := h.service.Cities(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, showAirlineResponse{Airline: *airline, Cities: cities})
}

func (h *AirlineHandler) cities(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	cities, err := h.service.Cities(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cities)
}

func (h *AirlineHandler) create(c *gin.Context) {
	var input airlines.AirlineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	airline, err := h.service.Create(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": fmt.Sprintf("Created airline 'ID %d' successfully.", airline.ID)})
}

func (h *AirlineHandler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input airlines.AirlineInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	airline, err := h.service.Update(c.Request.Context(), id, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Updated airline 'ID %d' successfully.", airline.ID)})
}

func (h *AirlineHandler) remove(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id, confirmed(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Deleted airline 'ID %d' successfully.", id)})
}

func (h *AirlineHandler) restore(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Restore(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Restored airline 'ID %d' successfully.", id)})
}
