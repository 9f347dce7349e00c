package api

import (
	"fmt"
	"net/http"

	"github.com/Domenick1991/airfleet/internal/repository"
	"github.com/Domenick1991/airfleet/internal/service/cities"
	"github.com/gin-gonic/gin"
)

type CityHandler struct {
	service cities.CityUseCase
	perPage int
}

func NewCityHandler(service cities.CityUseCase, perPage int) *CityHandler {
	if perPage <= 0 {
		perPage = 10
	}
	return &CityHandler{service: service, perPage: perPage}
}

func (h *CityHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/all", h.all)
	router.POST("/", h.create)
	router.GET("/:id", h.show)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.remove)
	router.POST("/:id/restore", h.restore)
}

func (h *CityHandler) list(c *gin.Context) {
	opts := repository.CityListOptions{PerPage: parsePerPage(c, h.perPage)}
	opts.SortColumn, opts.SortDesc = cities.ParseSort(c.Query("sort"))

	var ok bool
	if opts.Cursor, ok = parseCursor(c); !ok {
		return
	}
	if opts.AirlineID, ok = parseOptionalID(c, "airline"); !ok {
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

func (h *CityHandler) all(c *gin.Context) {
	refs, err := h.service.All(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, refs)
}

func (h *CityHandler) show(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	city, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, city)
}

func (h *CityHandler) create(c *gin.Context) {
	var input cities.CityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.service.Create(c.Request.Context(), input); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "City created successfully."})
}

func (h *CityHandler) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var input cities.CityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.service.Update(c.Request.Context(), id, input); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "City updated successfully."})
}

func (h *CityHandler) remove(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id, confirmed(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "City deleted successfully."})
}

func (h *CityHandler) restore(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.service.Restore(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Restored city 'ID %d' successfully.", id)})
}
