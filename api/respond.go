package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Domenick1991/airfleet/internal/cursor"
	"github.com/Domenick1991/airfleet/internal/domain"
	"github.com/Domenick1991/airfleet/internal/validation"
	"github.com/gin-gonic/gin"
)

// respondError maps the error taxonomy onto status codes: rule
// violations are client-correctable (422), missing live records are
// 404, anything else is a storage failure surfaced generically.
func respondError(c *gin.Context, err error) {
	if verrs, ok := validation.AsErrors(err); ok {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": verrs})
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func parsePerPage(c *gin.Context, fallback int) int {
	raw := c.Query("per_page")
	if raw == "" {
		return fallback
	}
	perPage, err := strconv.Atoi(raw)
	if err != nil || perPage <= 0 {
		return fallback
	}
	return perPage
}

func parseCursor(c *gin.Context) (*cursor.Cursor, bool) {
	token := c.Query("cursor")
	if token == "" {
		return nil, true
	}
	cur, err := cursor.Decode(token)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cursor"})
		return nil, false
	}
	return cur, true
}

// parseOptionalID reads an optional int64 query filter; nil means absent.
func parseOptionalID(c *gin.Context, name string) (*int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return nil, false
	}
	return &id, true
}

func parseOptionalInt(c *gin.Context, name string) (*int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return nil, false
	}
	return &value, true
}

func parseOptionalDate(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return nil, false
	}
	return &date, true
}

func confirmed(c *gin.Context) bool {
	raw := c.Query("confirmation")
	if raw == "" {
		var body struct {
			Confirmation bool `json:"confirmation"`
		}
		if err := c.ShouldBindJSON(&body); err == nil {
			return body.Confirmation
		}
		return false
	}
	ok, err := strconv.ParseBool(raw)
	return err == nil && ok
}
