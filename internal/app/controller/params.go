package controller

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/sibors/sibors-backend/internal/errors"
	"github.com/sibors/sibors-backend/internal/middleware"
)

const dateLayout = "2006-01-02"

// parseIDParam reads a positive numeric path parameter and answers 400 when
// it is malformed.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid ID format", map[string]interface{}{
			"param": name,
			"value": raw,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El identificador no es válido")
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes the body into req and answers 400 on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
			"path":  c.Request.URL.Path,
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Los datos enviados no son válidos")
		return false
	}
	return true
}

// optionalUintQuery returns nil when the query parameter is absent
func optionalUintQuery(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "El parámetro "+name+" no es válido")
		return nil, false
	}
	id := uint(v)
	return &id, true
}

// dateQuery parses a YYYY-MM-DD parameter. When endOfDay is set the last
// instant of that day is returned so ranges include it.
func dateQuery(c *gin.Context, name string, endOfDay bool) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.ParseInLocation(dateLayout, raw, time.Local)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "La fecha "+name+" debe tener el formato AAAA-MM-DD")
		return nil, false
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, true
}

// currentUserID returns the authenticated user as an optional reference
func currentUserID(c *gin.Context) *uint {
	id, ok := middleware.GetUserID(c)
	if !ok {
		return nil
	}
	return &id
}
