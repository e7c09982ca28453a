package handlers

import (
	"context"
	"net/http"
	"time"

	"castboard_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	*BaseHandler
}

func NewHealthHandler(base *BaseHandler) *HealthHandler {
	return &HealthHandler{BaseHandler: base}
}

// Health пингует базу; 503, если она недоступна.
func (h *HealthHandler) Health(c *gin.Context) {
	sqlDB, err := h.GetDB(c).DB()
	if err == nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		apperrors.HandleError(c, apperrors.Wrap(err, apperrors.CodeDatabaseError, "system", "Database is unavailable.", http.StatusServiceUnavailable))
		return
	}

	respond(c, http.StatusOK, "OK", gin.H{"status": "ok"})
}
