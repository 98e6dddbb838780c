package handler

import (
	"errors"
	"net/http"

	"spca-maps/internal/auth"
	"spca-maps/internal/loader"
	"spca-maps/internal/render"
	"spca-maps/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// statusFor maps a load, filter or render failure to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidFilter), errors.Is(err, render.ErrUnknownMapType):
		return http.StatusBadRequest
	case errors.Is(err, loader.ErrNotFound), errors.Is(err, service.ErrNoData):
		return http.StatusNotFound
	case errors.Is(err, loader.ErrUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError logs err and writes it as {"error": "..."}.
func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	logError(c, status, err)
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func logError(c *gin.Context, status int, err error) {
	ev := log.Warn()
	if status >= http.StatusInternalServerError {
		ev = log.Error()
	}
	ev.Err(err).Int("status", status).Str("path", c.FullPath()).Str("session", c.GetString(auth.ContextKey)).Msg("request failed")
}
