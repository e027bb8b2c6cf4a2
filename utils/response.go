package utils

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/developersajeeb/code-stack-server/store"
)

// Context keys shared by middleware and handlers.
const (
	EmailKey     = "email"
	ClaimsKey    = "claims"
	RequestIDKey = "requestID"
)

// Public messages of the authorization gate.
const (
	MsgUnauthorized = "unauthorized access"
	MsgForbidden    = "forbidden access"
	msgNotFound     = "resource not found"
	msgNoChange     = "request had no effect"
	msgDuplicate    = "resource already exists"
	msgInternal     = "internal server error"
)

// ErrorResponse writes the error envelope and aborts the handler chain.
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, gin.H{
		"error":   true,
		"message": message,
	})
}

// StatusFor maps store errors onto HTTP status codes and public messages.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, msgNotFound
	case errors.Is(err, store.ErrNoChange):
		return http.StatusBadRequest, msgNoChange
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict, msgDuplicate
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// Fail logs err and writes the mapped status. The cause never reaches the client.
func Fail(c *gin.Context, err error) {
	status, msg := StatusFor(err)
	fail(c, err, status, msg)
}

// FailWith is Fail with a route specific message for client errors. Server
// errors keep the generic message.
func FailWith(c *gin.Context, err error, message string) {
	status, msg := StatusFor(err)
	if status < http.StatusInternalServerError {
		msg = message
	}
	fail(c, err, status, msg)
}

func fail(c *gin.Context, err error, status int, msg string) {
	level := slog.LevelWarn
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	slog.Log(c.Request.Context(), level, "request failed",
		"status", status,
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
		"request_id", c.GetString(RequestIDKey),
		"error", err,
	)
	ErrorResponse(c, status, msg)
}
