package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Root answers the bare liveness check.
func (h *Handler) Root(c *gin.Context) {
	c.String(http.StatusOK, "server is running")
}

// Healthz reports whether the document store answers a ping.
func (h *Handler) Healthz(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
