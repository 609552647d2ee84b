package ingest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterHandlers registers the ingestion status handler
func RegisterHandlers(r gin.IRouter, mgr Manager) {
	r.GET("/ingestion", handleStatus(mgr))
}

// handleStatus reports pipeline progress
func handleStatus(mgr Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, mgr.Status())
	}
}
