package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// getStatus handles GET /status: per-store liveness, always 200.
func (s *Server) getStatus(c *gin.Context) {
	c.JSON(http.StatusOK, s.app.Status(c.Request.Context()))
}

// getStats handles GET /stats: aggregate user and file counts.
func (s *Server) getStats(c *gin.Context) {
	stats, err := s.app.Stats(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
