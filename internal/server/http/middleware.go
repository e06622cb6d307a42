package httpserver

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mkotelnikov/filevault/internal/objectid"
)

// tokenHeader carries the session token on every protected request.
const tokenHeader = "X-Token"

// ctxUserID is the gin context key holding the resolved user id.
const ctxUserID = "userID"

// RequestLogger logs one structured line per request.
func RequestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// Recovery converts panics into 500 responses with a logged stack.
func Recovery(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					zap.Any("panic", r),
					zap.ByteString("stack", debug.Stack()),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
			}
		}()
		c.Next()
	}
}

// requireAuth resolves the X-Token header and stores the user id in the
// context. This is the only authorization gate in front of /files.
func (s *Server) requireAuth(c *gin.Context) {
	userID, err := s.identity.Resolve(c.Request.Context(), c.GetHeader(tokenHeader))
	if err != nil {
		s.writeError(c, err)
		c.Abort()
		return
	}
	c.Set(ctxUserID, userID)
	c.Next()
}

// currentUser returns the user id placed by requireAuth.
func currentUser(c *gin.Context) objectid.ID {
	return c.MustGet(ctxUserID).(objectid.ID)
}
