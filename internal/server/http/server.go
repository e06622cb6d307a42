// Package httpserver exposes the FileVault HTTP API. It is a thin adapter:
// it decodes requests, calls services and owns the status-code mapping.
// Services never see gin.
package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mkotelnikov/filevault/internal/errs"
	"github.com/mkotelnikov/filevault/internal/service"
)

// Server wires services into HTTP handlers.
type Server struct {
	auth     service.AuthService
	identity service.IdentityService
	files    service.FileService
	app      service.AppService
	log      *zap.Logger
}

// New constructs a Server with injected services.
func New(auth service.AuthService, identity service.IdentityService, files service.FileService, app service.AppService, log *zap.Logger) *Server {
	return &Server{auth: auth, identity: identity, files: files, app: app, log: log}
}

// Router builds the gin engine with all routes and middleware.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(s.log), Recovery(s.log))

	r.GET("/status", s.getStatus)
	r.GET("/stats", s.getStats)

	r.POST("/users", s.postUsers)
	r.GET("/connect", s.getConnect)
	r.GET("/disconnect", s.getDisconnect)

	files := r.Group("/files")
	files.Use(s.requireAuth)
	files.POST("", s.postFiles)
	files.GET("", s.listFiles)
	files.GET("/:id", s.showFile)

	return r
}

// writeError is the single place mapping service errors to wire responses.
func (s *Server) writeError(c *gin.Context, err error) {
	type mapping struct {
		sentinel error
		status   int
		message  string
	}
	known := []mapping{
		{errs.ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
		{errs.ErrMissingEmail, http.StatusBadRequest, "Missing email"},
		{errs.ErrMissingPassword, http.StatusBadRequest, "Missing password"},
		{errs.ErrAlreadyExists, http.StatusBadRequest, "Already exist"},
		{errs.ErrMissingName, http.StatusBadRequest, "Missing name"},
		{errs.ErrMissingType, http.StatusBadRequest, "Missing type"},
		{errs.ErrMissingData, http.StatusBadRequest, "Missing data"},
		{errs.ErrParentNotFound, http.StatusBadRequest, "Parent not found"},
		{errs.ErrParentNotFolder, http.StatusBadRequest, "Parent is not a folder"},
		{errs.ErrNotFound, http.StatusNotFound, "Not found"},
	}
	for _, m := range known {
		if errors.Is(err, m.sentinel) {
			c.JSON(m.status, gin.H{"error": m.message})
			return
		}
	}
	s.log.Error("internal error", zap.String("path", c.FullPath()), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error"})
}
