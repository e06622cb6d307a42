package httpserver

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mkotelnikov/filevault/internal/errs"
)

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// postUsers handles POST /users: registration.
func (s *Server) postUsers(c *gin.Context) {
	var req createUserRequest
	// a malformed body reads as missing fields; the service reports which
	_ = c.ShouldBindJSON(&req)

	u, err := s.auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": u.ID.Hex(), "email": u.Email})
}

// getConnect handles GET /connect: Basic-credential login issuing a token.
func (s *Server) getConnect(c *gin.Context) {
	email, password, ok := basicCredentials(c.GetHeader("Authorization"))
	if !ok {
		s.writeError(c, errs.ErrUnauthorized)
		return
	}
	token, err := s.auth.Login(c.Request.Context(), email, password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// getDisconnect handles GET /disconnect: token revocation.
func (s *Server) getDisconnect(c *gin.Context) {
	if err := s.auth.Logout(c.Request.Context(), c.GetHeader(tokenHeader)); err != nil {
		s.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// basicCredentials decodes an "Authorization: Basic ..." header into an
// email/password pair. Any malformation reads as absent credentials.
func basicCredentials(header string) (email, password string, ok bool) {
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return "", "", false
	}
	email, password, found := strings.Cut(string(decoded), ":")
	if !found || email == "" || password == "" {
		return "", "", false
	}
	return email, password, true
}
