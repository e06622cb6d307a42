package httpserver

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mkotelnikov/filevault/internal/model"
)

// createFileRequest mirrors the wire shape of POST /files. parentId may be a
// JSON number (the root sentinel 0) or a string id, so it decodes as any.
type createFileRequest struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	ParentID any    `json:"parentId"`
	IsPublic bool   `json:"isPublic"`
	Data     string `json:"data"`
}

// postFiles handles POST /files: node creation.
func (s *Server) postFiles(c *gin.Context) {
	var req createFileRequest
	// a malformed body reads as missing fields; the service reports which
	_ = c.ShouldBindJSON(&req)

	view, err := s.files.Create(c.Request.Context(), currentUser(c), model.CreateNodeRequest{
		Name:     req.Name,
		Type:     req.Type,
		ParentID: parentRef(req.ParentID),
		IsPublic: req.IsPublic,
		Data:     req.Data,
	})
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

// showFile handles GET /files/:id: single-node metadata.
func (s *Server) showFile(c *gin.Context) {
	view, err := s.files.Get(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// listFiles handles GET /files: one page of children under parentId.
func (s *Server) listFiles(c *gin.Context) {
	views, err := s.files.List(c.Request.Context(), currentUser(c), c.Query("parentId"), pageNumber(c.Query("page")))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, views)
}

// parentRef normalizes the decoded parentId into a string reference where ""
// means the root sentinel.
func parentRef(v any) string {
	switch p := v.(type) {
	case nil:
		return ""
	case string:
		return p
	case float64:
		if p == 0 {
			return ""
		}
		return strconv.FormatFloat(p, 'f', -1, 64)
	default:
		return fmt.Sprint(p)
	}
}

// pageNumber parses the page query parameter; anything but a non-negative
// integer reads as page zero.
func pageNumber(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 0 {
		return 0
	}
	return page
}
