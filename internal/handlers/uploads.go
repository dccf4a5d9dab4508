package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/diewo77/medicine-recommendation/httpx"
	"github.com/diewo77/medicine-recommendation/internal/storage"
)

type UploadsHandler struct {
	files storage.Storage
}

func NewUploadsHandler(files storage.Storage) *UploadsHandler {
	return &UploadsHandler{files: files}
}

// Serve streams a stored avatar. Anything that is not a plain file name is a 404.
func (h *UploadsHandler) Serve(c *gin.Context) {
	name := c.Param("filename")
	if !storage.ValidKey(name) {
		httpx.JSONError(c, http.StatusNotFound, "File not found", nil)
		return
	}
	rc, err := h.files.Get(c.Request.Context(), name)
	if errors.Is(err, storage.ErrNotFound) {
		httpx.JSONError(c, http.StatusNotFound, "File not found", nil)
		return
	}
	if err != nil {
		log.WithError(err).WithField("key", name).Error("read upload")
		httpx.JSONError(c, http.StatusInternalServerError, "Internal server error", nil)
		return
	}
	defer rc.Close()
	c.Header("X-Content-Type-Options", "nosniff")
	c.DataFromReader(http.StatusOK, -1, storage.ContentType(name), rc, nil)
}
