package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/agrotalent/talent-hub/shared/objectstore"
	"github.com/gin-gonic/gin"
)

type FileHandler struct {
	deps   *Dependencies
	logger *slog.Logger
}

func NewFileHandler(deps *Dependencies) *FileHandler {
	return &FileHandler{deps: deps, logger: deps.Logger}
}

// ServeFile handles GET /files/:bucket/*path
// Private buckets require a signed token in the query string
func (h *FileHandler) ServeFile(c *gin.Context) {
	bucket := c.Param("bucket")
	objectPath := strings.TrimPrefix(c.Param("path"), "/")

	public := h.deps.Objects.IsPublic(bucket)
	if !public {
		if err := h.deps.Objects.VerifySignature(bucket, objectPath, c.Query("token")); err != nil {
			h.logger.Warn("Rejected file download",
				slog.String("bucket", bucket),
				slog.String("path", objectPath),
				slog.String("error", err.Error()),
			)
			c.JSON(http.StatusForbidden, gin.H{"error": "link is invalid or has expired"})
			return
		}
	}

	obj, err := h.deps.Objects.Open(bucket, objectPath)
	if err != nil {
		if errors.Is(err, objectstore.ErrNotFound) || errors.Is(err, objectstore.ErrInvalidPath) || errors.Is(err, objectstore.ErrUnknownBucket) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		h.logger.Error("Failed to open file", slog.String("bucket", bucket), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to open file"})
		return
	}
	defer obj.Close()

	if public {
		c.Header("Cache-Control", "public, max-age=86400")
	} else {
		c.Header("Cache-Control", "private, no-store")
	}
	c.Header("Content-Type", obj.ContentType)
	http.ServeContent(c.Writer, c.Request, path.Base(objectPath), obj.ModTime, obj)
}
