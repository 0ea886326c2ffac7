package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

var errFileTooLarge = errors.New("file is too large")

// readFormFile reads an optional multipart file. It returns nil data when
// the part is absent.
func readFormFile(c *gin.Context, field string, maxSize int64) ([]byte, string, error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", field, err)
	}

	f, err := header.Open()
	if err != nil {
		return nil, "", fmt.Errorf("failed to open %s: %w", field, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxSize+1))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read %s: %w", field, err)
	}
	if int64(len(data)) > maxSize {
		return nil, "", errFileTooLarge
	}
	return data, header.Filename, nil
}
