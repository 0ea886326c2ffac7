package handler

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/agrotalent/talent-hub/internal/api/storage"
)

func DecodeCursor(cursorStr string) (*storage.Cursor, error) {
	if cursorStr == "" {
		return nil, nil
	}

	decoded, err := base64.URLEncoding.DecodeString(cursorStr)
	if err != nil {
		return nil, err
	}

	parts := strings.Split(string(decoded), "|")
	if len(parts) != 2 || parts[1] == "" {
		return nil, fmt.Errorf("invalid cursor format")
	}

	var createdAt int64
	if _, err := fmt.Sscanf(parts[0], "%d", &createdAt); err != nil {
		return nil, fmt.Errorf("invalid created_at in cursor: %w", err)
	}

	return &storage.Cursor{
		CreatedAt: time.Unix(0, createdAt).UTC(),
		ID:        parts[1],
	}, nil
}

func EncodeCursor(createdAt time.Time, id string) string {
	cs := fmt.Sprintf("%d|%s", createdAt.UnixNano(), id)
	return base64.URLEncoding.EncodeToString([]byte(cs))
}
