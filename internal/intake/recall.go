package intake

import (
	"context"
	"encoding/json"
	"log/slog"
)

// RecallKey is the fixed key holding the last submitted profile
const RecallKey = "talent.last_profile"

// KeyValue is a durable key-value port. Get reports false when the key is absent.
type KeyValue interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Recall keeps the last submitted profile on the client so a returning
// visitor starts with a pre-filled form. Entries never expire; each save
// overwrites the previous one.
type Recall struct {
	kv     KeyValue
	logger *slog.Logger
}

// NewRecall creates a Recall over kv
func NewRecall(kv KeyValue, logger *slog.Logger) *Recall {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recall{kv: kv, logger: logger}
}

// Load returns the cached profile, if any.
func (r *Recall) Load(ctx context.Context) (Profile, bool) {
	raw, ok, err := r.kv.Get(ctx, RecallKey)
	if err != nil {
		r.logger.Warn("Failed to read recall cache", slog.Any("error", err))
		return Profile{}, false
	}
	if !ok || raw == "" {
		return Profile{}, false
	}

	var p Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		r.logger.Warn("Ignoring unreadable recall cache entry", slog.Any("error", err))
		return Profile{}, false
	}
	return p, true
}

// Save overwrites the cached profile. Failures are logged only.
func (r *Recall) Save(ctx context.Context, p Profile) {
	raw, err := json.Marshal(p)
	if err != nil {
		r.logger.Warn("Failed to encode recall cache entry", slog.Any("error", err))
		return
	}
	if err := r.kv.Set(ctx, RecallKey, string(raw)); err != nil {
		r.logger.Warn("Failed to write recall cache", slog.Any("error", err))
	}
}
