package intake

import (
	"context"
	"errors"
	"log/slog"
)

// CandidateFinder reads the most recent candidate row for an email.
// Implementations return ErrNotFound when no row matches.
type CandidateFinder interface {
	LatestByEmail(ctx context.Context, email string) (*Candidate, error)
}

// Finder is what a form needs to look up a prior submission.
type Finder interface {
	Find(ctx context.Context, email string) (*Candidate, bool)
}

// Lookup resolves an email to its most recent candidate row. It is a
// convenience feature: store failures are logged and reported as not found.
type Lookup struct {
	finder CandidateFinder
	logger *slog.Logger
}

// NewLookup creates a Lookup over the given store
func NewLookup(finder CandidateFinder, logger *slog.Logger) *Lookup {
	if logger == nil {
		logger = slog.Default()
	}
	return &Lookup{finder: finder, logger: logger}
}

// Find returns the most recent candidate with the given email.
func (l *Lookup) Find(ctx context.Context, email string) (*Candidate, bool) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, false
	}

	c, err := l.finder.LatestByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			l.logger.Warn("Candidate lookup failed, continuing without prior profile",
				slog.String("email", email),
				slog.Any("error", err),
			)
		}
		return nil, false
	}

	return c, true
}
