package intake

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"sync"
	"time"
)

var pdfBytes = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type memStore struct {
	mu        sync.Mutex
	rows      []*Candidate
	lookupErr error
	insertErr error
	lookups   int
}

func (m *memStore) LatestByEmail(_ context.Context, email string) (*Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	if m.lookupErr != nil {
		return nil, m.lookupErr
	}

	var matches []*Candidate
	for _, r := range m.rows {
		if r.Email == email {
			matches = append(matches, r)
		}
	}
	if len(matches) == 0 {
		return nil, ErrNotFound
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	c := *matches[0]
	return &c, nil
}

func (m *memStore) InsertCandidate(_ context.Context, c *Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	row := *c
	m.rows = append(m.rows, &row)
	return nil
}

func (m *memStore) countByEmail(email string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.rows {
		if r.Email == email {
			n++
		}
	}
	return n
}

func (m *memStore) seed(c Candidate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, &c)
}

type memObjects struct {
	mu      sync.Mutex
	uploads map[string][]byte
	err     error
}

func (m *memObjects) Upload(_ context.Context, bucket, path string, data []byte, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	if m.uploads == nil {
		m.uploads = make(map[string][]byte)
	}
	m.uploads[bucket+"/"+path] = data
	return path, nil
}

func (m *memObjects) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.uploads)
}

type memNotifier struct {
	mu   sync.Mutex
	sent []*Candidate
	err  error
}

func (m *memNotifier) NotifyApplication(_ context.Context, c *Candidate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, c)
	return nil
}

type fakeJobs struct {
	open map[string]bool
	err  error
}

func (f *fakeJobs) IsJobOpen(_ context.Context, jobID string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.open[jobID], nil
}

type memKV struct {
	mu     sync.Mutex
	values map[string]string
	getErr error
	setErr error
}

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	if m.values == nil {
		m.values = make(map[string]string)
	}
	m.values[key] = value
	return nil
}

// blockingSubmitter holds Submit until release is closed
type blockingSubmitter struct {
	started chan struct{}
	release chan struct{}
	calls   int
	mu      sync.Mutex
}

func (b *blockingSubmitter) Submit(_ context.Context, _ Policy, sub Submission) (*Candidate, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	close(b.started)
	<-b.release
	return &Candidate{Email: sub.Profile.Email}, nil
}

var errStoreDown = errors.New("connection refused")

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func validProfile(email string) Profile {
	return Profile{
		Name:      "Maria Souza",
		Email:     email,
		Phone:     "11987654321",
		Region:    "Ribeirão Preto - SP",
		Category:  "agronomy",
		Seniority: "senior",
	}
}
