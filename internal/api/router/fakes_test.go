package router

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/agrotalent/talent-hub/internal/api/domain"
	"github.com/agrotalent/talent-hub/internal/api/model"
	"github.com/agrotalent/talent-hub/internal/api/storage"
	"github.com/agrotalent/talent-hub/internal/intake"
	"github.com/agrotalent/talent-hub/shared/postgresql"
)

type memJobs struct {
	mu   sync.Mutex
	jobs map[string]*model.Job
}

func newMemJobs() *memJobs {
	return &memJobs{jobs: make(map[string]*model.Job)}
}

func (m *memJobs) seed(job model.Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = &job
}

func (m *memJobs) get(id string) (model.Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return model.Job{}, false
	}
	return *j, true
}

func (m *memJobs) CreateJob(_ context.Context, job *model.Job) error {
	m.seed(*job)
	return nil
}

func (m *memJobs) GetJobByID(_ context.Context, id string) (*model.Job, error) {
	j, ok := m.get(id)
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return &j, nil
}

func (m *memJobs) IsJobOpen(_ context.Context, id string) (bool, error) {
	j, ok := m.get(id)
	return ok && j.IsPublic(), nil
}

func (m *memJobs) ListJobs(_ context.Context, f storage.JobFilter) ([]model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.Job
	for _, j := range m.jobs {
		if f.PublicOnly && !j.IsPublic() {
			continue
		}
		if f.Status != "" && j.Status != f.Status {
			continue
		}
		if f.Cursor != nil && !before(j.CreatedAt, j.ID, f.Cursor) {
			continue
		}
		out = append(out, *j)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].ID > out[b].ID
		}
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	if len(out) > f.PageSize+1 {
		out = out[:f.PageSize+1]
	}
	return out, nil
}

func (m *memJobs) UpdateJob(_ context.Context, job *model.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[job.ID]; !ok {
		return domain.ErrJobNotFound
	}
	j := *job
	m.jobs[job.ID] = &j
	return nil
}

func (m *memJobs) SetJobModeration(_ context.Context, id string, approved bool, at time.Time) (*model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	j.IsApproved = approved
	j.Status = domain.ModerationStatus(approved)
	j.UpdatedAt = at
	out := *j
	return &out, nil
}

func (m *memJobs) DeleteJob(_ context.Context, id string) (*model.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	delete(m.jobs, id)
	return j, nil
}

func (m *memJobs) CountPublicJobs(_ context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, j := range m.jobs {
		if j.IsPublic() {
			n++
		}
	}
	return n, nil
}

type memCandidates struct {
	mu      sync.Mutex
	rows    []*model.Candidate
	lookups int
}

func (m *memCandidates) seed(c model.Candidate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows = append(m.rows, &c)
}

func (m *memCandidates) lookupCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lookups
}

func (m *memCandidates) all() []model.Candidate {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Candidate, len(m.rows))
	for i, r := range m.rows {
		out[i] = *r
	}
	return out
}

func (m *memCandidates) LatestByEmail(_ context.Context, email string) (*intake.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	var latest *model.Candidate
	for _, r := range m.rows {
		if r.Email == email && (latest == nil || r.CreatedAt.After(latest.CreatedAt)) {
			latest = r
		}
	}
	if latest == nil {
		return nil, intake.ErrNotFound
	}
	return latest.Intake(), nil
}

func (m *memCandidates) InsertCandidate(_ context.Context, c *intake.Candidate) error {
	m.seed(*model.CandidateFromIntake(c))
	return nil
}

func (m *memCandidates) GetCandidate(_ context.Context, id string) (*model.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ID == id {
			out := *r
			return &out, nil
		}
	}
	return nil, domain.ErrCandidateNotFound
}

func (m *memCandidates) matching(f storage.CandidateFilter) []model.Candidate {
	var out []model.Candidate
	for _, r := range m.rows {
		if f.Status != "" && r.Status != f.Status {
			continue
		}
		if f.JobID != "" && r.JobID.String != f.JobID {
			continue
		}
		if f.JobID == "" && f.PoolOnly && r.JobID.Valid {
			continue
		}
		if f.Cursor != nil && !before(r.CreatedAt, r.ID, f.Cursor) {
			continue
		}
		out = append(out, *r)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].CreatedAt.Equal(out[b].CreatedAt) {
			return out[a].ID > out[b].ID
		}
		return out[a].CreatedAt.After(out[b].CreatedAt)
	})
	return out
}

func (m *memCandidates) ListCandidates(_ context.Context, f storage.CandidateFilter) ([]model.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.matching(f)
	if len(out) > f.PageSize+1 {
		out = out[:f.PageSize+1]
	}
	return out, nil
}

func (m *memCandidates) ListCandidatesForExport(_ context.Context, f storage.CandidateFilter) ([]model.CandidateExportRow, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f.Cursor = nil
	var out []model.CandidateExportRow
	for _, r := range m.matching(f) {
		out = append(out, model.CandidateExportRow{Candidate: r})
	}
	return out, nil
}

func (m *memCandidates) UpdateCandidateStatus(_ context.Context, id, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.ID == id {
			r.Status = status
			return nil
		}
	}
	return domain.ErrCandidateNotFound
}

func (m *memCandidates) DeleteCandidate(_ context.Context, id string) (*model.Candidate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.ID == id {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return r, nil
		}
	}
	return nil, domain.ErrCandidateNotFound
}

func (m *memCandidates) CountResumeReferences(_ context.Context, ref string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.rows {
		if r.ResumeURL == ref {
			n++
		}
	}
	return n, nil
}

func (m *memCandidates) CountCandidatesByStatus(_ context.Context) (map[string]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	counts := make(map[string]int)
	for _, s := range intake.Statuses {
		counts[s] = 0
	}
	for _, r := range m.rows {
		counts[r.Status]++
	}
	return counts, nil
}

type memAdmins struct {
	admins map[string]*model.Admin
	err    error
}

func (m *memAdmins) GetAdminByEmail(_ context.Context, email string) (*model.Admin, error) {
	if m.err != nil {
		return nil, m.err
	}
	a, ok := m.admins[email]
	if !ok {
		return nil, domain.ErrAdminNotFound
	}
	return a, nil
}

type fakeHealth struct {
	err error
}

func (f *fakeHealth) HealthCheck(context.Context) error { return f.err }
func (f *fakeHealth) Stats() postgresql.PoolStats      { return postgresql.PoolStats{Open: 1, Idle: 1} }

var errDatabaseDown = errors.New("database is down")

func before(createdAt time.Time, id string, c *storage.Cursor) bool {
	return createdAt.Before(c.CreatedAt) || (createdAt.Equal(c.CreatedAt) && id < c.ID)
}
