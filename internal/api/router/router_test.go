package router

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/agrotalent/talent-hub/internal/api/auth"
	"github.com/agrotalent/talent-hub/internal/api/domain"
	"github.com/agrotalent/talent-hub/internal/api/export"
	"github.com/agrotalent/talent-hub/internal/api/handler"
	"github.com/agrotalent/talent-hub/internal/api/model"
	"github.com/agrotalent/talent-hub/internal/intake"
	"github.com/agrotalent/talent-hub/shared/objectstore"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	adminEmail    = "admin@agrotalent.com.br"
	adminPassword = "s3cret-pass"

	jobA = "6f1c2b3a-1d2e-4f50-8a9b-0c1d2e3f4a5b"
	jobB = "7a2d3c4b-2e3f-4a61-9b0c-1d2e3f4a5b6c"
	jobC = "8b3e4d5c-3f4a-4b72-8c1d-2e3f4a5b6c7d"
)

var (
	fixedNow = time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	pngData  = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 32)...)
	pdfData  = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< /Root 1 0 R >>\n%%EOF\n")
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router     *gin.Engine
	jobs       *memJobs
	candidates *memCandidates
	admins     *memAdmins
	objects    *objectstore.Store
	health     *fakeHealth
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	objects, err := objectstore.New(&objectstore.Config{
		Root:           t.TempDir(),
		BaseURL:        "http://talent.test",
		SigningKey:     "test-signing-key",
		PublicBuckets:  []string{domain.ImageBucket},
		PrivateBuckets: []string{intake.ResumeBucket},
	}, logger)
	require.NoError(t, err)

	hash, err := auth.HashPassword(adminPassword)
	require.NoError(t, err)

	env := &testEnv{
		jobs:       newMemJobs(),
		candidates: &memCandidates{},
		admins: &memAdmins{admins: map[string]*model.Admin{
			adminEmail: {ID: "3c4d5e6f-0000-4000-8000-000000000001", Email: adminEmail, PasswordHash: hash},
		}},
		objects: objects,
		health:  &fakeHealth{},
	}

	committer := intake.NewCommitter(&intake.CommitterConfig{
		Store:   env.candidates,
		Jobs:    env.jobs,
		Objects: objects,
		Logger:  logger,
	})

	deps := &handler.Dependencies{
		Logger:     logger,
		Jobs:       env.jobs,
		Candidates: env.candidates,
		Admins:     env.admins,
		Objects:    objects,
		Committer:  committer,
		Lookup:     intake.NewLookup(env.candidates, logger),
		Tokens:     auth.NewTokens("test-jwt-secret-0123456789", time.Hour),
		Health:     env.health,
		Settings: handler.Settings{
			ServiceName:         "talent-api",
			ResumeURLTTL:        time.Minute,
			WhatsAppCountryCode: "55",
		},
		Now: func() time.Time { return fixedNow },
	}
	env.router = SetupRouter(deps, 12<<20)
	return env
}

func (e *testEnv) do(method, target string, body io.Reader, contentType, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doJSON(method, target string, payload any, token string) *httptest.ResponseRecorder {
	var body io.Reader
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewReader(b)
	}
	return e.do(method, target, body, "application/json", token)
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	w := e.doJSON(http.MethodPost, "/api/v1/admin/login", map[string]string{
		"email":    "Admin@AgroTalent.com.br",
		"password": adminPassword,
	}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func multipartForm(t *testing.T, fields map[string]string, fileField, filename string, data []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func profileFields(email string) map[string]string {
	return map[string]string{
		"name":      "Maria Souza",
		"email":     email,
		"phone":     "11987654321",
		"region":    "MT",
		"category":  "agronomy",
		"seniority": "senior",
		"consent":   "true",
	}
}

func publicJob(id string, createdAt time.Time) model.Job {
	return model.Job{
		ID:          id,
		Title:       "Gerente Agrícola",
		Company:     "Fazenda Boa Vista",
		Location:    "Sorriso - MT",
		Type:        "full_time",
		Description: "Gestão de safra de soja e milho",
		OwnerEmail:  "rh@boavista.com.br",
		OwnerPhone:  "(66) 99876-5432",
		Status:      domain.JobStatusActive,
		IsApproved:  true,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
}

func pendingJob(id string, createdAt time.Time) model.Job {
	j := publicJob(id, createdAt)
	j.Status = domain.JobStatusInactive
	j.IsApproved = false
	return j
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/health", nil, "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)

	env.health.err = errDatabaseDown
	w = env.do(http.MethodGet, "/health", nil, "", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodOptions, "/api/v1/jobs", nil, "", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPublicJobs_List(t *testing.T) {
	env := newTestEnv(t)
	env.jobs.seed(publicJob(jobA, fixedNow.Add(-3*time.Hour)))
	env.jobs.seed(publicJob(jobB, fixedNow.Add(-2*time.Hour)))
	env.jobs.seed(pendingJob(jobC, fixedNow.Add(-1*time.Hour)))

	w := env.do(http.MethodGet, "/api/v1/jobs", nil, "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Jobs []struct {
			ID          string `json:"id"`
			WhatsAppURL string `json:"whatsapp_url"`
		} `json:"jobs"`
		NextCursor string `json:"next_cursor"`
	}
	decode(t, w, &resp)

	require.Len(t, resp.Jobs, 2)
	assert.Equal(t, jobB, resp.Jobs[0].ID, "newest first")
	assert.Equal(t, jobA, resp.Jobs[1].ID)
	assert.Equal(t, "https://wa.me/5566998765432", resp.Jobs[0].WhatsAppURL)
	assert.Empty(t, resp.NextCursor)
	assert.NotContains(t, w.Body.String(), "rh@boavista.com.br", "owner email stays private")
}

func TestPublicJobs_Pagination(t *testing.T) {
	env := newTestEnv(t)
	env.jobs.seed(publicJob(jobA, fixedNow.Add(-3*time.Hour)))
	env.jobs.seed(publicJob(jobB, fixedNow.Add(-2*time.Hour)))
	env.jobs.seed(publicJob(jobC, fixedNow.Add(-1*time.Hour)))

	type page struct {
		Jobs []struct {
			ID string `json:"id"`
		} `json:"jobs"`
		NextCursor string `json:"next_cursor"`
	}

	w := env.do(http.MethodGet, "/api/v1/jobs?page_size=2", nil, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var first page
	decode(t, w, &first)
	require.Len(t, first.Jobs, 2)
	require.NotEmpty(t, first.NextCursor)

	w = env.do(http.MethodGet, "/api/v1/jobs?page_size=2&cursor="+url.QueryEscape(first.NextCursor), nil, "", "")
	require.Equal(t, http.StatusOK, w.Code)
	var second page
	decode(t, w, &second)
	require.Len(t, second.Jobs, 1)
	assert.Equal(t, jobA, second.Jobs[0].ID)
	assert.Empty(t, second.NextCursor)

	w = env.do(http.MethodGet, "/api/v1/jobs?cursor=%25%25", nil, "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPublicJobs_Get(t *testing.T) {
	env := newTestEnv(t)
	env.jobs.seed(publicJob(jobA, fixedNow))
	env.jobs.seed(pendingJob(jobB, fixedNow))

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{name: "public job", path: "/api/v1/jobs/" + jobA, status: http.StatusOK},
		{name: "pending job is hidden", path: "/api/v1/jobs/" + jobB, status: http.StatusNotFound},
		{name: "unknown job", path: "/api/v1/jobs/" + jobC, status: http.StatusNotFound},
		{name: "malformed id", path: "/api/v1/jobs/not-a-uuid", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodGet, tt.path, nil, "", "")
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func jobFields() map[string]string {
	return map[string]string{
		"title":       "Operador de Colheitadeira",
		"company":     "Agro Cerrado",
		"location":    "Rio Verde - GO",
		"type":        "seasonal",
		"description": "Safra 2026",
		"owner_email": "Contato@AgroCerrado.com.br",
		"owner_phone": "64 3333 4444",
	}
}

func TestCreateJob(t *testing.T) {
	env := newTestEnv(t)

	body, ct := multipartForm(t, jobFields(), "image", "banner.png", pngData)
	w := env.do(http.MethodPost, "/api/v1/jobs", body, ct, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ID         string `json:"id"`
		Status     string `json:"status"`
		IsApproved bool   `json:"is_approved"`
	}
	decode(t, w, &resp)
	assert.Equal(t, domain.JobStatusInactive, resp.Status)
	assert.False(t, resp.IsApproved)

	job, ok := env.jobs.get(resp.ID)
	require.True(t, ok)
	assert.Equal(t, "contato@agrocerrado.com.br", job.OwnerEmail)
	assert.Equal(t, "(64) 3333-4444", job.OwnerPhone)
	require.True(t, strings.HasPrefix(job.ImageURL, "http://talent.test/files/job-images/"+resp.ID+"/"))

	u, err := url.Parse(job.ImageURL)
	require.NoError(t, err)
	w = env.do(http.MethodGet, u.RequestURI(), nil, "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))

	// pending postings are not on the board
	w = env.do(http.MethodGet, "/api/v1/jobs/"+resp.ID, nil, "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateJob_Rejects(t *testing.T) {
	env := newTestEnv(t)

	badType := jobFields()
	badType["type"] = "forever"
	badPhone := jobFields()
	badPhone["owner_phone"] = "123"
	missing := jobFields()
	delete(missing, "title")

	tests := []struct {
		name     string
		fields   map[string]string
		filename string
		file     []byte
	}{
		{name: "unknown type", fields: badType},
		{name: "short phone", fields: badPhone},
		{name: "missing title", fields: missing},
		{name: "image is a pdf", fields: jobFields(), filename: "banner.png", file: pdfData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := ""
			if tt.file != nil {
				field = "image"
			}
			body, ct := multipartForm(t, tt.fields, field, tt.filename, tt.file)
			w := env.do(http.MethodPost, "/api/v1/jobs", body, ct, "")
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	body, ct := multipartForm(t, profileFields("Maria@Fazenda.com.br"), "resume", "cv.pdf", pdfData)
	w := env.do(http.MethodPost, "/api/v1/candidates", body, ct, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	rows := env.candidates.all()
	require.Len(t, rows, 1)
	assert.Equal(t, "maria@fazenda.com.br", rows[0].Email)
	assert.Equal(t, "(11) 98765-4321", rows[0].Phone)
	assert.False(t, rows[0].JobID.Valid)
	assert.True(t, strings.HasPrefix(rows[0].ResumeURL, intake.GeneralNamespace+"/"))

	obj, err := env.objects.Open(intake.ResumeBucket, rows[0].ResumeURL)
	require.NoError(t, err)
	obj.Close()

	// second registration with the same email
	body, ct = multipartForm(t, profileFields("maria@fazenda.com.br"), "resume", "cv.pdf", pdfData)
	w = env.do(http.MethodPost, "/api/v1/candidates", body, ct, "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Len(t, env.candidates.all(), 1)
}

func TestRegister_ReturningVisitorWithoutFile(t *testing.T) {
	env := newTestEnv(t)

	body, ct := multipartForm(t, profileFields("dup@fazenda.com.br"), "resume", "cv.pdf", pdfData)
	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/v1/candidates", body, ct, "").Code)

	// the prior resume counts as attached, so the duplicate check decides
	body, ct = multipartForm(t, profileFields("dup@fazenda.com.br"), "", "", nil)
	w := env.do(http.MethodPost, "/api/v1/candidates", body, ct, "")
	assert.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	assert.Len(t, env.candidates.all(), 1)
}

func TestRegister_Rejects(t *testing.T) {
	env := newTestEnv(t)

	noConsent := profileFields("joao@example.com")
	delete(noConsent, "consent")

	tests := []struct {
		name     string
		fields   map[string]string
		filename string
		file     []byte
	}{
		{name: "no resume", fields: profileFields("joao@example.com")},
		{name: "text file", fields: profileFields("joao@example.com"), filename: "cv.txt", file: []byte("hello")},
		{name: "no consent", fields: noConsent, filename: "cv.pdf", file: pdfData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			field := ""
			if tt.file != nil {
				field = "resume"
			}
			body, ct := multipartForm(t, tt.fields, field, tt.filename, tt.file)
			w := env.do(http.MethodPost, "/api/v1/candidates", body, ct, "")
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
	assert.Empty(t, env.candidates.all())
}

func TestApply_ReusesResumeOnRecord(t *testing.T) {
	env := newTestEnv(t)
	env.jobs.seed(publicJob(jobA, fixedNow))
	env.jobs.seed(publicJob(jobB, fixedNow))

	body, ct := multipartForm(t, profileFields("maria@fazenda.com.br"), "resume", "cv.pdf", pdfData)
	w := env.do(http.MethodPost, "/api/v1/jobs/"+jobA+"/applications", body, ct, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		JobID  string `json:"job_id"`
		Status string `json:"status"`
	}
	decode(t, w, &resp)
	assert.Equal(t, jobA, resp.JobID)
	assert.Equal(t, intake.StatusNew, resp.Status)

	body, ct = multipartForm(t, profileFields("maria@fazenda.com.br"), "", "", nil)
	w = env.do(http.MethodPost, "/api/v1/jobs/"+jobB+"/applications", body, ct, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	rows := env.candidates.all()
	require.Len(t, rows, 2)
	assert.True(t, strings.HasPrefix(rows[0].ResumeURL, jobA+"/"))
	assert.Equal(t, rows[0].ResumeURL, rows[1].ResumeURL)
}

func TestApply_Rejects(t *testing.T) {
	env := newTestEnv(t)
	env.jobs.seed(pendingJob(jobA, fixedNow))
	env.jobs.seed(publicJob(jobB, fixedNow))

	tests := []struct {
		name   string
		path   string
		file   bool
		status int
	}{
		{name: "job not approved", path: "/api/v1/jobs/" + jobA + "/applications", file: true, status: http.StatusNotFound},
		{name: "unknown job", path: "/api/v1/jobs/" + jobC + "/applications", file: true, status: http.StatusNotFound},
		{name: "malformed job id", path: "/api/v1/jobs/J1/applications", file: true, status: http.StatusBadRequest},
		{name: "first application without resume", path: "/api/v1/jobs/" + jobB + "/applications", status: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader
			var ct string
			if tt.file {
				body, ct = multipartForm(t, profileFields("joao@example.com"), "resume", "cv.pdf", pdfData)
			} else {
				body, ct = multipartForm(t, profileFields("joao@example.com"), "", "", nil)
			}
			w := env.do(http.MethodPost, tt.path, body, ct, "")
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
	assert.Empty(t, env.candidates.all())
}

func TestApply_InvalidFormSkipsStore(t *testing.T) {
	env := newTestEnv(t)
	env.jobs.seed(publicJob(jobB, fixedNow))

	noConsent := profileFields("joao@example.com")
	delete(noConsent, "consent")
	noName := profileFields("joao@example.com")
	delete(noName, "name")

	for name, fields := range map[string]map[string]string{"no consent": noConsent, "no name": noName} {
		t.Run(name, func(t *testing.T) {
			body, ct := multipartForm(t, fields, "", "", nil)
			w := env.do(http.MethodPost, "/api/v1/jobs/"+jobB+"/applications", body, ct, "")
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
		})
	}
	assert.Zero(t, env.candidates.lookupCount())
	assert.Empty(t, env.candidates.all())
}

func TestLookup(t *testing.T) {
	env := newTestEnv(t)
	env.candidates.seed(model.Candidate{
		ID:         "9d4f5e6a-4a5b-4c83-9d2e-3f4a5b6c7d8e",
		Email:      "maria@fazenda.com.br",
		Name:       "Maria Souza",
		Phone:      "(11) 98765-4321",
		Region:     "MT",
		Category:   "agronomy",
		Seniority:  "senior",
		Experience: "10 anos em grãos",
		ResumeURL:  "general/1741617000000-ab12cd34.pdf",
		Status:     intake.StatusInterview,
		CreatedAt:  fixedNow,
	})

	w := env.do(http.MethodGet, "/api/v1/candidates/lookup?email="+url.QueryEscape(" MARIA@fazenda.com.br "), nil, "", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Profile      intake.Profile `json:"profile"`
		ResumeOnFile bool           `json:"resume_on_file"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "Maria Souza", resp.Profile.Name)
	assert.Equal(t, "10 anos em grãos", resp.Profile.Experience)
	assert.True(t, resp.ResumeOnFile)
	assert.NotContains(t, w.Body.String(), "9d4f5e6a")
	assert.NotContains(t, w.Body.String(), "interview")
	assert.NotContains(t, w.Body.String(), "general/")

	w = env.do(http.MethodGet, "/api/v1/candidates/lookup?email=nobody@example.com", nil, "", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/api/v1/candidates/lookup", nil, "", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminLogin(t *testing.T) {
	env := newTestEnv(t)

	w := env.doJSON(http.MethodPost, "/api/v1/admin/login", map[string]string{"email": adminEmail, "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.doJSON(http.MethodPost, "/api/v1/admin/login", map[string]string{"email": "ghost@example.com", "password": adminPassword}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.doJSON(http.MethodPost, "/api/v1/admin/login", map[string]string{"email": adminEmail}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.NotEmpty(t, env.login(t))

	env.admins.err = errDatabaseDown
	w = env.doJSON(http.MethodPost, "/api/v1/admin/login", map[string]string{"email": adminEmail, "password": adminPassword}, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/v1/admin/jobs", nil, "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodGet, "/api/v1/admin/jobs", nil, "", "forged.token.value")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(http.MethodGet, "/api/v1/admin/jobs", nil, "", env.login(t))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminModeration(t *testing.T) {
	env := newTestEnv(t)
	env.jobs.seed(pendingJob(jobA, fixedNow))
	token := env.login(t)

	w := env.doJSON(http.MethodPost, "/api/v1/admin/jobs/"+jobA+"/moderation", map[string]any{}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.doJSON(http.MethodPost, "/api/v1/admin/jobs/"+jobA+"/moderation", map[string]any{"approved": true}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	job, _ := env.jobs.get(jobA)
	assert.True(t, job.IsApproved)
	assert.Equal(t, domain.JobStatusActive, job.Status)

	w = env.do(http.MethodGet, "/api/v1/jobs/"+jobA, nil, "", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.doJSON(http.MethodPost, "/api/v1/admin/jobs/"+jobA+"/moderation", map[string]any{"approved": false}, token)
	require.Equal(t, http.StatusOK, w.Code)
	job, _ = env.jobs.get(jobA)
	assert.False(t, job.IsApproved)
	assert.Equal(t, domain.JobStatusInactive, job.Status)

	w = env.doJSON(http.MethodPost, "/api/v1/admin/jobs/"+jobB+"/moderation", map[string]any{"approved": true}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminUpdateJob(t *testing.T) {
	env := newTestEnv(t)
	env.jobs.seed(publicJob(jobA, fixedNow.Add(-time.Hour)))
	token := env.login(t)

	w := env.doJSON(http.MethodPut, "/api/v1/admin/jobs/"+jobA, map[string]string{
		"title":       "Coordenador de Safra",
		"company":     "Fazenda Boa Vista",
		"location":    "Sorriso - MT",
		"type":        "contract",
		"description": "Safra 2026/27",
		"owner_email": "rh@boavista.com.br",
		"owner_phone": "66998765432",
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	job, _ := env.jobs.get(jobA)
	assert.Equal(t, "Coordenador de Safra", job.Title)
	assert.Equal(t, "contract", job.Type)
	assert.True(t, job.IsApproved, "moderation state is untouched")
	assert.True(t, job.UpdatedAt.Equal(fixedNow))
}

func TestAdminDeleteJob_RemovesImage(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	body, ct := multipartForm(t, jobFields(), "image", "banner.png", pngData)
	w := env.do(http.MethodPost, "/api/v1/jobs", body, ct, "")
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID string `json:"id"`
	}
	decode(t, w, &created)

	job, _ := env.jobs.get(created.ID)
	imagePath, ok := env.objects.PathFromURL(domain.ImageBucket, job.ImageURL)
	require.True(t, ok)

	w = env.do(http.MethodDelete, "/api/v1/admin/jobs/"+created.ID, nil, "", token)
	require.Equal(t, http.StatusNoContent, w.Code)

	_, ok = env.jobs.get(created.ID)
	assert.False(t, ok)
	_, err := env.objects.Open(domain.ImageBucket, imagePath)
	assert.ErrorIs(t, err, objectstore.ErrNotFound)
}

func TestAdminCandidates(t *testing.T) {
	env := newTestEnv(t)
	env.jobs.seed(publicJob(jobA, fixedNow))
	token := env.login(t)

	body, ct := multipartForm(t, profileFields("maria@fazenda.com.br"), "resume", "cv.pdf", pdfData)
	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/v1/jobs/"+jobA+"/applications", body, ct, "").Code)
	body, ct = multipartForm(t, profileFields("joao@example.com"), "resume", "cv.pdf", pdfData)
	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/v1/candidates", body, ct, "").Code)

	type listResp struct {
		Candidates []struct {
			ID        string `json:"id"`
			Email     string `json:"email"`
			JobID     string `json:"job_id"`
			HasResume bool   `json:"has_resume"`
		} `json:"candidates"`
	}

	w := env.do(http.MethodGet, "/api/v1/admin/candidates?job_id="+jobA, nil, "", token)
	require.Equal(t, http.StatusOK, w.Code)
	var byJob listResp
	decode(t, w, &byJob)
	require.Len(t, byJob.Candidates, 1)
	assert.Equal(t, "maria@fazenda.com.br", byJob.Candidates[0].Email)
	assert.True(t, byJob.Candidates[0].HasResume)

	w = env.do(http.MethodGet, "/api/v1/admin/candidates?pool=true", nil, "", token)
	var pool listResp
	decode(t, w, &pool)
	require.Len(t, pool.Candidates, 1)
	assert.Equal(t, "joao@example.com", pool.Candidates[0].Email)

	w = env.do(http.MethodGet, "/api/v1/admin/candidates?status=rejected", nil, "", token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	id := byJob.Candidates[0].ID
	w = env.doJSON(http.MethodPatch, "/api/v1/admin/candidates/"+id+"/status", map[string]string{"status": intake.StatusInterview}, token)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.doJSON(http.MethodPatch, "/api/v1/admin/candidates/"+id+"/status", map[string]string{"status": "archived"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodGet, "/api/v1/admin/candidates/"+id, nil, "", token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"interview"`)

	w = env.do(http.MethodGet, "/api/v1/admin/stats", nil, "", token)
	require.Equal(t, http.StatusOK, w.Code)
	var stats struct {
		PublicJobs         int            `json:"public_jobs"`
		CandidatesByStatus map[string]int `json:"candidates_by_status"`
		TotalCandidates    int            `json:"total_candidates"`
	}
	decode(t, w, &stats)
	assert.Equal(t, 1, stats.PublicJobs)
	assert.Equal(t, 2, stats.TotalCandidates)
	assert.Equal(t, 1, stats.CandidatesByStatus[intake.StatusNew])
	assert.Equal(t, 1, stats.CandidatesByStatus[intake.StatusInterview])
	assert.Equal(t, 0, stats.CandidatesByStatus[intake.StatusHired])
}

func TestAdminResumeRedirect(t *testing.T) {
	env := newTestEnv(t)
	env.jobs.seed(publicJob(jobA, fixedNow))
	token := env.login(t)

	body, ct := multipartForm(t, profileFields("maria@fazenda.com.br"), "resume", "cv.pdf", pdfData)
	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/v1/jobs/"+jobA+"/applications", body, ct, "").Code)
	stored := env.candidates.all()[0]

	env.candidates.seed(model.Candidate{
		ID:        "aa5a6b7c-5b6c-4d94-8e3f-4a5b6c7d8e9f",
		Email:     "legacy@example.com",
		ResumeURL: "https://legacy.example.com/cv/123.pdf",
		Status:    intake.StatusNew,
		CreatedAt: fixedNow,
	})

	w := env.do(http.MethodGet, "/api/v1/admin/candidates/aa5a6b7c-5b6c-4d94-8e3f-4a5b6c7d8e9f/resume", nil, "", token)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://legacy.example.com/cv/123.pdf", w.Header().Get("Location"))

	w = env.do(http.MethodGet, "/api/v1/admin/candidates/"+stored.ID+"/resume", nil, "", token)
	require.Equal(t, http.StatusFound, w.Code)
	location := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(location, "http://talent.test/files/resumes/"+stored.ResumeURL+"?token="))

	u, err := url.Parse(location)
	require.NoError(t, err)
	w = env.do(http.MethodGet, u.RequestURI(), nil, "", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, pdfData, w.Body.Bytes())

	w = env.do(http.MethodGet, u.Path, nil, "", "")
	assert.Equal(t, http.StatusForbidden, w.Code, "resumes need a signed token")
}

func TestAdminDeleteCandidate_RemovesUnreferencedResume(t *testing.T) {
	env := newTestEnv(t)
	env.jobs.seed(publicJob(jobA, fixedNow))
	env.jobs.seed(publicJob(jobB, fixedNow))
	token := env.login(t)

	body, ct := multipartForm(t, profileFields("maria@fazenda.com.br"), "resume", "cv.pdf", pdfData)
	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/v1/jobs/"+jobA+"/applications", body, ct, "").Code)
	body, ct = multipartForm(t, profileFields("maria@fazenda.com.br"), "", "", nil)
	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/v1/jobs/"+jobB+"/applications", body, ct, "").Code)

	rows := env.candidates.all()
	require.Len(t, rows, 2)
	ref := rows[0].ResumeURL

	w := env.do(http.MethodDelete, "/api/v1/admin/candidates/"+rows[0].ID, nil, "", token)
	require.Equal(t, http.StatusNoContent, w.Code)
	obj, err := env.objects.Open(intake.ResumeBucket, ref)
	require.NoError(t, err, "still referenced by the second application")
	obj.Close()

	w = env.do(http.MethodDelete, "/api/v1/admin/candidates/"+rows[1].ID, nil, "", token)
	require.Equal(t, http.StatusNoContent, w.Code)
	_, err = env.objects.Open(intake.ResumeBucket, ref)
	assert.ErrorIs(t, err, objectstore.ErrNotFound)

	w = env.do(http.MethodDelete, "/api/v1/admin/candidates/"+rows[1].ID, nil, "", token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminExport(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t)

	body, ct := multipartForm(t, profileFields("joao@example.com"), "resume", "cv.pdf", pdfData)
	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/api/v1/candidates", body, ct, "").Code)

	w := env.do(http.MethodGet, "/api/v1/admin/candidates/export", nil, "", token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "candidates-20260310.xlsx")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")), "xlsx is a zip archive")
}
