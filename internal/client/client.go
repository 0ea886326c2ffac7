package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/agrotalent/talent-hub/internal/api/dto"
	"github.com/agrotalent/talent-hub/internal/intake"
)

// ResumeOnFile stands in for a prior resume reference the server did not
// disclose. The server resolves the real reference when the form is sent
// without a file.
const ResumeOnFile = "server:resume-on-file"

// Config holds the talent hub API client settings
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client talks to the public talent hub API. It implements intake.Finder
// and intake.Submitter so a form session can run against a remote server.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	logger  *slog.Logger
}

// New creates a client. A nil httpClient gets a default one with cfg.Timeout.
func New(cfg Config, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	u, err := url.ParseRequestURI(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{baseURL: u, http: httpClient, logger: logger}, nil
}

// ListJobs returns one page of public jobs and the cursor of the next page
func (c *Client) ListJobs(ctx context.Context, pageSize int, cursor string) (*dto.ListJobsResponse, error) {
	q := url.Values{}
	if pageSize > 0 {
		q.Set("page_size", strconv.Itoa(pageSize))
	}
	if cursor != "" {
		q.Set("cursor", cursor)
	}

	var out dto.ListJobsResponse
	if err := c.getJSON(ctx, "/api/v1/jobs", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetJob returns one public job
func (c *Client) GetJob(ctx context.Context, jobID string) (*dto.JobDTO, error) {
	var out dto.JobDTO
	if err := c.getJSON(ctx, "/api/v1/jobs/"+url.PathEscape(jobID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Lookup returns the prior profile for email
func (c *Client) Lookup(ctx context.Context, email string) (*dto.LookupResponse, error) {
	var out dto.LookupResponse
	if err := c.getJSON(ctx, "/api/v1/candidates/lookup", url.Values{"email": {email}}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Find implements intake.Finder. Any failure reads as "not found" so the
// form keeps working when the lookup endpoint is down.
func (c *Client) Find(ctx context.Context, email string) (*intake.Candidate, bool) {
	if strings.TrimSpace(email) == "" {
		return nil, false
	}

	res, err := c.Lookup(ctx, email)
	if err != nil {
		if !errors.Is(err, intake.ErrNotFound) {
			c.logger.Warn("Lookup failed", slog.String("error", err.Error()))
		}
		return nil, false
	}

	p := res.Profile
	found := &intake.Candidate{
		Email:      p.Email,
		Name:       p.Name,
		Phone:      intake.UnmaskPhone(p.Phone),
		Region:     p.Region,
		Category:   p.Category,
		Seniority:  p.Seniority,
		Experience: p.Experience,
	}
	if res.ResumeOnFile {
		found.ResumeURL = ResumeOnFile
	}
	return found, true
}

// Submit implements intake.Submitter by posting the multipart form
func (c *Client) Submit(ctx context.Context, policy intake.Policy, sub intake.Submission) (*intake.Candidate, error) {
	path := "/api/v1/candidates"
	if policy.ScopedToJob {
		path = "/api/v1/jobs/" + url.PathEscape(sub.JobID) + "/applications"
	}

	body, contentType, err := encodeSubmission(sub)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path, nil), body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	var out dto.SubmissionResponse
	if err := c.do(req, http.StatusCreated, &out); err != nil {
		return nil, err
	}

	created, _ := time.Parse(time.RFC3339, out.CreatedAt)
	cand := &intake.Candidate{
		ID:        out.ID,
		Email:     intake.NormalizeEmail(sub.Profile.Email),
		Name:      sub.Profile.Name,
		Phone:     sub.Profile.Phone,
		Region:    sub.Profile.Region,
		Category:  sub.Profile.Category,
		Seniority: sub.Profile.Seniority,
		Status:    out.Status,
		CreatedAt: created,
	}
	if out.JobID != "" {
		jobID := out.JobID
		cand.JobID = &jobID
	}
	return cand, nil
}

func encodeSubmission(sub intake.Submission) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"name", sub.Profile.Name},
		{"email", sub.Profile.Email},
		{"phone", sub.Profile.Phone},
		{"region", sub.Profile.Region},
		{"category", sub.Profile.Category},
		{"seniority", sub.Profile.Seniority},
		{"experience", sub.Profile.Experience},
		{"consent", strconv.FormatBool(sub.Consent)},
	}
	for _, f := range fields {
		if err := w.WriteField(f[0], f[1]); err != nil {
			return nil, "", fmt.Errorf("failed to encode form: %w", err)
		}
	}

	if sub.Resume != nil {
		part, err := w.CreateFormFile("resume", sub.Resume.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode resume: %w", err)
		}
		if _, err := part.Write(sub.Resume.Data); err != nil {
			return nil, "", fmt.Errorf("failed to encode resume: %w", err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to encode form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, q), nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	return c.do(req, http.StatusOK, out)
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = q.Encode()
	return u.String()
}

func (c *Client) do(req *http.Request, want int, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &intake.StoreError{Op: req.Method + " " + req.URL.Path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return statusError(req, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// statusError maps an API error response back to the intake error it came from
func statusError(req *http.Request, resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)
	msg := body.Error
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return &intake.ValidationError{Field: "form", Message: msg}
	case http.StatusConflict:
		return intake.ErrDuplicateEmail
	case http.StatusNotFound:
		if strings.Contains(req.URL.Path, "/jobs/") {
			return intake.ErrJobUnavailable
		}
		return intake.ErrNotFound
	case http.StatusBadGateway:
		return &intake.UploadError{Err: errors.New(msg)}
	default:
		return &intake.StoreError{
			Op:  req.Method + " " + req.URL.Path,
			Err: fmt.Errorf("status %d: %s", resp.StatusCode, msg),
		}
	}
}
