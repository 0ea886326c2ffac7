package worker

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/agrotalent/talent-hub/internal/intake"
	"github.com/agrotalent/talent-hub/internal/worker/domain"
	"github.com/agrotalent/talent-hub/shared/mailer"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// submittedAtLayout renders timestamps the way owners in Brazil read them
const submittedAtLayout = "02/01/2006 15:04"

// ResumeSigner issues time-limited links to private resume objects
type ResumeSigner interface {
	SignedURL(bucket, objectPath string, ttl time.Duration) (string, error)
}

// RendererConfig holds the settings the notification email depends on
type RendererConfig struct {
	Signer              ResumeSigner
	ResumeBucket        string
	ResumeLinkTTL       time.Duration
	WhatsAppCountryCode string
	Location            *time.Location
}

// Renderer turns an application into the email sent to the job owner
type Renderer struct {
	cfg     RendererConfig
	subject *texttemplate.Template
	text    *texttemplate.Template
	html    *htmltemplate.Template
}

type noticeView struct {
	CandidateName  string
	CandidateEmail string
	CandidatePhone string
	Region         string
	Category       string
	Seniority      string
	JobTitle       string
	Company        string
	SubmittedAt    string
	WhatsAppURL    string
	ResumeURL      string
}

// NewRenderer parses the embedded templates
func NewRenderer(cfg RendererConfig) (*Renderer, error) {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	subject, err := texttemplate.ParseFS(templateFS, "templates/application_notice.subject.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse subject template: %w", err)
	}
	text, err := texttemplate.ParseFS(templateFS, "templates/application_notice.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse text template: %w", err)
	}
	html, err := htmltemplate.ParseFS(templateFS, "templates/application_notice.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("failed to parse html template: %w", err)
	}

	return &Renderer{cfg: cfg, subject: subject, text: text, html: html}, nil
}

// Render builds the message for app. Replies go to the candidate.
func (r *Renderer) Render(app *domain.Application) (*mailer.Message, error) {
	view, err := r.view(app)
	if err != nil {
		return nil, err
	}

	var subject, text, html bytes.Buffer
	if err := r.subject.Execute(&subject, view); err != nil {
		return nil, fmt.Errorf("%w: subject: %v", domain.ErrRenderFailed, err)
	}
	if err := r.text.Execute(&text, view); err != nil {
		return nil, fmt.Errorf("%w: text: %v", domain.ErrRenderFailed, err)
	}
	if err := r.html.Execute(&html, view); err != nil {
		return nil, fmt.Errorf("%w: html: %v", domain.ErrRenderFailed, err)
	}

	return &mailer.Message{
		To:      app.OwnerEmail,
		ReplyTo: app.CandidateEmail,
		Subject: strings.TrimSpace(subject.String()),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

func (r *Renderer) view(app *domain.Application) (*noticeView, error) {
	resumeURL, err := r.resumeURL(app.ResumeRef)
	if err != nil {
		return nil, err
	}

	return &noticeView{
		CandidateName:  app.CandidateName,
		CandidateEmail: app.CandidateEmail,
		CandidatePhone: app.CandidatePhone,
		Region:         app.Region,
		Category:       app.Category,
		Seniority:      app.Seniority,
		JobTitle:       app.JobTitle,
		Company:        app.Company,
		SubmittedAt:    app.SubmittedAt.In(r.cfg.Location).Format(submittedAtLayout),
		WhatsAppURL:    intake.WhatsAppLink(r.cfg.WhatsAppCountryCode, app.CandidatePhone),
		ResumeURL:      resumeURL,
	}, nil
}

func (r *Renderer) resumeURL(ref string) (string, error) {
	if ref == "" {
		return "", nil
	}
	if intake.IsExternalRef(ref) {
		return ref, nil
	}
	signed, err := r.cfg.Signer.SignedURL(r.cfg.ResumeBucket, ref, r.cfg.ResumeLinkTTL)
	if err != nil {
		return "", fmt.Errorf("%w: resume link: %v", domain.ErrRenderFailed, err)
	}
	return signed, nil
}
