package intake

import (
	"context"
	"log/slog"
	"sync"
)

// Field names a user-editable form field
type Field string

const (
	FieldName       Field = "name"
	FieldEmail      Field = "email"
	FieldPhone      Field = "phone"
	FieldRegion     Field = "region"
	FieldCategory   Field = "category"
	FieldSeniority  Field = "seniority"
	FieldExperience Field = "experience"
)

// BlurResult tells the caller what an email lookup did to the form.
type BlurResult struct {
	Found       bool
	Autofilled  bool
	ResumeKnown bool
}

// SessionConfig holds the collaborators of a form session
type SessionConfig struct {
	Policy    Policy
	JobID     string
	Finder    Finder
	Submitter Submitter
	Recall    *Recall
	Logger    *slog.Logger
}

// Session is one in-progress intake form. Lookups happen on email blur
// and commits on submit; at most one submit runs at a time.
type Session struct {
	mu sync.Mutex

	policy    Policy
	jobID     string
	finder    Finder
	submitter Submitter
	recall    *Recall
	logger    *slog.Logger

	form        Profile
	resume      *ResumeFile
	existingRef string
	refEmail    string // normalized email existingRef was found under
	consent     bool

	autofilled bool
	edited     bool
	submitting bool
}

// NewSession creates a form session
func NewSession(cfg *SessionConfig) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{
		policy:    cfg.Policy,
		jobID:     cfg.JobID,
		finder:    cfg.Finder,
		submitter: cfg.Submitter,
		recall:    cfg.Recall,
		logger:    logger,
	}
}

// Mount seeds the form from the recall cache. When the cached profile has an
// email, the prior resume reference is looked up as well. It reports whether
// cached data was applied.
func (s *Session) Mount(ctx context.Context) bool {
	if s.recall == nil {
		return false
	}
	cached, ok := s.recall.Load(ctx)
	if !ok {
		return false
	}

	s.mu.Lock()
	s.form = cached
	if !s.policy.CollectExperience {
		s.form.Experience = ""
	}
	email := s.form.Email
	s.mu.Unlock()

	if email != "" && s.finder != nil {
		if found, ok := s.finder.Find(ctx, email); ok {
			s.mu.Lock()
			s.rememberResume(email, found.ResumeURL)
			s.mu.Unlock()
		}
	}
	return true
}

// Set records a user edit. Phone input is masked as it is typed.
func (s *Session) Set(field Field, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch field {
	case FieldName:
		s.form.Name = value
	case FieldEmail:
		s.form.Email = value
		if NormalizeEmail(value) != s.refEmail {
			s.rememberResume("", "")
		}
	case FieldPhone:
		s.form.Phone = MaskPhone(value)
	case FieldRegion:
		s.form.Region = value
	case FieldCategory:
		s.form.Category = value
	case FieldSeniority:
		s.form.Seniority = value
	case FieldExperience:
		if s.policy.CollectExperience {
			s.form.Experience = value
		}
	default:
		return
	}
	if field != FieldEmail {
		s.edited = true
	}
}

// AttachResume sets the new resume file, replacing any previous attachment.
func (s *Session) AttachResume(f *ResumeFile) {
	s.mu.Lock()
	s.resume = f
	s.mu.Unlock()
}

// SetConsent records the data processing consent checkbox.
func (s *Session) SetConsent(accepted bool) {
	s.mu.Lock()
	s.consent = accepted
	s.mu.Unlock()
}

// BlurEmail looks up the typed email and reconciles a hit into the form.
// Auto-fill fires only while the name is empty and never again once the
// user has edited an auto-filled form.
func (s *Session) BlurEmail(ctx context.Context) BlurResult {
	s.mu.Lock()
	email := s.form.Email
	s.mu.Unlock()

	if email == "" || s.finder == nil {
		return BlurResult{}
	}

	found, ok := s.finder.Find(ctx, email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.form.Email != email {
		// edited while the lookup was in flight
		return BlurResult{}
	}
	if !ok {
		s.rememberResume("", "")
		return BlurResult{}
	}

	res := BlurResult{Found: true}
	if !(s.autofilled && s.edited) && s.policy.Merge(&s.form, found) {
		s.autofilled = true
		s.edited = false
		res.Autofilled = true
	}
	s.rememberResume(email, found.ResumeURL)
	res.ResumeKnown = s.currentRef() != ""

	if res.Autofilled {
		s.logger.Info("Reused prior candidate data", slog.String("email", NormalizeEmail(email)))
	}
	return res
}

// rememberResume binds a prior resume reference to the email it belongs to.
// Callers hold s.mu.
func (s *Session) rememberResume(email, ref string) {
	s.existingRef = ref
	s.refEmail = NormalizeEmail(email)
	if ref == "" {
		s.refEmail = ""
	}
}

// currentRef returns existingRef only while the form still shows its email.
// Callers hold s.mu.
func (s *Session) currentRef() string {
	if s.existingRef == "" || NormalizeEmail(s.form.Email) != s.refEmail {
		return ""
	}
	return s.existingRef
}

// Form returns a copy of the current form fields
func (s *Session) Form() Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form
}

// ExistingResumeRef returns the prior resume reference remembered from lookup
func (s *Session) ExistingResumeRef() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentRef()
}

// Submit validates locally, refreshes the recall cache and hands the
// submission to the submitter. A second Submit while one is pending
// returns ErrSubmitInProgress.
func (s *Session) Submit(ctx context.Context) (*Candidate, error) {
	s.mu.Lock()
	if s.submitting {
		s.mu.Unlock()
		return nil, ErrSubmitInProgress
	}

	sub := Submission{
		Profile:           s.form,
		Resume:            s.resume,
		ExistingResumeRef: s.currentRef(),
		JobID:             s.jobID,
		Consent:           s.consent,
	}
	sub.Profile.Email = NormalizeEmail(sub.Profile.Email)

	if err := s.policy.Validate(&sub); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	s.submitting = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.submitting = false
		s.mu.Unlock()
	}()

	if s.recall != nil {
		s.recall.Save(ctx, sub.Profile)
	}

	return s.submitter.Submit(ctx, s.policy, sub)
}
