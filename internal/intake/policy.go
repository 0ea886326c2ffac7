package intake

import (
	"net/mail"
	"strings"
)

// Policy parameterizes the reconciliation and commit rules shared by the
// two intake forms.
type Policy struct {
	Name string

	// AllowDuplicateEmail lets a known email insert another row. When false
	// the submission is rejected with ErrDuplicateEmail.
	AllowDuplicateEmail bool

	// CollectExperience includes the free-text experience field in auto-fill.
	CollectExperience bool

	// ScopedToJob requires a job id and notifies the job owner after insert.
	ScopedToJob bool

	// RequireResume rejects submissions with neither a new file nor a prior reference.
	RequireResume bool

	// ResumeTypes lists the document types accepted for a new upload.
	ResumeTypes []DocumentType
}

// PoolRegistration is the general talent pool form.
var PoolRegistration = Policy{
	Name:                "pool_registration",
	AllowDuplicateEmail: false,
	CollectExperience:   true,
	ScopedToJob:         false,
	RequireResume:       true,
	ResumeTypes:         []DocumentType{DocumentPDF, DocumentDOC, DocumentDOCX},
}

// JobApplication is the per-job application form.
var JobApplication = Policy{
	Name:                "job_application",
	AllowDuplicateEmail: true,
	CollectExperience:   false,
	ScopedToJob:         true,
	RequireResume:       true,
	ResumeTypes:         []DocumentType{DocumentPDF},
}

// Submission is everything a form hands to the committer.
type Submission struct {
	Profile           Profile
	Resume            *ResumeFile
	ExistingResumeRef string
	JobID             string
	Consent           bool
}

// Merge pre-fills a pristine form from a found record. A form is pristine
// while its name is empty; otherwise nothing is touched. It reports
// whether any field was filled.
func (p Policy) Merge(form *Profile, found *Candidate) bool {
	if found == nil || strings.TrimSpace(form.Name) != "" {
		return false
	}

	form.Name = found.Name
	form.Phone = MaskPhone(found.Phone)
	form.Region = found.Region
	form.Category = found.Category
	form.Seniority = found.Seniority
	if p.CollectExperience {
		form.Experience = found.Experience
	}
	return true
}

// Validate runs every local check. It never touches the network.
func (p Policy) Validate(sub *Submission) error {
	if err := p.ValidateForm(sub); err != nil {
		return err
	}

	if sub.Resume != nil {
		if len(sub.Resume.Data) == 0 {
			return invalid("resume", "resume file is empty")
		}
		if len(sub.Resume.Data) > MaxResumeSize {
			return invalid("resume", "resume file exceeds 10 MiB")
		}
		if _, ok := sub.Resume.detect(p.ResumeTypes); !ok {
			return invalid("resume", "resume must be a "+p.acceptedList()+" document")
		}
	} else if p.RequireResume && sub.ExistingResumeRef == "" {
		return invalid("resume", "resume is required")
	}
	return nil
}

// ValidateForm runs the checks that do not involve the resume. Servers
// call it before resolving a prior resume reference.
func (p Policy) ValidateForm(sub *Submission) error {
	prof := &sub.Profile

	if strings.TrimSpace(prof.Name) == "" {
		return invalid("name", "name is required")
	}
	if prof.Email == "" {
		return invalid("email", "email is required")
	}
	if _, err := mail.ParseAddress(prof.Email); err != nil {
		return invalid("email", "email address is malformed")
	}
	if n := len(UnmaskPhone(prof.Phone)); n < 10 || n > maxPhoneDigits {
		return invalid("phone", "phone must have 10 or 11 digits")
	}
	if strings.TrimSpace(prof.Region) == "" {
		return invalid("region", "region is required")
	}
	if !contains(Categories, prof.Category) {
		return invalid("category", "unknown professional area")
	}
	if !contains(SeniorityLevels, prof.Seniority) {
		return invalid("seniority", "unknown seniority level")
	}
	if !p.CollectExperience && prof.Experience != "" {
		prof.Experience = ""
	}
	if !sub.Consent {
		return invalid("consent", "data processing consent must be accepted")
	}

	if p.ScopedToJob && sub.JobID == "" {
		return invalid("job_id", "job is required")
	}
	if !p.ScopedToJob && sub.JobID != "" {
		return invalid("job_id", "talent pool registrations are not tied to a job")
	}
	return nil
}

func (p Policy) acceptedList() string {
	names := make([]string, len(p.ResumeTypes))
	for i, t := range p.ResumeTypes {
		names[i] = strings.ToUpper(strings.TrimPrefix(t.Extension, "."))
	}
	return strings.Join(names, "/")
}
