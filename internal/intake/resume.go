package intake

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MaxResumeSize caps an uploaded resume at 10 MiB
const MaxResumeSize = 10 << 20

// GeneralNamespace is the upload folder for resumes not tied to a job
const GeneralNamespace = "general"

// DocumentType pairs a file extension with the MIME type sniffed from its content.
type DocumentType struct {
	Extension string
	MIME      string
}

var (
	DocumentPDF  = DocumentType{Extension: ".pdf", MIME: "application/pdf"}
	DocumentDOC  = DocumentType{Extension: ".doc", MIME: "application/msword"}
	DocumentDOCX = DocumentType{Extension: ".docx", MIME: "application/vnd.openxmlformats-officedocument.wordprocessingml.document"}
)

// ResumeFile is a resume attached to the in-progress submission.
type ResumeFile struct {
	Filename string
	Data     []byte
}

// detect returns the accepted document type matching the file, if any.
func (f *ResumeFile) detect(accepted []DocumentType) (DocumentType, bool) {
	ext := strings.ToLower(filepath.Ext(f.Filename))
	sniffed := mimetype.Detect(f.Data)
	for _, t := range accepted {
		if ext == t.Extension && sniffed.Is(t.MIME) {
			return t, true
		}
	}
	return DocumentType{}, false
}

// IsExternalRef reports whether a resume reference is an absolute URL
// (legacy data, opened directly) rather than a storage-relative path
// (opened through a signed URL).
func IsExternalRef(ref string) bool {
	u, err := url.Parse(ref)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// ResumePath builds the storage path of a new upload: the job id (or the
// general namespace) followed by a timestamp-based file name.
func ResumePath(jobID string, at time.Time, ext string) string {
	namespace := jobID
	if namespace == "" {
		namespace = GeneralNamespace
	}
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%s/%d-%s%s", namespace, at.UnixMilli(), suffix, ext)
}
