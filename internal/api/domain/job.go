package domain

import (
	"errors"
)

const (
	JobStatusActive   = "active"
	JobStatusInactive = "inactive"
)

// JobTypes lists the accepted employment types
var JobTypes = []string{"full_time", "part_time", "contract", "temporary", "seasonal", "internship"}

// ImageBucket holds job posting images; objects there are public
const ImageBucket = "job-images"

// MaxImageSize caps an uploaded job image at 5 MiB
const MaxImageSize = 5 << 20

// ImageExtensions maps the accepted image MIME types to file extensions
var ImageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
}

var (
	ErrJobNotFound = errors.New("job not found")
)

// IsValidJobType reports whether t is a known employment type
func IsValidJobType(t string) bool {
	for _, known := range JobTypes {
		if known == t {
			return true
		}
	}
	return false
}

// ModerationStatus maps an approval decision to the job status it implies.
// Approval and status always move together.
func ModerationStatus(approved bool) string {
	if approved {
		return JobStatusActive
	}
	return JobStatusInactive
}
