package domain

import (
	"time"

	"github.com/agrotalent/talent-hub/internal/notify"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Application is a job application joined with the job it targets
type Application struct {
	CandidateID    string    `db:"candidate_id"`
	CandidateName  string    `db:"candidate_name"`
	CandidateEmail string    `db:"candidate_email"`
	CandidatePhone string    `db:"candidate_phone"`
	Region         string    `db:"region"`
	Category       string    `db:"category"`
	Seniority      string    `db:"seniority"`
	ResumeRef      string    `db:"resume_url"`
	SubmittedAt    time.Time `db:"submitted_at"`
	JobID          string    `db:"job_id"`
	JobTitle       string    `db:"job_title"`
	Company        string    `db:"company"`
	OwnerEmail     string    `db:"owner_email"`
}

// NoticeMessage is a decoded notice together with the delivery to settle
type NoticeMessage struct {
	Notice   *notify.ApplicationNotice
	Delivery amqp.Delivery
}
