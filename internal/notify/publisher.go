package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/agrotalent/talent-hub/internal/intake"
	"github.com/agrotalent/talent-hub/shared/rabbitmq"
	"github.com/google/uuid"
)

// Broker is the publishing side of the message broker
type Broker interface {
	Publish(ctx context.Context, msg rabbitmq.Message) error
}

// Publisher turns committed job applications into notices on the broker
type Publisher struct {
	broker Broker
	logger *slog.Logger
}

// NewPublisher creates a Publisher
func NewPublisher(broker Broker, logger *slog.Logger) *Publisher {
	return &Publisher{broker: broker, logger: logger}
}

// NotifyApplication publishes one notice for c. Only job applications
// produce notices.
func (p *Publisher) NotifyApplication(ctx context.Context, c *intake.Candidate) error {
	if c.JobID == nil {
		return errors.New("candidate is not tied to a job")
	}

	body, err := Encode(ApplicationNotice{
		CandidateID: c.ID,
		JobID:       *c.JobID,
		SubmittedAt: c.CreatedAt.UTC(),
	})
	if err != nil {
		return err
	}

	msg := rabbitmq.Message{
		ID:          uuid.NewString(),
		Type:        MessageType,
		ContentType: "application/json",
		Body:        body,
	}
	if err := p.broker.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish application notice: %w", err)
	}

	p.logger.Info("Application notice published",
		slog.String("message_id", msg.ID),
		slog.String("candidate_id", c.ID),
		slog.String("job_id", *c.JobID),
	)
	return nil
}
