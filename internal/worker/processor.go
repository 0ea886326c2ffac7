package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/agrotalent/talent-hub/internal/worker/domain"
)

// processNotice loads the application, renders the owner email and sends it
func (w *Worker) processNotice(ctx context.Context, msg *domain.NoticeMessage) error {
	n := msg.Notice

	jobCtx := ctx
	if w.jobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, w.jobTimeout)
		defer cancel()
	}

	app, err := w.store.LoadApplication(jobCtx, n.CandidateID, n.JobID)
	if err != nil {
		if errors.Is(err, domain.ErrApplicationNotFound) {
			return err
		}
		return domain.NewRetryableError(err)
	}

	email, err := w.renderer.Render(app)
	if err != nil {
		if errors.Is(err, domain.ErrRenderFailed) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrRenderFailed, err)
	}

	if err := w.mailer.Send(jobCtx, email); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrDeliveryFailed, err)
	}

	w.logger.Info("Owner notified",
		slog.String("candidate_id", n.CandidateID),
		slog.String("job_id", n.JobID),
		slog.String("to", email.To),
	)
	return nil
}
