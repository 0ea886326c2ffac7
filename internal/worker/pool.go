package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/agrotalent/talent-hub/internal/worker/domain"
)

// spawnWorkerPool spawns N worker goroutines based on concurrency configuration
func (w *Worker) spawnWorkerPool(ctx context.Context) {
	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.workerLoop(ctx, i)
	}

	w.logger.Info("Worker pool spawned",
		slog.Int("worker_count", w.concurrency),
	)
}

// workerLoop processes notices until the jobs channel closes or the worker stops
func (w *Worker) workerLoop(ctx context.Context, workerNum int) {
	defer w.wg.Done()

	workerName := fmt.Sprintf("%s-%d", w.consumerTag, workerNum)
	w.logger.Debug("Worker goroutine started",
		slog.String("worker_name", workerName),
	)

	for {
		select {
		case <-w.stopChan:
			w.logger.Debug("Worker goroutine stopping - stopChan closed",
				slog.String("worker_name", workerName),
			)
			return

		case <-ctx.Done():
			w.logger.Debug("Worker goroutine stopping - context canceled",
				slog.String("worker_name", workerName),
			)
			return

		case msg, ok := <-w.jobsChan:
			if !ok {
				return
			}

			err := w.processNotice(ctx, msg)
			w.settle(workerName, msg, err)
		}
	}
}

// settle acknowledges the delivery according to the processing result
func (w *Worker) settle(workerName string, msg *domain.NoticeMessage, err error) {
	d := msg.Delivery
	log := w.logger.With(
		slog.String("worker_name", workerName),
		slog.String("candidate_id", msg.Notice.CandidateID),
		slog.String("job_id", msg.Notice.JobID),
	)

	var (
		outcome   string
		settleErr error
	)
	switch {
	case err == nil:
		outcome = domain.OutcomeSent
		settleErr = d.Ack(false)
	case shouldRequeue(err, d.Redelivered):
		outcome = domain.OutcomeRequeued
		settleErr = d.Nack(false, true)
	case isRetryable(err):
		outcome = domain.OutcomeDeadLettered
		settleErr = d.Nack(false, false)
	default:
		outcome = domain.OutcomeDropped
		settleErr = d.Ack(false)
	}

	if err != nil {
		log.Error("Notice processing failed",
			slog.String("error", err.Error()),
			slog.String("outcome", outcome),
			slog.Bool("redelivered", d.Redelivered),
		)
	} else {
		log.Info("Notice processed", slog.String("outcome", outcome))
	}

	if settleErr != nil {
		log.Error("Failed to settle message",
			slog.String("outcome", outcome),
			slog.String("error", settleErr.Error()),
		)
	}
}

// shouldRequeue requeues transient failures once. A redelivered message
// that fails again is dead-lettered instead of looping.
func shouldRequeue(err error, redelivered bool) bool {
	if errors.Is(err, domain.ErrApplicationNotFound) {
		return false
	}
	if redelivered {
		return false
	}
	return isRetryable(err)
}

func isRetryable(err error) bool {
	var retryableErr *domain.RetryableError
	return errors.As(err, &retryableErr)
}
