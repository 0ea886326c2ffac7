package worker

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agrotalent/talent-hub/internal/notify"
	"github.com/agrotalent/talent-hub/internal/worker/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

// setupConsumer applies QoS and returns the delivery channel
func (w *Worker) setupConsumer() (<-chan amqp.Delivery, error) {
	if w.prefetchCount > 0 {
		if err := w.source.SetQos(w.prefetchCount); err != nil {
			return nil, err
		}
		w.logger.Info("RabbitMQ QoS configured",
			slog.Int("prefetch_count", w.prefetchCount),
		)
	}

	deliveries, err := w.source.Consume(w.consumerTag)
	if err != nil {
		return nil, fmt.Errorf("failed to start consuming: %w", err)
	}

	w.logger.Info("RabbitMQ consumer started",
		slog.String("consumer_tag", w.consumerTag),
	)

	return deliveries, nil
}

// startMessageDispatcher validates deliveries and hands them to the pool.
// It returns nil on shutdown and ErrDeliveriesClosed when the broker goes away.
func (w *Worker) startMessageDispatcher(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	w.logger.Info("Message dispatcher started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Message dispatcher stopped - context canceled")
			return nil

		case <-w.stopChan:
			w.logger.Info("Message dispatcher stopped - stopChan closed")
			return nil

		case delivery, ok := <-deliveries:
			if !ok {
				w.logger.Warn("RabbitMQ delivery channel closed")
				return ErrDeliveriesClosed
			}

			notice, err := notify.Decode(delivery.Body)
			if err != nil {
				w.logger.Error("Rejecting malformed notice",
					slog.String("error", err.Error()),
					slog.String("message_id", delivery.MessageId),
					slog.Uint64("delivery_tag", delivery.DeliveryTag),
				)
				// malformed messages go to the dead letter queue
				if nackErr := delivery.Nack(false, false); nackErr != nil {
					w.logger.Error("Failed to NACK malformed message",
						slog.String("error", nackErr.Error()),
					)
				}
				continue
			}

			msg := &domain.NoticeMessage{Notice: notice, Delivery: delivery}

			select {
			case w.jobsChan <- msg:
				w.logger.Debug("Notice dispatched to worker pool",
					slog.String("candidate_id", notice.CandidateID),
					slog.Uint64("delivery_tag", delivery.DeliveryTag),
				)
			case <-ctx.Done():
				w.requeueOnShutdown(delivery)
				return nil
			case <-w.stopChan:
				w.requeueOnShutdown(delivery)
				return nil
			}
		}
	}
}

func (w *Worker) requeueOnShutdown(delivery amqp.Delivery) {
	w.logger.Info("Message dispatcher stopped while dispatching notice")
	if nackErr := delivery.Nack(false, true); nackErr != nil {
		w.logger.Error("Failed to NACK message on shutdown",
			slog.String("error", nackErr.Error()),
		)
	}
}
