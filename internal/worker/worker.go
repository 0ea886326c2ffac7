package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/agrotalent/talent-hub/internal/worker/domain"
	"github.com/agrotalent/talent-hub/shared/mailer"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrDeliveriesClosed is returned by Run when the broker closes the
// delivery channel while the worker is still running
var ErrDeliveriesClosed = errors.New("delivery channel closed")

// DeliverySource is the queue the worker consumes notices from
type DeliverySource interface {
	SetQos(prefetch int) error
	Consume(consumerTag string) (<-chan amqp.Delivery, error)
}

// ApplicationStore loads the data a notice refers to
type ApplicationStore interface {
	LoadApplication(ctx context.Context, candidateID, jobID string) (*domain.Application, error)
}

// NoticeRenderer builds the owner email for an application
type NoticeRenderer interface {
	Render(app *domain.Application) (*mailer.Message, error)
}

// Sender delivers a rendered email
type Sender interface {
	Send(ctx context.Context, msg *mailer.Message) error
}

// Config holds worker configuration
type Config struct {
	Logger        *slog.Logger
	Source        DeliverySource
	Store         ApplicationStore
	Renderer      NoticeRenderer
	Mailer        Sender
	Concurrency   int
	PrefetchCount int
	ConsumerTag   string
	JobTimeout    time.Duration
}

// Worker consumes application notices and emails the job owner
type Worker struct {
	logger        *slog.Logger
	source        DeliverySource
	store         ApplicationStore
	renderer      NoticeRenderer
	mailer        Sender
	concurrency   int
	prefetchCount int
	consumerTag   string
	jobTimeout    time.Duration

	jobsChan chan *domain.NoticeMessage
	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	return &Worker{
		logger:        cfg.Logger,
		source:        cfg.Source,
		store:         cfg.Store,
		renderer:      cfg.Renderer,
		mailer:        cfg.Mailer,
		concurrency:   concurrency,
		prefetchCount: cfg.PrefetchCount,
		consumerTag:   cfg.ConsumerTag,
		jobTimeout:    cfg.JobTimeout,
		jobsChan:      make(chan *domain.NoticeMessage, concurrency),
		stopChan:      make(chan struct{}),
	}
}

// Start subscribes to the queue and processes notices until ctx is
// canceled, Stop is called or the broker closes the delivery channel
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting worker",
		slog.Int("concurrency", w.concurrency),
		slog.Int("prefetch_count", w.prefetchCount),
		slog.Duration("job_timeout", w.jobTimeout),
	)

	deliveries, err := w.setupConsumer()
	if err != nil {
		return err
	}

	return w.Run(ctx, deliveries)
}

// Run dispatches deliveries to the worker pool and blocks until every
// worker goroutine has returned. It must be called at most once.
func (w *Worker) Run(ctx context.Context, deliveries <-chan amqp.Delivery) error {
	w.spawnWorkerPool(ctx)

	err := w.startMessageDispatcher(ctx, deliveries)

	// the dispatcher is the only sender
	close(w.jobsChan)
	w.wg.Wait()

	w.logger.Info("Worker pool drained")
	return err
}

// Stop signals the dispatcher and every worker to return and waits for them
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info("Stopping worker...")
		close(w.stopChan)
	})
	w.wg.Wait()
	w.logger.Info("Worker stopped")
}
