package services

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

// GradingDispatcher runs slot grading off the request path. Submissions
// enqueue the slot id and return immediately; a fixed pool of workers
// drains the queue. Enqueue never blocks a request: when the queue is
// full the job is dropped and the attempt finalizer re-grades any slot
// still at zero points.
type GradingDispatcher struct {
	grading GradingService
	logger  *slog.Logger

	jobs chan uint

	group  *errgroup.Group
	cancel context.CancelFunc

	closeOnce sync.Once
}

func NewGradingDispatcher(grading GradingService, workers, queueSize int, logger *slog.Logger) *GradingDispatcher {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	group, ctx := errgroup.WithContext(ctx)

	d := &GradingDispatcher{
		grading: grading,
		logger:  logger,
		jobs:    make(chan uint, queueSize),
		group:   group,
		cancel:  cancel,
	}

	for i := 0; i < workers; i++ {
		group.Go(func() error {
			return d.work(ctx)
		})
	}

	return d
}

// Enqueue submits a slot for asynchronous grading. It reports whether
// the job was accepted.
func (d *GradingDispatcher) Enqueue(slotID uint) bool {
	select {
	case d.jobs <- slotID:
		return true
	default:
		d.logger.Warn("Grading queue full, dropping job", "answer_slot_id", slotID)
		return false
	}
}

func (d *GradingDispatcher) work(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case slotID, ok := <-d.jobs:
			if !ok {
				return nil
			}
			if _, err := d.grading.GradeSlotByID(ctx, slotID); err != nil {
				// Grading failures are compensated at finish time.
				d.logger.Error("Asynchronous grading failed",
					"answer_slot_id", slotID,
					"error", err)
			}
		}
	}
}

// Close stops accepting jobs, drains the queue and waits for the
// workers to exit.
func (d *GradingDispatcher) Close() error {
	var err error
	d.closeOnce.Do(func() {
		close(d.jobs)
		err = d.group.Wait()
		d.cancel()
	})
	return err
}
