package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/alitto/pond/v2"

	"vkgallery/pkg/gallery"
	"vkgallery/pkg/logger"
)

// Job is one input document to render
type Job struct {
	Input string
}

// Result reports what happened to one Job
type Result struct {
	Job      Job
	Output   string
	Outcome  gallery.Outcome
	Rendered int
	Dropped  int
	// Skipped is set when nothing was written and that is not an error,
	// with Reason saying why
	Skipped  bool
	Reason   string
	Error    error
	Duration time.Duration
}

// Success reports whether the job produced output
func (r Result) Success() bool {
	return r.Error == nil && !r.Skipped
}

// Processor renders one job
type Processor interface {
	Process(ctx context.Context, job Job) Result
}

// WorkerPool runs jobs through a Processor with bounded concurrency
type WorkerPool struct {
	numWorkers  int
	pool        pond.Pool
	resultQueue chan Result
	ctx         context.Context
	cancel      context.CancelFunc
	processor   Processor
	logger      logger.Logger

	mu      sync.Mutex
	stopped bool
}

// NewWorkerPool creates a pool bound to ctx. Cancelling ctx abandons queued
// jobs.
func NewWorkerPool(ctx context.Context, numWorkers int, processor Processor, log logger.Logger) *WorkerPool {
	if log == nil {
		log = logger.GetLogger()
	}
	if numWorkers < 1 {
		numWorkers = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	return &WorkerPool{
		numWorkers:  numWorkers,
		resultQueue: make(chan Result, numWorkers),
		ctx:         ctx,
		cancel:      cancel,
		processor:   processor,
		logger:      log.WithField("component", "batch"),
	}
}

// Start creates the underlying workers
func (wp *WorkerPool) Start() {
	wp.logger.InfoWithFields("Starting worker pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})
	wp.pool = pond.NewPool(wp.numWorkers, pond.WithContext(wp.ctx))
	logger.LogComponentStart(wp.logger, "batch", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})
}

// Submit queues a job. Results must be drained while jobs are submitted.
func (wp *WorkerPool) Submit(job Job) error {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	if wp.stopped || wp.pool == nil {
		return fmt.Errorf("worker pool is not running")
	}
	if wp.ctx.Err() != nil {
		return fmt.Errorf("worker pool is shutting down")
	}

	wp.pool.Submit(func() {
		result := wp.processJob(job)
		select {
		case wp.resultQueue <- result:
		case <-wp.ctx.Done():
			wp.logger.DebugWithFields("Dropping result, pool cancelled", map[string]interface{}{
				"input": job.Input,
			})
		}
	})

	wp.logger.DebugWithFields("Job submitted to queue", map[string]interface{}{
		"input":      job.Input,
		"queue_size": wp.QueueSize(),
	})
	return nil
}

// Results returns the channel results are delivered on. It is closed by Stop.
func (wp *WorkerPool) Results() <-chan Result {
	return wp.resultQueue
}

// Stop waits for queued jobs and closes the result channel
func (wp *WorkerPool) Stop() {
	wp.mu.Lock()
	if wp.stopped {
		wp.mu.Unlock()
		return
	}
	wp.stopped = true
	wp.mu.Unlock()

	wp.logger.Info("Stopping worker pool...")
	if wp.pool != nil {
		_ = wp.pool.Stop().Wait()
	}
	close(wp.resultQueue)
	wp.cancel()
	wp.logger.Info("Worker pool stopped")
}

// Cancel abandons queued jobs. Stop must still be called.
func (wp *WorkerPool) Cancel() {
	wp.cancel()
}

// QueueSize returns the number of jobs waiting for a worker
func (wp *WorkerPool) QueueSize() int {
	if wp.pool == nil {
		return 0
	}
	return int(wp.pool.WaitingTasks())
}

func (wp *WorkerPool) processJob(job Job) Result {
	start := time.Now()
	result := wp.processor.Process(wp.ctx, job)
	result.Job = job
	result.Duration = time.Since(start)

	fields := map[string]interface{}{
		"input":      job.Input,
		"outcome":    result.Outcome.String(),
		"duration":   result.Duration,
		"queue_size": wp.QueueSize(),
	}
	switch {
	case result.Error != nil:
		fields["error"] = result.Error.Error()
		wp.logger.ErrorWithFields("Job failed", fields)
	case result.Skipped:
		fields["reason"] = result.Reason
		wp.logger.InfoWithFields("Job skipped", fields)
	default:
		fields["output"] = result.Output
		fields["rendered"] = result.Rendered
		wp.logger.DebugWithFields("Job completed", fields)
	}

	return result
}
