package batch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"vkgallery/pkg/gallery"
	"vkgallery/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockProcessor struct {
	delay   time.Duration
	fail    map[string]bool
	calls   int32
	running int32
	peak    int32
}

func (m *mockProcessor) Process(ctx context.Context, job Job) Result {
	atomic.AddInt32(&m.calls, 1)
	now := atomic.AddInt32(&m.running, 1)
	defer atomic.AddInt32(&m.running, -1)
	for {
		peak := atomic.LoadInt32(&m.peak)
		if now <= peak || atomic.CompareAndSwapInt32(&m.peak, peak, now) {
			break
		}
	}

	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	if m.fail[job.Input] {
		return Result{Outcome: gallery.OutcomeFetchFailed, Error: errors.New("boom")}
	}
	return Result{Outcome: gallery.OutcomeRendered, Output: job.Input + ".html", Rendered: 1}
}

func collect(wp *WorkerPool) <-chan []Result {
	done := make(chan []Result, 1)
	go func() {
		var results []Result
		for r := range wp.Results() {
			results = append(results, r)
		}
		done <- results
	}()
	return done
}

func TestWorkerPoolProcessesAllJobs(t *testing.T) {
	processor := &mockProcessor{fail: map[string]bool{"bad.md": true}}
	log := logger.NewTestLogger()
	wp := NewWorkerPool(context.Background(), 3, processor, log)
	wp.Start()

	done := collect(wp)
	inputs := []string{"a.md", "b.md", "bad.md", "c.md"}
	for _, in := range inputs {
		require.NoError(t, wp.Submit(Job{Input: in}))
	}
	wp.Stop()

	results := <-done
	require.Len(t, results, len(inputs))

	var failed, succeeded int
	for _, r := range results {
		if r.Success() {
			succeeded++
			assert.Equal(t, r.Job.Input+".html", r.Output)
		} else {
			failed++
			assert.Equal(t, "bad.md", r.Job.Input)
		}
	}
	assert.Equal(t, 3, succeeded)
	assert.Equal(t, 1, failed)
	assert.True(t, log.HasMessage("Job failed"))
}

func TestWorkerPoolBoundsConcurrency(t *testing.T) {
	processor := &mockProcessor{delay: 20 * time.Millisecond}
	wp := NewWorkerPool(context.Background(), 2, processor, logger.NewTestLogger())
	wp.Start()

	done := collect(wp)
	for i := 0; i < 8; i++ {
		require.NoError(t, wp.Submit(Job{Input: fmt.Sprintf("%d.md", i)}))
	}
	wp.Stop()
	<-done

	assert.Equal(t, int32(8), atomic.LoadInt32(&processor.calls))
	assert.LessOrEqual(t, atomic.LoadInt32(&processor.peak), int32(2))
}

func TestWorkerPoolSubmitAfterStop(t *testing.T) {
	wp := NewWorkerPool(context.Background(), 1, &mockProcessor{}, logger.NewTestLogger())
	wp.Start()
	done := collect(wp)
	wp.Stop()
	<-done

	assert.Error(t, wp.Submit(Job{Input: "late.md"}))
	wp.Stop()
}

func TestWorkerPoolSubmitBeforeStart(t *testing.T) {
	wp := NewWorkerPool(context.Background(), 1, &mockProcessor{}, logger.NewTestLogger())
	assert.Error(t, wp.Submit(Job{Input: "early.md"}))
}

func TestWorkerPoolCancel(t *testing.T) {
	processor := &mockProcessor{delay: 10 * time.Millisecond}
	wp := NewWorkerPool(context.Background(), 1, processor, logger.NewTestLogger())
	wp.Start()

	wp.Cancel()
	assert.Error(t, wp.Submit(Job{Input: "a.md"}))

	done := collect(wp)
	wp.Stop()
	results := <-done
	assert.Empty(t, results)
}

func TestNewWorkerPoolMinimumWorkers(t *testing.T) {
	wp := NewWorkerPool(context.Background(), 0, &mockProcessor{}, nil)
	assert.Equal(t, 1, wp.numWorkers)
}

type gatedProcessor struct {
	release chan struct{}
}

func (g *gatedProcessor) Process(ctx context.Context, job Job) Result {
	<-g.release
	return Result{Outcome: gallery.OutcomeRendered, Output: job.Input + ".html"}
}

func TestWorkerPoolQueueSize(t *testing.T) {
	processor := &gatedProcessor{release: make(chan struct{})}
	log := logger.NewTestLogger()
	wp := NewWorkerPool(context.Background(), 1, processor, log)
	assert.Equal(t, 0, wp.QueueSize())

	wp.Start()
	assert.True(t, log.HasMessage("Component started"))

	done := collect(wp)
	for _, in := range []string{"a.md", "b.md", "c.md"} {
		require.NoError(t, wp.Submit(Job{Input: in}))
	}
	assert.Eventually(t, func() bool { return wp.QueueSize() == 2 }, time.Second, 5*time.Millisecond)

	close(processor.release)
	wp.Stop()
	assert.Len(t, <-done, 3)
	assert.Equal(t, 0, wp.QueueSize())
}
