package worker

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Job is a unit of analysis work to be processed by the pool
type Job interface {
	Run(ctx context.Context) error
	ID() string
}

// JobFunc adapts a function to the Job interface
type JobFunc struct {
	JobID string
	Fn    func(ctx context.Context) error
}

func (j JobFunc) Run(ctx context.Context) error { return j.Fn(ctx) }
func (j JobFunc) ID() string                    { return j.JobID }

// Result reports the outcome of a single job
type Result struct {
	JobID     string
	Success   bool
	Error     error
	Duration  time.Duration
	Timestamp time.Time
}

// Pool runs analysis jobs concurrently on a fixed set of workers.
// Jobs are independent, so ordering of completion is not guaranteed;
// callers that need ordered output index their own result slots.
type Pool struct {
	ctx     context.Context
	cancel  context.CancelFunc
	workers int
	jobs    chan Job
	results chan Result
	wg      sync.WaitGroup

	stopped  bool
	stopLock sync.RWMutex

	totalJobs     int64
	completedJobs int64
	failedJobs    int64
	avgDuration   time.Duration
	mutex         sync.RWMutex

	queueSize  int
	jobTimeout time.Duration
}

// PoolStats represents worker pool statistics
type PoolStats struct {
	Workers       int           `json:"workers"`
	QueueSize     int           `json:"queue_size"`
	QueueLength   int           `json:"queue_length"`
	TotalJobs     int64         `json:"total_jobs"`
	CompletedJobs int64         `json:"completed_jobs"`
	FailedJobs    int64         `json:"failed_jobs"`
	SuccessRate   float64       `json:"success_rate"`
	AvgDuration   time.Duration `json:"avg_duration"`
}

// NewPool creates a worker pool. Zero or negative workers defaults to
// the number of CPUs.
func NewPool(workers, queueSize int, jobTimeout time.Duration) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if queueSize <= 0 {
		queueSize = workers * 4
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Pool{
		ctx:        ctx,
		cancel:     cancel,
		workers:    workers,
		jobs:       make(chan Job, queueSize),
		results:    make(chan Result, queueSize),
		queueSize:  queueSize,
		jobTimeout: jobTimeout,
	}
}

// Start launches the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Stop drains the queue and waits for all workers to exit
func (p *Pool) Stop() {
	p.stopLock.Lock()
	if p.stopped {
		p.stopLock.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.stopLock.Unlock()

	p.wg.Wait()
	p.cancel()
	close(p.results)
}

// Submit queues a job, waiting for a slot when the queue is full
func (p *Pool) Submit(job Job) error {
	p.stopLock.RLock()
	defer p.stopLock.RUnlock()

	if p.stopped {
		return fmt.Errorf("worker pool is shutting down")
	}

	select {
	case p.jobs <- job:
		atomic.AddInt64(&p.totalJobs, 1)
		return nil
	case <-p.ctx.Done():
		return fmt.Errorf("worker pool is shutting down")
	}
}

// Results returns the channel of job outcomes
func (p *Pool) Results() <-chan Result {
	return p.results
}

// GetStats returns current pool statistics
func (p *Pool) GetStats() PoolStats {
	p.mutex.RLock()
	avg := p.avgDuration
	p.mutex.RUnlock()

	total := atomic.LoadInt64(&p.totalJobs)
	completed := atomic.LoadInt64(&p.completedJobs)
	failed := atomic.LoadInt64(&p.failedJobs)

	var successRate float64
	if total > 0 {
		successRate = float64(completed) / float64(total)
	}

	return PoolStats{
		Workers:       p.workers,
		QueueSize:     p.queueSize,
		QueueLength:   len(p.jobs),
		TotalJobs:     total,
		CompletedJobs: completed,
		FailedJobs:    failed,
		SuccessRate:   successRate,
		AvgDuration:   avg,
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			p.runJob(job)

		case <-p.ctx.Done():
			return
		}
	}
}

func (p *Pool) runJob(job Job) {
	start := time.Now()

	result := Result{
		JobID:     job.ID(),
		Timestamp: start,
	}

	jobCtx := p.ctx
	if p.jobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(p.ctx, p.jobTimeout)
		defer cancel()
	}

	err := job.Run(jobCtx)
	result.Error = err
	result.Success = err == nil
	result.Duration = time.Since(start)

	if result.Success {
		atomic.AddInt64(&p.completedJobs, 1)
	} else {
		atomic.AddInt64(&p.failedJobs, 1)
	}

	p.updateAvgDuration(result.Duration)

	select {
	case p.results <- result:
	default:
		// Result channel is full, drop the result
	}
}

func (p *Pool) updateAvgDuration(duration time.Duration) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.avgDuration == 0 {
		p.avgDuration = duration
	} else {
		p.avgDuration = (p.avgDuration + duration) / 2
	}
}
