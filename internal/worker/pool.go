package worker

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/akolanti/QuestionnaireAPI/internal/config"
	"github.com/akolanti/QuestionnaireAPI/internal/job"
	"github.com/akolanti/QuestionnaireAPI/internal/metrics"
	"github.com/akolanti/QuestionnaireAPI/internal/rag"
	"github.com/akolanti/QuestionnaireAPI/pkg/logger_i"
)

var logger = logger_i.NewLogger("WorkerPool")

// pool grows by one worker per dispatcher wakeup up to max and shrinks back to min
// once workers sit idle.
type pool struct {
	jobs *job.Service
	rag  rag.Service

	stop <-chan bool
	wg   *sync.WaitGroup

	size atomic.Int64
	min  atomic.Int64
	max  atomic.Int64
	idle time.Duration
}

func newPool() *pool {
	p := &pool{idle: config.IdleWorkerTimeout}
	p.min.Store(config.MinWorkerCount)
	p.max.Store(config.MaxWorkerCount)
	return p
}

var shared = newPool()

func InitServices(jobService *job.Service, ragService rag.Service) {
	shared.jobs = jobService
	shared.rag = ragService
}

// SetMaxWorkers overrides the pool ceiling from settings. Values below the minimum are ignored.
func SetMaxWorkers(n int64) {
	if n >= shared.min.Load() {
		shared.max.Store(n)
	}
}

// InitWorkerPool starts the dispatcher. Closing or signalling stop retires every worker,
// each of which calls wg.Done on exit.
func InitWorkerPool(stop chan bool, wg *sync.WaitGroup) {
	shared.start(stop, wg)
}

func (p *pool) start(stop <-chan bool, wg *sync.WaitGroup) {
	p.stop = stop
	p.wg = wg
	logger.Info("Initializing worker pool", "min", p.min.Load(), "max", p.max.Load())
	p.spawn()
	go p.dispatch()
}

func (p *pool) dispatch() {
	for range p.jobs.DispatcherChannel {
		if p.size.Load() >= p.max.Load() {
			continue
		}
		logger.Info("Adding worker", "workers", p.size.Load())
		p.spawn()
	}
}

func (p *pool) spawn() {
	p.wg.Add(1)
	p.size.Add(1)
	metrics.IncrementActiveWorkerCount()
	go p.loop()
}

func (p *pool) loop() {
	defer p.wg.Done()
	defer metrics.DecrementActiveWorkerCount()

	timer := time.NewTimer(p.idle)
	defer timer.Stop()
	for {
		select {
		case j := <-p.jobs.JobChannel:
			metrics.DecrementJobsInQueue()
			p.execute(j)
			timer.Reset(p.idle)
		case <-p.stop:
			p.size.Add(-1)
			logger.Debug("Worker stopped", "workers", p.size.Load())
			return
		case <-timer.C:
			if p.shrink() {
				logger.Debug("Idle worker retired", "workers", p.size.Load())
				return
			}
			timer.Reset(p.idle)
		}
	}
}

// shrink gives up one slot unless the pool is already at its minimum. Concurrent idle
// workers race on the CAS so the floor holds.
func (p *pool) shrink() bool {
	for {
		n := p.size.Load()
		if n <= p.min.Load() {
			return false
		}
		if p.size.CompareAndSwap(n, n-1) {
			return true
		}
	}
}
