// Package worker writes playlist ledger entries in the background.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/ewilliams-labs/lineup/internal/core/domain"
	"github.com/ewilliams-labs/lineup/internal/core/ports"
)

const defaultJobTimeout = 15 * time.Second

// Job represents one ledger write for a created playlist.
type Job struct {
	Record domain.PlaylistRecord
}

// Config sizes the pool.
type Config struct {
	Workers   int
	QueueSize int
	Timeout   time.Duration
}

// Pool manages background workers for async jobs.
type Pool struct {
	ledger  ports.PlaylistLog
	geo     ports.GeoLocator
	logger  zerolog.Logger
	workers int
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	jobs   chan Job
	wg     sync.WaitGroup
}

var _ ports.PlaylistRecorder = (*Pool)(nil)

// NewPool creates a worker pool with the given worker count and queue size.
func NewPool(ledger ports.PlaylistLog, geo ports.GeoLocator, logger zerolog.Logger, cfg Config) *Pool {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.QueueSize < 1 {
		cfg.QueueSize = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultJobTimeout
	}
	return &Pool{
		ledger:  ledger,
		geo:     geo,
		logger:  logger,
		workers: cfg.Workers,
		timeout: cfg.Timeout,
		jobs:    make(chan Job, cfg.QueueSize),
	}
}

// Start launches the worker goroutines.
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				p.processJob(job)
			}
		}()
	}
}

// Stop drains the queue and waits for workers to finish. Later submissions
// are dropped.
func (p *Pool) Stop() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.jobs)
	}
	p.mu.Unlock()
	p.wg.Wait()
}

// Submit queues a job without blocking.
func (p *Pool) Submit(job Job) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.logger.Warn().Str("playlist_url", job.Record.PlaylistURL).Msg("worker: pool stopped, dropping ledger job")
		return
	}
	select {
	case p.jobs <- job:
	default:
		p.logger.Warn().Str("playlist_url", job.Record.PlaylistURL).Msg("worker: queue full, dropping ledger job")
	}
}

// Record queues a ledger entry for rec.
func (p *Pool) Record(rec domain.PlaylistRecord) {
	p.Submit(Job{Record: rec})
}

func (p *Pool) processJob(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	rec := job.Record
	if rec.UserGeo == "" {
		rec.UserGeo = p.geo.Lookup(ctx, rec.UserIP)
	}

	if err := p.ledger.AppendRow(ctx, rec.Row()); err != nil {
		p.logger.Error().Err(err).
			Str("user_id", rec.UserID).
			Str("playlist_url", rec.PlaylistURL).
			Msg("worker: failed to append ledger row")
		return
	}
	p.logger.Info().
		Str("user_id", rec.UserID).
		Str("playlist_url", rec.PlaylistURL).
		Str("user_geo", rec.UserGeo).
		Msg("worker: ledger row appended")
}
