// Package queue offloads the memory-hard password KDF to a fixed set of
// worker goroutines so request handlers never run scrypt inline.
package queue

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/clubarcoiris/members-system/internal/api/metrics"
	"github.com/clubarcoiris/members-system/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 64
)

type hashOp int

const (
	opHash hashOp = iota
	opVerify
)

type hashJob struct {
	op       hashOp
	password string
	stored   string
	enqueued time.Time
	reply    chan hashResult
}

type hashResult struct {
	encoded string
	result  ports.VerifyResult
	err     error
}

// HashPool is a request/response worker pool wrapping a PasswordHasher.
// Jobs queue on a single buffered channel shared by all workers; callers
// block until their job completes or their context is cancelled. The pool
// itself satisfies ports.PasswordHasher, so services take it as a drop-in
// hasher.
type HashPool struct {
	jobs    chan hashJob
	hasher  ports.PasswordHasher
	workers int
	log     zerolog.Logger
}

// NewHashPool creates a HashPool with numWorkers workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewHashPool(numWorkers int, hasher ports.PasswordHasher, log zerolog.Logger) *HashPool {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	return &HashPool{
		jobs:    make(chan hashJob, channelBuffer),
		hasher:  hasher,
		workers: numWorkers,
		log:     log,
	}
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled;
// jobs still queued at that point are answered with ctx.Err by their
// waiting callers.
func (p *HashPool) Start(ctx context.Context) {
	for i := 0; i < p.workers; i++ {
		go p.runWorker(ctx, i)
	}
}

// Hash derives a versioned hash for the password on a pool worker.
func (p *HashPool) Hash(ctx context.Context, password string) (string, error) {
	res, err := p.submit(ctx, hashJob{op: opHash, password: password})
	if err != nil {
		return "", err
	}
	return res.encoded, res.err
}

// Verify checks the password against the stored credential on a pool worker.
func (p *HashPool) Verify(ctx context.Context, password, stored string) (ports.VerifyResult, error) {
	res, err := p.submit(ctx, hashJob{op: opVerify, password: password, stored: stored})
	if err != nil {
		return ports.VerifyResult{}, err
	}
	return res.result, res.err
}

func (p *HashPool) submit(ctx context.Context, job hashJob) (hashResult, error) {
	job.reply = make(chan hashResult, 1)
	job.enqueued = time.Now()

	select {
	case p.jobs <- job:
		metrics.HashQueueDepth.Set(float64(len(p.jobs)))
	case <-ctx.Done():
		return hashResult{}, ctx.Err()
	}

	select {
	case res := <-job.reply:
		return res, nil
	case <-ctx.Done():
		// The worker still finishes the job; the buffered reply channel
		// lets it complete without a receiver.
		return hashResult{}, ctx.Err()
	}
}

func (p *HashPool) runWorker(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-p.jobs:
			metrics.HashQueueDepth.Set(float64(len(p.jobs)))
			p.process(ctx, id, job)
		}
	}
}

func (p *HashPool) process(ctx context.Context, id int, job hashJob) {
	var res hashResult
	op := "hash"
	switch job.op {
	case opHash:
		res.encoded, res.err = p.hasher.Hash(ctx, job.password)
	case opVerify:
		op = "verify"
		res.result, res.err = p.hasher.Verify(ctx, job.password, job.stored)
	}

	if res.err != nil {
		p.log.Error().Err(res.err).Int("worker_id", id).Str("op", op).Msg("hash job failed")
	}
	metrics.HashJobDuration.WithLabelValues(op).Observe(time.Since(job.enqueued).Seconds())

	job.reply <- res
}
