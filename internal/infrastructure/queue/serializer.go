package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/healthywell/telemedicine-api/internal/api/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 64
)

type task struct {
	ctx  context.Context
	fn   func(ctx context.Context) error
	done chan error
}

// Serializer routes work to a fixed set of workers using consistent hashing
// on the key, so all turns for the same consultation execute one at a time
// in submission order. Two racing user turns can no longer interleave their
// transcript reads and writes.
type Serializer struct {
	workers []chan task
	log     zerolog.Logger
}

// NewSerializer creates a Serializer with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewSerializer(numWorkers int, log zerolog.Logger) *Serializer {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	s := &Serializer{
		workers: make([]chan task, numWorkers),
		log:     log,
	}
	for i := range s.workers {
		s.workers[i] = make(chan task, channelBuffer)
	}
	return s
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (s *Serializer) Start(ctx context.Context) {
	for i, ch := range s.workers {
		go s.runWorker(ctx, i, ch)
	}
}

// Do runs fn on the worker responsible for key and waits for its result.
// Unlike a fire-and-forget queue, the caller blocks until fn returns, so the
// HTTP handler can reply with the outcome of the serialized turn. When the
// caller's context expires before the turn is picked up, Do returns the
// context error without running fn.
func (s *Serializer) Do(ctx context.Context, key string, fn func(ctx context.Context) error) error {
	t := task{ctx: ctx, fn: fn, done: make(chan error, 1)}
	shard := s.shardIndex(key)

	select {
	case s.workers[shard] <- t:
	case <-ctx.Done():
		return ctx.Err()
	}
	metrics.TurnQueueDepth.WithLabelValues(strconv.Itoa(shard)).Set(float64(len(s.workers[shard])))

	select {
	case err := <-t.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps a key deterministically to a worker index.
func (s *Serializer) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32()) % len(s.workers)
}

func (s *Serializer) runWorker(ctx context.Context, id int, ch <-chan task) {
	label := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case t, ok := <-ch:
			if !ok {
				return
			}
			metrics.TurnQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			if t.ctx.Err() != nil {
				t.done <- t.ctx.Err()
				continue
			}
			t.done <- t.fn(t.ctx)
		}
	}
}
