package queue

import (
	"context"
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/realtyflow/crm-system/internal/api/metrics"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// Rescorer recomputes and persists one prospect's cached score.
type Rescorer interface {
	Rescore(ctx context.Context, prospectID string) error
}

// Dispatcher routes rescore requests to a fixed set of workers using
// consistent hashing on the prospect id, guaranteeing per-prospect ordering
// so concurrent updates cannot interleave their score writes.
type Dispatcher struct {
	workers  []chan string
	rescorer Rescorer
	log      zerolog.Logger
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, rescorer Rescorer, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan string, numWorkers),
		rescorer: rescorer,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan string, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue sends a prospect id to the worker responsible for it.
// The call is non-blocking up to channelBuffer capacity.
func (d *Dispatcher) Enqueue(prospectID string) {
	idx := d.shardIndex(prospectID)
	d.workers[idx] <- prospectID
	metrics.RescoreQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
}

// shardIndex maps a prospect id deterministically to a worker index.
func (d *Dispatcher) shardIndex(prospectID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(prospectID))
	return int(h.Sum32()) % len(d.workers)
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan string) {
	worker := strconv.Itoa(id)
	for {
		select {
		case <-ctx.Done():
			return
		case prospectID, ok := <-ch:
			if !ok {
				return
			}
			metrics.RescoreQueueDepth.WithLabelValues(worker).Set(float64(len(ch)))
			if err := d.rescorer.Rescore(ctx, prospectID); err != nil {
				metrics.RescoreErrorsTotal.Inc()
				d.log.Error().Err(err).
					Str("prospect_id", prospectID).
					Int("worker_id", id).
					Msg("rescore failed")
			}
		}
	}
}
