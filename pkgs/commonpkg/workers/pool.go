package workers

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
)

// Pool is a bounded producer-consumer pipeline. One producer feeds a
// buffered channel that maxWorkers consumers drain.
type Pool[T any] struct {
	maxWorkers int
	bufferSize int

	produced atomic.Int64
	consumed atomic.Int64
}

func NewPool[T any](maxWorkers, bufferSize int) *Pool[T] {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if bufferSize < 0 {
		bufferSize = 0
	}
	return &Pool[T]{
		maxWorkers: maxWorkers,
		bufferSize: bufferSize,
	}
}

// ProducerFunc sends work items to output and returns when done. The channel
// is closed by the pool.
type ProducerFunc[T any] func(ctx context.Context, output chan<- T) error

// ConsumerFunc handles a single item. A returned error marks the item failed.
type ConsumerFunc[T any] func(ctx context.Context, item T) error

type Failure[T any] struct {
	Item T
	Err  error
}

type Stats struct {
	Produced int64
	Consumed int64
	Failed   int64
	Duration time.Duration
}

type Result[T any] struct {
	Failed []Failure[T]
	Error  error // producer error, if any
	Stats  Stats
}

////////////////////////////////////////////////////////////////////////////////

// Process runs the pipeline until the producer is done and every produced
// item has been handled. Items still queued when ctx is cancelled are
// reported as failed with the context error.
func (p *Pool[T]) Process(ctx context.Context, producer ProducerFunc[T], consumer ConsumerFunc[T]) Result[T] {
	startTime := time.Now()

	workChan := make(chan T, p.bufferSize)
	countedChan := make(chan T)

	var producerErr error
	var producerWg sync.WaitGroup
	producerWg.Add(2)
	go func() {
		defer producerWg.Done()
		defer close(countedChan)
		producerErr = producer(ctx, countedChan)
	}()
	go func() {
		defer producerWg.Done()
		defer close(workChan)
		for item := range countedChan {
			p.produced.Add(1)
			workChan <- item
		}
	}()

	var (
		wg       sync.WaitGroup
		failedMu sync.Mutex
		failed   []Failure[T]
	)
	for i := 0; i < p.maxWorkers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			logger := log.WithField("workerID", workerID)
			logger.Debug("consumer started")

			for item := range workChan {
				err := ctx.Err()
				if err == nil {
					err = consumer(ctx, item)
				}
				p.consumed.Add(1)
				if err != nil {
					failedMu.Lock()
					failed = append(failed, Failure[T]{Item: item, Err: err})
					failedMu.Unlock()
				}
			}

			logger.Debug("consumer finished")
		}(i)
	}

	wg.Wait()
	producerWg.Wait()

	return Result[T]{
		Failed: failed,
		Error:  producerErr,
		Stats: Stats{
			Produced: p.produced.Load(),
			Consumed: p.consumed.Load(),
			Failed:   int64(len(failed)),
			Duration: time.Since(startTime),
		},
	}
}

// Send delivers item unless ctx is done first.
func Send[T any](ctx context.Context, output chan<- T, item T) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case output <- item:
		return nil
	}
}
