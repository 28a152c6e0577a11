package ingest

import (
	"context"
	"time"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/workers"
	log "github.com/sirupsen/logrus"
)

const (
	DEFAULT_WORKERS    = 4
	DEFAULT_CHUNK_SIZE = 512
)

// Embedder stores a single text in the knowledge base.
type Embedder interface {
	Embed(ctx context.Context, text string) error
}

type Config struct {
	Workers   int
	ChunkSize int
}

type Stats struct {
	Coins    int
	Stored   int
	Failed   int
	Skipped  int
	Duration time.Duration
}

type ingester struct {
	cfg      Config
	embedder Embedder
	logger   *log.Entry
}

func New(cfg Config, embedder Embedder) *ingester {
	if cfg.Workers <= 0 {
		cfg.Workers = DEFAULT_WORKERS
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = DEFAULT_CHUNK_SIZE
	}
	return &ingester{
		cfg:      cfg,
		embedder: embedder,
		logger:   log.WithField("service", "ingest"),
	}
}

////////////////////////////////////////////////////////////////////////////////

// Run stores every document of every complete coin in ds. Coins missing a
// name or history are skipped. A document that fails to store is counted
// and logged; the rest of the dataset is still processed.
func (i *ingester) Run(ctx context.Context, ds *Dataset) (Stats, error) {
	stats := Stats{}

	pool := workers.NewPool[string](i.cfg.Workers, i.cfg.Workers*2)
	producer := func(ctx context.Context, output chan<- string) error {
		for _, coin := range ds.Cryptocurrencies {
			if !coin.complete() {
				i.logger.WithField("coin", coin.Name).Warn("skipping coin with missing data")
				stats.Skipped++
				continue
			}

			i.logger.WithField("coin", coin.Name).Info("processing coin")
			stats.Coins++
			for _, doc := range Documents(coin, i.cfg.ChunkSize) {
				if err := workers.Send(ctx, output, doc); err != nil {
					return err
				}
			}
		}
		return nil
	}
	consumer := func(ctx context.Context, doc string) error {
		if err := i.embedder.Embed(ctx, doc); err != nil {
			i.logger.WithError(err).WithField("text", preview(doc)).Error("failed to store text")
			return err
		}
		i.logger.WithField("text", preview(doc)).Debug("stored text")
		return nil
	}

	result := pool.Process(ctx, producer, consumer)

	stats.Failed = int(result.Stats.Failed)
	stats.Stored = int(result.Stats.Consumed - result.Stats.Failed)
	stats.Duration = result.Stats.Duration

	i.logger.WithFields(log.Fields{
		"coins":    stats.Coins,
		"stored":   stats.Stored,
		"failed":   stats.Failed,
		"skipped":  stats.Skipped,
		"duration": stats.Duration,
	}).Info("ingestion finished")
	return stats, result.Error
}

func preview(text string) string {
	const n = 50
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n]) + "..."
}
