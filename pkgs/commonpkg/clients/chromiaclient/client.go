package chromiaclient

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

////////////////////////////////////////////////////////////////////////////////

const (
	DEFAULT_PMC_BIN         = "pmc"
	DEFAULT_CHR_BIN         = "chr"
	DEFAULT_BLOCKCHAIN_NAME = "vector_blockchain"
	DEFAULT_MAX_DISTANCE    = 1.0
)

type Config struct {
	PmcBin         string
	ChrBin         string
	BlockchainName string
	WorkDir        string
	Timeout        time.Duration
	MaxDistance    float64
}

////////////////////////////////////////////////////////////////////////////////

type client struct {
	cfg    Config
	runner Runner
	logger *log.Entry

	mu  sync.Mutex
	rid string
}

// New builds the bridge. A nil runner executes the real CLIs.
func New(cfg Config, runner Runner) *client {
	if cfg.PmcBin == "" {
		cfg.PmcBin = DEFAULT_PMC_BIN
	}
	if cfg.ChrBin == "" {
		cfg.ChrBin = DEFAULT_CHR_BIN
	}
	if cfg.BlockchainName == "" {
		cfg.BlockchainName = DEFAULT_BLOCKCHAIN_NAME
	}
	if cfg.MaxDistance <= 0 {
		cfg.MaxDistance = DEFAULT_MAX_DISTANCE
	}
	if runner == nil {
		runner = NewExecRunner(cfg.Timeout)
	}

	return &client{
		cfg:    cfg,
		runner: runner,
		logger: log.WithFields(log.Fields{
			"service":    "chromia_client",
			"blockchain": cfg.BlockchainName,
		}),
	}
}

func (c *client) run(ctx context.Context, binary string, args ...string) (*Result, error) {
	cmd := Command{Binary: binary, Args: args, Dir: c.cfg.WorkDir}
	result, err := c.runner.Run(ctx, cmd)
	if err != nil {
		c.logger.WithError(err).WithField("binary", binary).Debug("command failed")
		return result, err
	}
	c.logger.WithFields(log.Fields{
		"binary":   binary,
		"duration": result.Duration,
	}).Debug("command finished")
	return result, nil
}
