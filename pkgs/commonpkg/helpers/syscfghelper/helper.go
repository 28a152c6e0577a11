package syscfghelper

import (
	"fmt"
	"io"
	"os"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/config"
	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/logging"
)

type CliParams struct {
	ConfigPath string
	IsDebug    bool
	// SkipValidation is set by commands that need only part of the config.
	SkipValidation bool
}

// helper builds every long-lived dependency from the loaded config and
// closes them in reverse order.
type helper struct {
	cliParams CliParams
	sysConfig *config.Config

	logFile *os.File
	closers []io.Closer
}

func New(cliParams CliParams) (*helper, error) {
	conf, err := config.Load(cliParams.ConfigPath)
	if err != nil {
		return nil, err
	}
	if cliParams.IsDebug {
		conf.Log.Debug = true
	}
	if !cliParams.SkipValidation {
		if err := conf.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config: %w", err)
		}
	}

	h := &helper{
		cliParams: cliParams,
		sysConfig: conf,
	}
	if err := h.initLogger(); err != nil {
		return nil, err
	}
	return h, nil
}

func (h *helper) initLogger() error {
	logFile, err := logging.OpenLogFile(h.sysConfig.Log.File)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	if logFile == nil {
		logging.InitLogger(h.sysConfig.Log.Debug, nil)
		return nil
	}
	logging.InitLogger(h.sysConfig.Log.Debug, logFile)
	h.logFile = logFile
	return nil
}

func (h *helper) Config() *config.Config {
	return h.sysConfig
}

////////////////////////////////////////////////////////////////////////////////

func (h *helper) Close() {
	for i := len(h.closers) - 1; i >= 0; i-- {
		h.closers[i].Close()
	}
	h.closers = nil
	if h.logFile != nil {
		h.logFile.Close()
		h.logFile = nil
	}
}
