package logging

import (
	"io"
	"os"

	"github.com/WangWilly/cryptoagent/pkgs/commonpkg/utils"
	"github.com/rifflock/lfshook"
	log "github.com/sirupsen/logrus"
)

////////////////////////////////////////////////////////////////////////////////

// InitLogger initializes the application logger. When logFile is not nil every
// entry is mirrored into it through a file hook.
func InitLogger(dbg bool, logFile io.Writer) {
	log.SetFormatter(&log.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})

	if dbg {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}

	if logFile != nil {
		log.AddHook(lfshook.NewHook(logFile, &log.JSONFormatter{}))
	}
}

// OpenLogFile opens (or creates) the log file at path in append mode.
// An empty path disables file logging and returns a nil file.
func OpenLogFile(path string) (*os.File, error) {
	if path == "" {
		return nil, nil
	}
	if err := utils.EnsureParentDir(path); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
}
