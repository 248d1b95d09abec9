package contract

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
)

// logger is the process-wide logger. It writes to stderr so stdout stays
// clean for csv/json output.
var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	TimeFormat:      "15:04:05",
	Prefix:          "chartscope",
	Level:           log.WarnLevel,
})

// Logger returns the shared logger.
func Logger() *log.Logger {
	return logger
}

// SetLogLevel changes the level of the shared logger.
func SetLogLevel(level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger.SetLevel(lvl)
	return nil
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	logger.Error("fatal "+msg, "err", err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	logger.Warn(msg, "err", err)
}
