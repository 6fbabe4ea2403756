package logger

import "os"

// SetupLogger installs the process-wide logger from command-line settings. Logs go to stderr
// so command output on stdout stays machine readable.
func SetupLogger(logLevel string, logJSON, logSource bool) Logger {
	return Init(&Config{
		Level:      LogLevel(logLevel),
		Output:     os.Stderr,
		JSON:       logJSON,
		AddSource:  logSource,
		TimeFormat: "15:04:05",
	})
}
