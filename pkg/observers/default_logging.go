package observers

import "github.com/charmbracelet/log"

// NewDefaultLoggingObserver creates a logging observer on the default logger with a netedit prefix
func NewDefaultLoggingObserver() *LoggingObserver {
	return NewLoggingObserver(log.Default().WithPrefix("netedit"))
}
