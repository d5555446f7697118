package application

import "log/slog"

const LogModule = "marketplace/offer-service"

// Layer values for the "layer" log attribute.
const (
	LayerApplication = "application"
	LayerWorker      = "worker"
	LayerAdapter     = "adapter"
	LayerTransport   = "transport"
)

// ResolveLogger returns logger, or the process default when none was wired.
func ResolveLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
