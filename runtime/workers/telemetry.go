package workers

import (
	"chat-client/observability"
	"context"
	"log/slog"
	"time"
)

// TelemetryWorker logs the session counters at a fixed interval.
type TelemetryWorker struct {
	log            *slog.Logger
	monitoring     *observability.MonitoringManager
	metricInterval time.Duration
}

func NewTelemetryWorker(log *slog.Logger,
	monitoring *observability.MonitoringManager,
	metricInterval time.Duration) *TelemetryWorker {
	return &TelemetryWorker{
		log:            log,
		monitoring:     monitoring,
		metricInterval: metricInterval,
	}
}

func (w TelemetryWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()

	var last observability.SessionStats
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			stats := w.monitoring.GetLatest()
			if stats == last {
				continue
			}
			last = stats
			w.log.Debug("Session stats",
				"received", stats.FramesReceived,
				"dropped", stats.FramesDropped,
				"sent", stats.MessagesSent,
				"sends_dropped", stats.SendsDropped,
				"reconciled", stats.Reconciled,
				"failures", stats.TransportFailures,
				"reconnects", stats.Reconnects,
			)
		}
	}
}
