package runtime

import (
	"chat-client/contract"
	"chat-client/domain"
	"chat-client/observability"
	"chat-client/runtime/workers"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Orchestrator runs the engine next to its companion workers under one supervisor
// and joins the channel once the loop is up.
type Orchestrator struct {
	mu             sync.Mutex
	log            *slog.Logger
	supervisor     contract.ISupervisor
	engine         *Engine
	monitoring     *observability.MonitoringManager
	metricInterval time.Duration
	workers        []contract.Worker
}

func NewOrchestrator(log *slog.Logger, supervisor contract.ISupervisor, engine *Engine,
	monitoring *observability.MonitoringManager, metricInterval time.Duration) *Orchestrator {
	return &Orchestrator{
		log:            log,
		supervisor:     supervisor,
		engine:         engine,
		monitoring:     monitoring,
		metricInterval: metricInterval,
	}
}

// Add registers extra workers, such as the prompt, started along with the engine.
func (o *Orchestrator) Add(worker ...contract.Worker) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.workers = append(o.workers, worker...)
}

// Start joins the channel as identity and blocks until every worker stopped.
// A refused join stops everything and is returned.
func (o *Orchestrator) Start(ctx context.Context, identity domain.Identity) error {
	o.mu.Lock()
	o.supervisor.Add(o.engine)
	if o.metricInterval > 0 {
		o.supervisor.Add(workers.NewTelemetryWorker(o.log, o.monitoring, o.metricInterval))
	}
	o.supervisor.Add(o.workers...)
	o.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		o.supervisor.Run(ctx)
	}()

	if err := o.engine.Join(ctx, identity); err != nil {
		o.Stop()
		<-done
		return fmt.Errorf("unable to join %q: %w", identity.Channel, err)
	}
	<-done
	return nil
}

// Stop cancels the supervised workers. The engine leaves the channel on its way out.
func (o *Orchestrator) Stop() {
	o.log.Debug("Requesting orchestrator shutdown")
	o.supervisor.Stop()
}
