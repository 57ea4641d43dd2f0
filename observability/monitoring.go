package observability

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// SessionStats is a point-in-time view of the engine counters.
type SessionStats struct {
	FramesReceived    uint64    `json:"frames_received"`
	FramesDropped     uint64    `json:"frames_dropped"`
	MessagesSent      uint64    `json:"messages_sent"`
	SendsDropped      uint64    `json:"sends_dropped"`
	Reconciled        uint64    `json:"reconciled"`
	TransportFailures uint64    `json:"transport_failures"`
	Reconnects        uint64    `json:"reconnects"`
	Since             time.Time `json:"since"`
}

// MonitoringManager counts what flows through the engine.
// Counters are atomic so the prompt worker can read them off the loop.
type MonitoringManager struct {
	log *slog.Logger
	mu  sync.RWMutex

	framesReceived    uint64
	framesDropped     uint64
	messagesSent      uint64
	sendsDropped      uint64
	reconciled        uint64
	transportFailures uint64
	reconnects        uint64
	since             time.Time
}

func NewMonitoringManager(log *slog.Logger) *MonitoringManager {
	return &MonitoringManager{log: log, since: time.Now()}
}

func (mm *MonitoringManager) IncrFramesReceived() {
	atomic.AddUint64(&mm.framesReceived, 1)
}

// IncrFramesDropped counts malformed, unknown or out-of-session frames
func (mm *MonitoringManager) IncrFramesDropped() {
	atomic.AddUint64(&mm.framesDropped, 1)
}

func (mm *MonitoringManager) IncrMessagesSent() {
	atomic.AddUint64(&mm.messagesSent, 1)
}

func (mm *MonitoringManager) IncrSendsDropped() {
	atomic.AddUint64(&mm.sendsDropped, 1)
}

func (mm *MonitoringManager) IncrReconciled() {
	atomic.AddUint64(&mm.reconciled, 1)
}

func (mm *MonitoringManager) IncrTransportFailures() {
	atomic.AddUint64(&mm.transportFailures, 1)
}

func (mm *MonitoringManager) IncrReconnects() {
	atomic.AddUint64(&mm.reconnects, 1)
}

// Reset zeroes every counter, called when a new session begins
func (mm *MonitoringManager) Reset() {
	mm.mu.Lock()
	defer mm.mu.Unlock()
	atomic.StoreUint64(&mm.framesReceived, 0)
	atomic.StoreUint64(&mm.framesDropped, 0)
	atomic.StoreUint64(&mm.messagesSent, 0)
	atomic.StoreUint64(&mm.sendsDropped, 0)
	atomic.StoreUint64(&mm.reconciled, 0)
	atomic.StoreUint64(&mm.transportFailures, 0)
	atomic.StoreUint64(&mm.reconnects, 0)
	mm.since = time.Now()
	mm.log.Debug("Session counters reset")
}

func (mm *MonitoringManager) GetLatest() SessionStats {
	mm.mu.RLock()
	defer mm.mu.RUnlock()
	return SessionStats{
		FramesReceived:    atomic.LoadUint64(&mm.framesReceived),
		FramesDropped:     atomic.LoadUint64(&mm.framesDropped),
		MessagesSent:      atomic.LoadUint64(&mm.messagesSent),
		SendsDropped:      atomic.LoadUint64(&mm.sendsDropped),
		Reconciled:        atomic.LoadUint64(&mm.reconciled),
		TransportFailures: atomic.LoadUint64(&mm.transportFailures),
		Reconnects:        atomic.LoadUint64(&mm.reconnects),
		Since:             mm.since,
	}
}
