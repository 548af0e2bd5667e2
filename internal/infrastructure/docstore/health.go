package docstore

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/epi-control-api/pkg/logger"
)

var storeOnline = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "epi_store_online",
	Help: "1 si el último chequeo de salud del almacenamiento fue exitoso.",
})

// Pinger lo que el monitor necesita del backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthStatus último resultado conocido.
type HealthStatus struct {
	Online    bool      `json:"online"`
	LastCheck time.Time `json:"lastCheck"`
	LastError string    `json:"lastError,omitempty"`
}

// HealthMonitor consulta periódicamente el backend y guarda si está en línea.
type HealthMonitor struct {
	pinger   Pinger
	interval time.Duration
	timeout  time.Duration
	log      *logger.Logger

	mu     sync.RWMutex
	status HealthStatus
}

// NewHealthMonitor construye el monitor. interval <= 0 usa 30 s.
func NewHealthMonitor(p Pinger, interval time.Duration, log *logger.Logger) *HealthMonitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &HealthMonitor{pinger: p, interval: interval, timeout: 5 * time.Second, log: log}
}

// Check hace un chequeo inmediato y devuelve si el backend respondió.
func (m *HealthMonitor) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	err := m.pinger.Ping(ctx)

	m.mu.Lock()
	was := m.status.Online
	first := m.status.LastCheck.IsZero()
	m.status = HealthStatus{Online: err == nil, LastCheck: time.Now()}
	if err != nil {
		m.status.LastError = err.Error()
	}
	m.mu.Unlock()

	if err == nil {
		storeOnline.Set(1)
		if !was && !first {
			m.log.Info().Msg("almacenamiento en línea")
		}
	} else {
		storeOnline.Set(0)
		if was || first {
			m.log.Warn().Err(err).Msg("almacenamiento fuera de línea")
		}
	}
	return err == nil
}

// Run chequea al arrancar y luego en cada intervalo hasta que ctx se cancele.
func (m *HealthMonitor) Run(ctx context.Context) {
	m.Check(ctx)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Status último estado conocido.
func (m *HealthMonitor) Status() HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}
