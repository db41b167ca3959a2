package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// APIMetrics tracks advisor API traffic.
type APIMetrics struct {
	RequestLatency   *Histogram
	RecommendLatency *Histogram
	ReloadLatency    *Histogram

	Requests        atomic.Uint64
	ClientErrors    atomic.Uint64
	ServerErrors    atomic.Uint64
	Recommendations atomic.Uint64
	Reloads         atomic.Uint64

	mu        sync.RWMutex
	startTime time.Time
}

// NewAPIMetrics creates an empty collector.
func NewAPIMetrics() *APIMetrics {
	return &APIMetrics{
		RequestLatency:   NewHistogram(DefaultSamples),
		RecommendLatency: NewHistogram(DefaultSamples),
		ReloadLatency:    NewHistogram(DefaultSamples),
		startTime:        time.Now(),
	}
}

// ObserveRequest records one finished HTTP request.
func (m *APIMetrics) ObserveRequest(status int, d time.Duration) {
	m.Requests.Add(1)
	m.RequestLatency.Record(d)
	switch {
	case status >= 500:
		m.ServerErrors.Add(1)
	case status >= 400:
		m.ClientErrors.Add(1)
	}
}

// ObserveRecommendation records the scoring time of one recommendation.
func (m *APIMetrics) ObserveRecommendation(d time.Duration) {
	m.Recommendations.Add(1)
	m.RecommendLatency.Record(d)
}

// ObserveReload records the time one reload took.
func (m *APIMetrics) ObserveReload(d time.Duration) {
	m.Reloads.Add(1)
	m.ReloadLatency.Record(d)
}

// APIStats is a point-in-time view of the collector.
type APIStats struct {
	RequestLatency   LatencyStats `json:"request_latency"`
	RecommendLatency LatencyStats `json:"recommend_latency"`
	ReloadLatency    LatencyStats `json:"reload_latency"`

	Requests        uint64  `json:"requests"`
	ClientErrors    uint64  `json:"client_errors"`
	ServerErrors    uint64  `json:"server_errors"`
	Recommendations uint64  `json:"recommendations"`
	Reloads         uint64  `json:"reloads"`
	SuccessRate     float64 `json:"success_rate"` // percentage

	Uptime string `json:"uptime"`
}

// GetStats returns the current statistics.
func (m *APIMetrics) GetStats() *APIStats {
	m.mu.RLock()
	start := m.startTime
	m.mu.RUnlock()

	requests := m.Requests.Load()
	clientErrors := m.ClientErrors.Load()
	serverErrors := m.ServerErrors.Load()

	successRate := 0.0
	if requests > 0 {
		successRate = float64(requests-clientErrors-serverErrors) / float64(requests) * 100
	}

	return &APIStats{
		RequestLatency:   m.RequestLatency.Stats(),
		RecommendLatency: m.RecommendLatency.Stats(),
		ReloadLatency:    m.ReloadLatency.Stats(),
		Requests:         requests,
		ClientErrors:     clientErrors,
		ServerErrors:     serverErrors,
		Recommendations:  m.Recommendations.Load(),
		Reloads:          m.Reloads.Load(),
		SuccessRate:      successRate,
		Uptime:           time.Since(start).Round(time.Second).String(),
	}
}

// Reset clears all metrics.
func (m *APIMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RequestLatency.Reset()
	m.RecommendLatency.Reset()
	m.ReloadLatency.Reset()

	m.Requests.Store(0)
	m.ClientErrors.Store(0)
	m.ServerErrors.Store(0)
	m.Recommendations.Store(0)
	m.Reloads.Store(0)

	m.startTime = time.Now()
}
