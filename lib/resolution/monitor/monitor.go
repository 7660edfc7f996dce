package resolutionmonitor

import (
	"sync"
	"time"

	orgapimodels "mfg-ops-backend/models/api/org"

	log "github.com/sirupsen/logrus"
)

// Монитор латентности разрешения исполнителей. Хранит скользящее окно
// последних sampleWindow замеров в кольцевом буфере, старые вытесняются.
// Создаётся явно, чтобы тесты могли поднимать изолированные экземпляры.

const sampleWindow = 1000

type Sample struct {
	PositionID string
	Duration   time.Duration
	UsedCache  bool
	RecordedAt time.Time
}

type Provider interface {
	Record(sample Sample)
	Stats() orgapimodels.MonitorStatsView
}

var Instance Provider

func NewHandler(slaThreshold time.Duration) {
	Instance = NewMonitor(slaThreshold)
}

func NewMonitor(slaThreshold time.Duration) Provider {
	return &impl{
		slaThreshold: slaThreshold,
		samples:      make([]Sample, sampleWindow),
	}
}

type impl struct {
	mx            sync.Mutex
	slaThreshold  time.Duration
	samples       []Sample
	next          int
	filled        int
	slaViolations int64
}

func (i *impl) Record(sample Sample) {
	if sample.RecordedAt.IsZero() {
		sample.RecordedAt = time.Now()
	}
	i.mx.Lock()
	i.samples[i.next] = sample
	i.next = (i.next + 1) % sampleWindow
	if i.filled < sampleWindow {
		i.filled++
	}
	violation := i.slaThreshold > 0 && sample.Duration > i.slaThreshold
	if violation {
		i.slaViolations++
	}
	i.mx.Unlock()

	if violation {
		// нарушение SLA не прерывает операцию, только фиксируется
		log.WithField("position_id", sample.PositionID).
			WithField("resolution_time_ms", sample.Duration.Milliseconds()).
			WithField("sla_threshold_ms", i.slaThreshold.Milliseconds()).
			Warn("превышен SLA разрешения исполнителя")
	}
}

func (i *impl) Stats() orgapimodels.MonitorStatsView {
	i.mx.Lock()
	defer i.mx.Unlock()
	stats := orgapimodels.MonitorStatsView{
		SampleCount:       i.filled,
		SlaViolationCount: i.slaViolations,
		SlaThresholdMs:    i.slaThreshold.Milliseconds(),
	}
	if i.filled == 0 {
		return stats
	}
	var totalMs int64
	var cacheHits int
	for idx := 0; idx < i.filled; idx++ {
		sample := i.samples[idx]
		ms := sample.Duration.Milliseconds()
		totalMs += ms
		if ms > stats.MaxResolutionMs {
			stats.MaxResolutionMs = ms
		}
		if sample.UsedCache {
			cacheHits++
		}
	}
	stats.AvgResolutionMs = float64(totalMs) / float64(i.filled)
	stats.CacheHitRate = float64(cacheHits) / float64(i.filled)
	return stats
}
