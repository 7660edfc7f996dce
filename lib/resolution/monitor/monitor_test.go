package resolutionmonitor

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMonitor(t *testing.T) {
	t.Run(`empty monitor check`, func(t *testing.T) {
		m := NewMonitor(60 * time.Second)
		stats := m.Stats()
		require.Equal(t, 0, stats.SampleCount)
		require.Equal(t, int64(0), stats.SlaViolationCount)
		require.Equal(t, float64(0), stats.AvgResolutionMs)
	})

	t.Run(`stats check`, func(t *testing.T) {
		m := NewMonitor(60 * time.Second)
		m.Record(Sample{PositionID: "p1", Duration: 10 * time.Millisecond})
		m.Record(Sample{PositionID: "p1", Duration: 30 * time.Millisecond, UsedCache: true})
		stats := m.Stats()
		require.Equal(t, 2, stats.SampleCount)
		require.Equal(t, float64(20), stats.AvgResolutionMs)
		require.Equal(t, int64(30), stats.MaxResolutionMs)
		require.Equal(t, 0.5, stats.CacheHitRate)
		require.Equal(t, int64(0), stats.SlaViolationCount)
	})

	t.Run(`sla violation counted, not fatal`, func(t *testing.T) {
		m := NewMonitor(50 * time.Millisecond)
		m.Record(Sample{PositionID: "p1", Duration: 10 * time.Millisecond})
		m.Record(Sample{PositionID: "p1", Duration: 70 * time.Millisecond})
		m.Record(Sample{PositionID: "p1", Duration: 90 * time.Millisecond})
		stats := m.Stats()
		require.Equal(t, int64(2), stats.SlaViolationCount)
		require.Equal(t, 3, stats.SampleCount)
	})

	t.Run(`ring buffer keeps last 1000 samples`, func(t *testing.T) {
		m := NewMonitor(60 * time.Second)
		for idx := 0; idx < sampleWindow+500; idx++ {
			m.Record(Sample{
				PositionID: fmt.Sprintf("p%v", idx),
				Duration:   time.Millisecond,
			})
		}
		stats := m.Stats()
		require.Equal(t, sampleWindow, stats.SampleCount)
	})
}
