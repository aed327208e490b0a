package bridge

import (
	"sync"
	"time"
)

type Stats struct {
	NumSourceRecords    int64     `json:"num_source_records"`
	NumRecordsConverted int64     `json:"num_records_converted"`
	NumAbsentFields     int64     `json:"num_absent_fields"`
	LastRecordAt        time.Time `json:"last_record_at,omitempty"`
}

type statsTracker struct {
	mu    sync.RWMutex
	stats Stats
}

func (t *statsTracker) recordSeen() {
	t.mu.Lock()
	t.stats.NumSourceRecords++
	t.stats.LastRecordAt = time.Now()
	t.mu.Unlock()
}

func (t *statsTracker) recordConverted(absent int64) {
	t.mu.Lock()
	t.stats.NumRecordsConverted++
	t.stats.NumAbsentFields += absent
	t.mu.Unlock()
}

// Stats returns a copy of the current run counters.
func (b *Bridge) Stats() Stats {
	b.stats.mu.RLock()
	defer b.stats.mu.RUnlock()
	return b.stats.stats
}
