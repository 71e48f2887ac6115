package logs

import (
	"container/list"
	"sync"
	"time"

	"glustermon/pkg/models"
)

const defaultMaxEntries = 100

// Manager keeps the most recent operation calls for the history API
type Manager struct {
	logs       *list.List
	maxEntries int
	mu         sync.RWMutex
}

// NewManager creates a new log manager; maxEntries <= 0 selects the default
func NewManager(maxEntries int) *Manager {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}
	return &Manager{
		logs:       list.New(),
		maxEntries: maxEntries,
	}
}

// Record adds the outcome of one call
func (m *Manager) Record(method, caller string, elapsed time.Duration, err error) {
	now := time.Now()
	entry := &models.LogEntry{
		Timestamp: now,
		UnixTime:  now.Unix(),
		Method:    method,
		Caller:    caller,
		Elapsed:   elapsed,
		Success:   err == nil,
	}
	if err != nil {
		entry.Message = err.Error()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Remove old entries if we exceed the limit
	if m.logs.Len() >= m.maxEntries {
		m.logs.Remove(m.logs.Front())
	}
	m.logs.PushBack(entry)
}

// GetLogs returns current log entries, oldest first
func (m *Manager) GetLogs() []models.LogEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]models.LogEntry, 0, m.logs.Len())
	for e := m.logs.Front(); e != nil; e = e.Next() {
		entries = append(entries, *(e.Value.(*models.LogEntry)))
	}
	return entries
}
