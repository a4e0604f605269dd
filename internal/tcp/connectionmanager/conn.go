package connectionmanager

import (
	"net"
	"sort"
	"sync"
	"time"

	"gitlab.com/readerload.net/internal/core/ports/primary"
	"gitlab.com/readerload.net/internal/domain"
)

// ConnectionManager tracks the live connection and status of every reader
type ConnectionManager struct {
	Connections map[int]net.Conn
	Statuses    map[int]*domain.ReaderStatus
	ConnMutex   sync.RWMutex
	statusMutex sync.RWMutex
	Logger      primary.Logger
	closed      bool
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager(logger primary.Logger) *ConnectionManager {
	return &ConnectionManager{
		Connections: make(map[int]net.Conn),
		Statuses:    make(map[int]*domain.ReaderStatus),
		Logger:      logger,
	}
}

// RegisterReader adds a reader in the idle state
func (cm *ConnectionManager) RegisterReader(desc domain.ReaderDescriptor) {
	cm.statusMutex.Lock()
	defer cm.statusMutex.Unlock()

	cm.Statuses[desc.ID] = &domain.ReaderStatus{
		ID:    desc.ID,
		Addr:  desc.Addr(),
		State: domain.ReaderStateIdle,
	}
}

// TrackConnection records the reader's open connection. It returns false
// once CloseAll has run; the caller then owns closing conn.
func (cm *ConnectionManager) TrackConnection(readerID int, conn net.Conn) bool {
	cm.ConnMutex.Lock()
	defer cm.ConnMutex.Unlock()

	if cm.closed {
		return false
	}
	cm.Connections[readerID] = conn
	return true
}

// ReleaseConnection forgets the reader's connection after it was closed
func (cm *ConnectionManager) ReleaseConnection(readerID int) {
	cm.ConnMutex.Lock()
	delete(cm.Connections, readerID)
	cm.ConnMutex.Unlock()
}

// GetConnection returns the open connection of a reader
func (cm *ConnectionManager) GetConnection(readerID int) (net.Conn, bool) {
	cm.ConnMutex.RLock()
	defer cm.ConnMutex.RUnlock()

	conn, exists := cm.Connections[readerID]
	return conn, exists
}

// CloseAll closes every tracked connection so blocked reads and writes
// return, and refuses further tracking
func (cm *ConnectionManager) CloseAll() {
	cm.ConnMutex.Lock()
	defer cm.ConnMutex.Unlock()

	cm.closed = true
	for readerID, conn := range cm.Connections {
		if err := conn.Close(); err != nil {
			cm.Logger.Debug("Failed to close connection", "readerID", readerID, "error", err)
		}
		delete(cm.Connections, readerID)
	}
}

// SetState moves a reader to a new state
func (cm *ConnectionManager) SetState(readerID int, state domain.ReaderState) {
	cm.withStatus(readerID, func(s *domain.ReaderStatus) {
		s.State = state
	})
}

// RecordSuccess counts a completed exchange
func (cm *ConnectionManager) RecordSuccess(readerID int, factorial bool, at time.Time) {
	cm.withStatus(readerID, func(s *domain.ReaderStatus) {
		s.Iterations++
		if factorial {
			s.Factorials++
		}
		s.LastError = ""
		s.LastExchangeAt = &at
	})
}

// RecordFailure counts an abandoned iteration
func (cm *ConnectionManager) RecordFailure(readerID int, err error) {
	cm.withStatus(readerID, func(s *domain.ReaderStatus) {
		s.Iterations++
		s.Failures++
		if err != nil {
			s.LastError = err.Error()
		}
	})
}

func (cm *ConnectionManager) withStatus(readerID int, fn func(s *domain.ReaderStatus)) {
	cm.statusMutex.Lock()
	defer cm.statusMutex.Unlock()

	status, exists := cm.Statuses[readerID]
	if !exists {
		return
	}
	fn(status)
}

// Status returns a copy of one reader's status
func (cm *ConnectionManager) Status(readerID int) (domain.ReaderStatus, bool) {
	cm.statusMutex.RLock()
	status, exists := cm.Statuses[readerID]
	var out domain.ReaderStatus
	if exists {
		out = *status
	}
	cm.statusMutex.RUnlock()

	if !exists {
		return out, false
	}
	_, out.Connected = cm.GetConnection(readerID)
	return out, true
}

// Snapshot returns copies of all reader statuses ordered by id
func (cm *ConnectionManager) Snapshot() []domain.ReaderStatus {
	cm.statusMutex.RLock()
	ids := make([]int, 0, len(cm.Statuses))
	for id := range cm.Statuses {
		ids = append(ids, id)
	}
	cm.statusMutex.RUnlock()

	sort.Ints(ids)
	statuses := make([]domain.ReaderStatus, 0, len(ids))
	for _, id := range ids {
		if s, ok := cm.Status(id); ok {
			statuses = append(statuses, s)
		}
	}
	return statuses
}
