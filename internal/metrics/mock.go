package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                sync.Mutex
	playersRegistered int
	draftsCreated     int
	resultsSubmitted  int
	resultDurations   []float64
	notifSent         int
	notifFailed       int
	startupTime       float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		resultDurations: make([]float64, 0),
	}
}

func (m *Mock) IncPlayersRegistered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.playersRegistered++
}

func (m *Mock) IncDraftsCreated() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draftsCreated++
}

func (m *Mock) IncResultsSubmitted() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resultsSubmitted++
}

func (m *Mock) ObserveResultDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resultDurations = append(m.resultDurations, duration)
}

func (m *Mock) IncNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifSent++
}

func (m *Mock) IncNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// PlayersRegisteredCount returns the number of times IncPlayersRegistered was called.
func (m *Mock) PlayersRegisteredCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playersRegistered
}

// DraftsCreatedCount returns the number of times IncDraftsCreated was called.
func (m *Mock) DraftsCreatedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draftsCreated
}

// ResultsSubmittedCount returns the number of times IncResultsSubmitted was called.
func (m *Mock) ResultsSubmittedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resultsSubmitted
}

// NotifSentCount returns the number of times IncNotifSent was called.
func (m *Mock) NotifSentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifSent
}

// NotifFailedCount returns the number of times IncNotifFailed was called.
func (m *Mock) NotifFailedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notifFailed
}
