package notification

import (
	"context"
	"sync"
)

// MockNotifier records notices instead of sending them
type MockNotifier struct {
	mu      sync.Mutex
	Notices []Notice
	Err     error
}

func (m *MockNotifier) Notify(ctx context.Context, notice Notice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notices = append(m.Notices, notice)
	return m.Err
}

// Sent returns a copy of the recorded notices
func (m *MockNotifier) Sent() []Notice {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Notice(nil), m.Notices...)
}
