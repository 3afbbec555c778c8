package ui

import (
	"sync"

	"github.com/bewcloud/bewcloud-desktop-sync/internal/logger"
)

// AlertQueue receives alerts from any goroutine. The model drains it after
// every message and shows them one at a time.
type AlertQueue struct {
	mu      sync.Mutex
	pending []string
}

func NewAlertQueue() *AlertQueue {
	return &AlertQueue{}
}

func (q *AlertQueue) Alert(message string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	logger.Log("Alert: %s", message)
	q.pending = append(q.pending, message)
}

func (q *AlertQueue) Next() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.pending) == 0 {
		return "", false
	}
	message := q.pending[0]
	q.pending = q.pending[1:]
	return message, true
}

func (q *AlertQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
