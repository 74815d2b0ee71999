package session

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// RunSweeper removes sessions idle for longer than ttl every interval until
// ctx is cancelled
func (m *Manager) RunSweeper(ctx context.Context, ttl, interval time.Duration, logger *log.Logger) {
	if ttl <= 0 || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := m.CleanupExpiredSessions(ttl); removed > 0 && logger != nil {
				logger.Info("expired idle sessions", "removed", removed, "remaining", m.Count())
			}
		}
	}
}
