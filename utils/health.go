package utils

import (
	"context"
	"sync"
	"time"
)

// HealthStatus represents current status of external services.
type HealthStatus struct {
	Provider  bool      `json:"provider"`
	CheckedAt time.Time `json:"checkedAt"`
}

var (
	currentHealth HealthStatus
	mu            sync.RWMutex
)

// GetHealthStatus returns latest stored health snapshot.
func GetHealthStatus() HealthStatus {
	mu.RLock()
	defer mu.RUnlock()
	return currentHealth
}

// StartHealthMonitor performs periodic provider checks and updates in-memory state.
func StartHealthMonitor(ping func(ctx context.Context) error) {
	go func() {
		ticker := time.NewTicker(60 * time.Second)
		defer ticker.Stop()

		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			healthy := ping(ctx) == nil
			cancel()

			mu.Lock()
			currentHealth = HealthStatus{
				Provider:  healthy,
				CheckedAt: time.Now(),
			}
			mu.Unlock()
		}
	}()
}
