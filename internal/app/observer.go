package app

import (
	"slices"
	"sync"

	"github.com/mmcdole/arcade/internal/domain"
)

// Broadcaster fans one change stream out to every subscriber
type Broadcaster struct {
	mu        sync.RWMutex
	observers []domain.ChangeObserver
}

// Subscribe adds an observer. Observers run on the goroutine that caused
// the change and must not block.
func (b *Broadcaster) Subscribe(o domain.ChangeObserver) {
	b.mu.Lock()
	b.observers = append(b.observers, o)
	b.mu.Unlock()
}

// OnChange implements domain.ChangeObserver
func (b *Broadcaster) OnChange(c domain.Change) {
	b.mu.RLock()
	observers := slices.Clone(b.observers)
	b.mu.RUnlock()

	for _, o := range observers {
		o.OnChange(c)
	}
}
