package locker

import "sync"

// Locker tracks keys that are being processed in this process.
type Locker struct {
	mu           sync.Mutex
	inProcessMap map[string]bool
}

func New() *Locker {
	return &Locker{
		inProcessMap: make(map[string]bool),
	}
}

// TryLock marks key as processing and reports false if it already was.
func (l *Locker) TryLock(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.inProcessMap[key] {
		return false
	}
	l.inProcessMap[key] = true
	return true
}

// IsProcessing checks if a key is already being processed.
func (l *Locker) IsProcessing(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.inProcessMap[key]
}

func (l *Locker) Unlock(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.inProcessMap, key)
}
