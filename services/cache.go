package services

import "sync"

// MemoCache memoizes summarization results by exact prompt string. It is
// process-wide and unbounded: entries only exist for prompts actually issued,
// so retention is bounded by distinct uploads in a process lifetime.
type MemoCache struct {
	mu      sync.RWMutex
	entries map[string]string
}

func NewMemoCache() *MemoCache {
	return &MemoCache{entries: make(map[string]string)}
}

func (c *MemoCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[key]
	return v, ok
}

func (c *MemoCache) Set(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
}

func (c *MemoCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
