package clientstate

import "sync"

// Notifications is the alert list: newest first, cleared only on demand.
// Pushing the same text twice keeps both entries.
type Notifications struct {
	mu    sync.RWMutex
	items []string
}

// Push adds text at the front
func (n *Notifications) Push(text string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append([]string{text}, n.items...)
}

// List returns a copy, newest first
func (n *Notifications) List() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return append([]string(nil), n.items...)
}

// Len returns how many alerts are queued
func (n *Notifications) Len() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.items)
}

// Clear empties the list
func (n *Notifications) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = nil
}
