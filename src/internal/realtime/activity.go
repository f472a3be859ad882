package realtime

import "sync"

// Tracker keeps the last-known activity label per online user. Entries are
// ephemeral: created on bind with the default label, reset on reconnect, and
// dropped on unbind.
type Tracker struct {
	mu           sync.RWMutex
	activities   map[string]string
	defaultLabel string
}

func NewTracker(defaultLabel string) *Tracker {
	return &Tracker{
		activities:   make(map[string]string),
		defaultLabel: defaultLabel,
	}
}

// Reset puts an identity back on the default label. Called on bind so a
// reconnecting user never carries a stale activity over.
func (t *Tracker) Reset(identity string) {
	t.Set(identity, t.defaultLabel)
}

// Set upserts an activity label. Labels are free-form capability text and are
// stored as-is.
func (t *Tracker) Set(identity, label string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.activities[identity] = label
}

// Get returns the current label for an identity, if tracked.
func (t *Tracker) Get(identity string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	label, ok := t.activities[identity]
	return label, ok
}

// Remove drops an identity's entry. Called on unbind.
func (t *Tracker) Remove(identity string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.activities, identity)
}

// Snapshot returns all current (identity, label) pairs for the activities
// broadcast.
func (t *Tracker) Snapshot() []ActivityEntry {
	t.mu.RLock()
	defer t.mu.RUnlock()

	entries := make([]ActivityEntry, 0, len(t.activities))
	for identity, label := range t.activities {
		entries = append(entries, ActivityEntry{UserID: identity, Activity: label})
	}
	return entries
}

// Labels returns the snapshot as a map for the presence REST view.
func (t *Tracker) Labels() map[string]string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	labels := make(map[string]string, len(t.activities))
	for identity, label := range t.activities {
		labels[identity] = label
	}
	return labels
}
