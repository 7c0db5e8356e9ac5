// Package resources holds the server's pull-readable state: the console log
// buffer and the screenshot artifact store. Both grow for the life of the
// process; there is no eviction.
package resources

import (
	"fmt"
	"strings"
	"sync"
)

// LogEntry is a single captured console message.
type LogEntry struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}

// LogBuffer is an append-only, ordered sequence of console log entries.
// Entries are never mutated or removed; ordering is arrival order.
type LogBuffer struct {
	mu      sync.RWMutex
	entries []LogEntry
}

// NewLogBuffer creates an empty log buffer.
func NewLogBuffer() *LogBuffer {
	return &LogBuffer{}
}

// Append adds an entry to the end of the buffer.
func (b *LogBuffer) Append(level, text string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries, LogEntry{Level: level, Text: text})
}

// Entries returns a copy of all entries in arrival order.
func (b *LogBuffer) Entries() []LogEntry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]LogEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Len returns the number of entries.
func (b *LogBuffer) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// Snapshot joins all entries as a single text blob, one "[level] text" line
// per entry, reflecting buffer state at call time.
func (b *LogBuffer) Snapshot() string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var sb strings.Builder
	for _, e := range b.entries {
		fmt.Fprintf(&sb, "[%s] %s\n", e.Level, e.Text)
	}
	return sb.String()
}
