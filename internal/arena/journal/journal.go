// Package journal keeps the append-only, human-readable game log.
package journal

import (
	"fmt"
	"time"
)

// Entry is a single appended log line with its unique key.
//
// The key combines the entry's position with the append timestamp so
// duplicate messages are preserved as distinct entries.
type Entry struct {
	Key     string
	Message string
}

// Log is an ordered append-only sequence of log entries.
type Log struct {
	entries []Entry
}

// New returns an empty log.
func New() *Log {
	return &Log{}
}

// Append adds a message keyed by the current size and the timestamp.
func (l *Log) Append(message string, at time.Time) {
	l.entries = append(l.entries, Entry{
		Key:     fmt.Sprintf("%d-%d", len(l.entries), at.UnixMilli()),
		Message: message,
	})
}

// Messages returns the log messages in append order.
func (l *Log) Messages() []string {
	messages := make([]string, len(l.entries))
	for i, entry := range l.entries {
		messages[i] = entry.Message
	}
	return messages
}

// Entries returns a copy of the keyed entries in append order.
func (l *Log) Entries() []Entry {
	entries := make([]Entry, len(l.entries))
	copy(entries, l.entries)
	return entries
}

// Size returns the number of entries.
func (l *Log) Size() int {
	return len(l.entries)
}

// Reset removes all entries.
func (l *Log) Reset() {
	l.entries = nil
}
