package engine

// EventLog is a fixed-capacity ring buffer of log entries. Once full, each new
// entry evicts the oldest one.
type EventLog struct {
	entries []LogEntry
	start   int
	size    int
}

// NewEventLog creates an empty log holding at most capacity entries
func NewEventLog(capacity int) *EventLog {
	if capacity < 1 {
		capacity = 1
	}
	return &EventLog{entries: make([]LogEntry, capacity)}
}

// Push appends an entry, evicting the oldest when at capacity
func (l *EventLog) Push(entry LogEntry) {
	capacity := len(l.entries)
	if l.size < capacity {
		l.entries[(l.start+l.size)%capacity] = entry
		l.size++
		return
	}
	l.entries[l.start] = entry
	l.start = (l.start + 1) % capacity
}

// Len returns the number of stored entries
func (l *EventLog) Len() int {
	return l.size
}

// Cap returns the maximum number of entries
func (l *EventLog) Cap() int {
	return len(l.entries)
}

// Clear drops every entry
func (l *EventLog) Clear() {
	l.start = 0
	l.size = 0
	for i := range l.entries {
		l.entries[i] = LogEntry{}
	}
}

// Entries returns a copy of the log, newest first
func (l *EventLog) Entries() []LogEntry {
	out := make([]LogEntry, l.size)
	capacity := len(l.entries)
	for i := 0; i < l.size; i++ {
		out[i] = l.entries[(l.start+l.size-1-i)%capacity]
	}
	return out
}

// Latest returns the most recent entry
func (l *EventLog) Latest() (LogEntry, bool) {
	if l.size == 0 {
		return LogEntry{}, false
	}
	return l.entries[(l.start+l.size-1)%len(l.entries)], true
}

func (l *EventLog) clone() *EventLog {
	c := &EventLog{
		entries: make([]LogEntry, len(l.entries)),
		start:   l.start,
		size:    l.size,
	}
	copy(c.entries, l.entries)
	return c
}
