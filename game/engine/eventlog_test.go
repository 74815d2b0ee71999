package engine

import (
	"fmt"
	"testing"
)

func TestEventLog_NewestFirst(t *testing.T) {
	log := NewEventLog(3)
	for i := 1; i <= 2; i++ {
		log.Push(LogEntry{Message: fmt.Sprintf("entry %d", i)})
	}

	entries := log.Entries()
	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].Message != "entry 2" || entries[1].Message != "entry 1" {
		t.Errorf("Expected newest first, got %+v", entries)
	}
}

func TestEventLog_EvictsOldest(t *testing.T) {
	log := NewEventLog(LogCapacity)
	for i := 1; i <= LogCapacity+5; i++ {
		log.Push(LogEntry{Message: fmt.Sprintf("entry %d", i)})
	}

	if log.Len() != LogCapacity {
		t.Fatalf("Expected %d entries, got %d", LogCapacity, log.Len())
	}
	entries := log.Entries()
	if entries[0].Message != fmt.Sprintf("entry %d", LogCapacity+5) {
		t.Errorf("Unexpected newest entry %q", entries[0].Message)
	}
	if entries[LogCapacity-1].Message != "entry 6" {
		t.Errorf("Expected oldest surviving entry to be 'entry 6', got %q", entries[LogCapacity-1].Message)
	}

	latest, ok := log.Latest()
	if !ok || latest.Message != entries[0].Message {
		t.Errorf("Latest mismatch: %+v", latest)
	}
}

func TestEventLog_Clear(t *testing.T) {
	log := NewEventLog(2)
	log.Push(LogEntry{Message: "a"})
	log.Push(LogEntry{Message: "b"})
	log.Push(LogEntry{Message: "c"})
	log.Clear()

	if log.Len() != 0 || len(log.Entries()) != 0 {
		t.Error("Expected empty log after Clear")
	}
	if _, ok := log.Latest(); ok {
		t.Error("Expected no latest entry after Clear")
	}

	log.Push(LogEntry{Message: "d"})
	if entries := log.Entries(); len(entries) != 1 || entries[0].Message != "d" {
		t.Errorf("Unexpected entries after reuse: %+v", entries)
	}
}

func TestEventLog_EntriesIsACopy(t *testing.T) {
	log := NewEventLog(2)
	log.Push(LogEntry{Message: "original"})

	entries := log.Entries()
	entries[0].Message = "mutated"

	if latest, _ := log.Latest(); latest.Message != "original" {
		t.Error("Mutating Entries() leaked into the log")
	}
}

func TestEventLog_MinimumCapacity(t *testing.T) {
	if got := NewEventLog(0).Cap(); got != 1 {
		t.Errorf("Expected capacity clamped to 1, got %d", got)
	}
}
