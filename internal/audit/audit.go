// Package audit keeps a per-repository journal of environment lifecycle events.
// Events are stored as JSON Lines (JSONL), one file per repository.
package audit

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/firefly-engineering/firefly-forage/packages/forage-wt/internal/logging"
)

// EventType classifies a lifecycle event.
type EventType string

const (
	EventCreate    EventType = "create"
	EventProvision EventType = "provision"
	EventStart     EventType = "start"
	EventAttach    EventType = "attach"
	EventKill      EventType = "kill"
)

// Event represents a single journal entry.
type Event struct {
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Type      EventType `json:"type" yaml:"type"`
	Branch    string    `json:"branch" yaml:"branch"`
	Port      int       `json:"port,omitempty" yaml:"port,omitempty"`
	Details   string    `json:"details,omitempty" yaml:"details,omitempty"`
}

// Recorder accepts lifecycle events. Recording never fails the operation
// being recorded.
type Recorder interface {
	Record(eventType EventType, branch string, port int, details string)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Record(EventType, string, int, string) {}

// Logger writes and reads the journal of one repository.
// Events are stored in {stateDir}/{name}-{hash}.events.jsonl, where hash
// is derived from the repository root so that checkouts sharing a
// basename keep separate journals.
type Logger struct {
	path string
}

// NewLogger creates the journal of the repository named name at root.
func NewLogger(stateDir, name, root string) *Logger {
	return &Logger{path: filepath.Join(stateDir, journalFile(name, root))}
}

func journalFile(name, root string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(root)))
	return name + "-" + hex.EncodeToString(sum[:4]) + ".events.jsonl"
}

// Path returns the journal file.
func (l *Logger) Path() string {
	return l.path
}

// Log appends an event to the journal.
func (l *Logger) Log(event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("failed to create journal directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}

	return nil
}

// Record logs an event, downgrading write failures to a debug log.
func (l *Logger) Record(eventType EventType, branch string, port int, details string) {
	err := l.Log(Event{Type: eventType, Branch: branch, Port: port, Details: details})
	if err != nil {
		logging.Debug("journal write failed", "path", l.path, "error", err)
	}
}

// Events reads the journal in chronological order. A non-empty branch
// keeps only that branch's events.
func (l *Logger) Events(branch string) ([]Event, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	defer f.Close()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			continue // Skip malformed lines
		}
		if branch != "" && event.Branch != branch {
			continue
		}
		events = append(events, event)
	}

	if err := scanner.Err(); err != nil {
		return events, fmt.Errorf("error reading journal: %w", err)
	}

	return events, nil
}

// Memory keeps events in memory, for tests.
type Memory struct {
	Events []Event
}

func (m *Memory) Record(eventType EventType, branch string, port int, details string) {
	m.Events = append(m.Events, Event{Timestamp: time.Now(), Type: eventType, Branch: branch, Port: port, Details: details})
}

// Types returns the recorded event types in order.
func (m *Memory) Types() []EventType {
	types := make([]EventType, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.Type
	}
	return types
}

var (
	_ Recorder = Nop{}
	_ Recorder = (*Logger)(nil)
	_ Recorder = (*Memory)(nil)
)
