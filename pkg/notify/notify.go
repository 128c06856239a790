// Package notify carries user-facing messages from the editor to whatever
// shows them: a log, a desktop status bar, or a test recorder.
package notify

import (
	"sync"

	"github.com/charmbracelet/log"
)

type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	}
	return "info"
}

// Notifier is the notification sink.
type Notifier interface {
	Notify(message string, level Level)
}

// Func adapts a function to Notifier.
type Func func(message string, level Level)

func (f Func) Notify(message string, level Level) { f(message, level) }

// Log writes notifications to a charmbracelet logger.
type Log struct {
	Logger *log.Logger
}

func NewLog(logger *log.Logger) *Log {
	if logger == nil {
		logger = log.Default()
	}
	return &Log{Logger: logger}
}

func (l *Log) Notify(message string, level Level) {
	switch level {
	case LevelError:
		l.Logger.Error(message)
	case LevelWarn:
		l.Logger.Warn(message)
	default:
		l.Logger.Info(message)
	}
}

// Message is one recorded notification.
type Message struct {
	Text  string
	Level Level
}

// Recorder keeps every notification in memory.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

func (r *Recorder) Notify(message string, level Level) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Text: message, Level: level})
}

// Messages returns a copy of everything recorded so far.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Message(nil), r.messages...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Message, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.messages) == 0 {
		return Message{}, false
	}
	return r.messages[len(r.messages)-1], true
}

// Multi fans a notification out to several sinks.
type Multi []Notifier

func (m Multi) Notify(message string, level Level) {
	for _, n := range m {
		n.Notify(message, level)
	}
}
