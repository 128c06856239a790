package notify

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestRecorder(t *testing.T) {
	var r Recorder
	if _, ok := r.Last(); ok {
		t.Fatal("empty recorder reported a message")
	}
	r.Notify("saved", LevelInfo)
	r.Notify("failed", LevelError)

	last, ok := r.Last()
	if !ok || last.Text != "failed" || last.Level != LevelError {
		t.Errorf("Last() = %+v, %v", last, ok)
	}
	if got := len(r.Messages()); got != 2 {
		t.Errorf("len(Messages()) = %d, want 2", got)
	}
}

func TestLogWritesLevel(t *testing.T) {
	var buf bytes.Buffer
	n := NewLog(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))
	n.Notify("could not save layout", LevelError)

	out := buf.String()
	if !strings.Contains(out, "could not save layout") || !strings.Contains(out, "ERRO") {
		t.Errorf("log output = %q", out)
	}
}

func TestMultiAndFunc(t *testing.T) {
	var rec Recorder
	var seen []string
	m := Multi{&rec, Func(func(msg string, _ Level) { seen = append(seen, msg) })}
	m.Notify("hello", LevelWarn)
	if len(seen) != 1 || len(rec.Messages()) != 1 {
		t.Errorf("fan-out failed: seen=%v rec=%v", seen, rec.Messages())
	}
	if LevelWarn.String() != "warn" {
		t.Errorf("LevelWarn.String() = %q", LevelWarn.String())
	}
}
