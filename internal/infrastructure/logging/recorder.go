package logging

import (
	"context"
	"sync"

	"github.com/alexisbeaulieu97/brandkit/internal/ports"
)

const defaultRecorderLimit = 1000

// Level identifies the severity of a recorded entry.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Entry is a single recorded log call.
type Entry struct {
	Level  Level
	Msg    string
	Fields map[string]interface{}

	ctx context.Context
	raw []interface{}
}

// Recorder keeps log entries in memory. The CLI logs into a Recorder until
// configuration is loaded and the real logger exists, then replays with Flush.
type Recorder struct {
	mu      sync.Mutex
	limit   int
	entries []Entry
}

// NewRecorder creates a recorder with the provided capacity (defaults to 1000).
func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = defaultRecorderLimit
	}
	return &Recorder{limit: limit, entries: make([]Entry, 0, 16)}
}

// Logger returns a ports.Logger writing into the recorder.
func (r *Recorder) Logger() ports.Logger {
	return &recordingLogger{rec: r}
}

// Entries returns a copy of the recorded entries.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Find returns entries at the given level with the given message.
func (r *Recorder) Find(level Level, msg string) []Entry {
	var out []Entry
	for _, e := range r.Entries() {
		if e.Level == level && e.Msg == msg {
			out = append(out, e)
		}
	}
	return out
}

// Flush replays recorded entries using the provided logger, preserving order.
func (r *Recorder) Flush(delegate ports.Logger) {
	if delegate == nil {
		return
	}
	r.mu.Lock()
	entries := make([]Entry, len(r.entries))
	copy(entries, r.entries)
	r.entries = r.entries[:0]
	r.mu.Unlock()

	for _, e := range entries {
		switch e.Level {
		case LevelDebug:
			delegate.Debug(e.ctx, e.Msg, e.raw...)
		case LevelWarn:
			delegate.Warn(e.ctx, e.Msg, e.raw...)
		case LevelError:
			delegate.Error(e.ctx, e.Msg, e.raw...)
		default:
			delegate.Info(e.ctx, e.Msg, e.raw...)
		}
	}
}

func (r *Recorder) add(e Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) == r.limit {
		copy(r.entries, r.entries[1:])
		r.entries[len(r.entries)-1] = e
		return
	}
	r.entries = append(r.entries, e)
}

type recordingLogger struct {
	rec    *Recorder
	fields []interface{}
}

func (l *recordingLogger) Debug(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, LevelDebug, msg, fields)
}

func (l *recordingLogger) Info(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, LevelInfo, msg, fields)
}

func (l *recordingLogger) Warn(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, LevelWarn, msg, fields)
}

func (l *recordingLogger) Error(ctx context.Context, msg string, fields ...interface{}) {
	l.log(ctx, LevelError, msg, fields)
}

func (l *recordingLogger) With(fields ...interface{}) ports.Logger {
	next := append(append([]interface{}{}, l.fields...), fields...)
	return &recordingLogger{rec: l.rec, fields: next}
}

func (l *recordingLogger) log(ctx context.Context, level Level, msg string, fields []interface{}) {
	if l == nil || l.rec == nil {
		return
	}
	raw := append(append([]interface{}{}, l.fields...), fields...)
	flat := MergeFields(raw)
	byKey := make(map[string]interface{}, len(flat)/2)
	for i := 0; i+1 < len(flat); i += 2 {
		byKey[flat[i].(string)] = flat[i+1]
	}
	l.rec.add(Entry{Level: level, Msg: msg, Fields: byKey, ctx: ctx, raw: raw})
}
