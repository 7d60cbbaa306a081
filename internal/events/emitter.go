package events

import (
	"encoding/json"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// Event delimiters for envelope mode. An embedding process scans stderr for
// these markers to recover structured events from otherwise free-form output.
const (
	envelopeStart = "POLYLINT-START"
	envelopeEnd   = "POLYLINT-END"
)

// Event is one structured message emitted during orchestration.
type Event struct {
	Key     string   `json:"key"`
	Args    []string `json:"args,omitempty"`
	Type    string   `json:"type"`
	Verbose bool     `json:"verbose"`
	Time    int64    `json:"time"`
}

// Emitter delivers user-facing warnings and diagnostics. It is passed
// explicitly through orchestration calls rather than held as process-wide
// state, so tests can capture everything a run emits.
type Emitter struct {
	log      *logrus.Logger
	envelope io.Writer
	verbose  bool
}

// Option configures an Emitter.
type Option func(*Emitter)

// WithEnvelope mirrors every event as a START/END delimited JSON line on w,
// for callers that embed the binary and parse its output.
func WithEnvelope(w io.Writer) Option {
	return func(e *Emitter) { e.envelope = w }
}

// WithVerbose enables delivery of events flagged verbose-only.
func WithVerbose(v bool) Option {
	return func(e *Emitter) { e.verbose = v }
}

// New creates an Emitter backed by the given logrus logger.
func New(log *logrus.Logger, opts ...Option) *Emitter {
	if log == nil {
		log = logrus.New()
	}
	e := &Emitter{log: log}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Warn emits a user-facing warning event.
func (e *Emitter) Warn(key string, args ...string) {
	e.emit(Event{Key: key, Args: args, Type: "warning"}, logrus.WarnLevel)
}

// Info emits an informational event.
func (e *Emitter) Info(key string, args ...string) {
	e.emit(Event{Key: key, Args: args, Type: "info"}, logrus.InfoLevel)
}

// Debug emits a verbose-only diagnostic event.
func (e *Emitter) Debug(key string, args ...string) {
	e.emit(Event{Key: key, Args: args, Type: "debug", Verbose: true}, logrus.DebugLevel)
}

func (e *Emitter) emit(ev Event, level logrus.Level) {
	ev.Time = time.Now().UnixMilli()
	if ev.Verbose && !e.verbose {
		return
	}
	fields := logrus.Fields{}
	if len(ev.Args) > 0 {
		fields["args"] = ev.Args
	}
	e.log.WithFields(fields).Log(level, ev.Key)
	if e.envelope != nil {
		b, err := json.Marshal(ev)
		if err != nil {
			return
		}
		_, _ = io.WriteString(e.envelope, envelopeStart+string(b)+envelopeEnd+"\n")
	}
}
