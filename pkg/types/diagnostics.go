package types

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sort"
)

// Severity classifies how serious a diagnostic is.
type Severity int

const (
	SevInfo    Severity = iota // unusual but handled (dangling pointer, dropped block)
	SevWarning                 // data may be unreliable (misaligned struct)
	SevError                   // fatal condition, reported just before the error is returned
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Stage names the pipeline step that produced a diagnostic.
type Stage string

const (
	StageHeader  Stage = "header"
	StageSchema  Stage = "schema"
	StageCompile Stage = "compile"
	StageLink    Stage = "link"
	StageChunks  Stage = "chunks"
	StageRelink  Stage = "relink"
	StageSave    Stage = "save"
)

// Diagnostic is one non-fatal finding.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Stage    Stage    `json:"stage"`
	Struct   string   `json:"struct,omitempty"`
	Field    string   `json:"field,omitempty"`
	Offset   int64    `json:"offset,omitempty"`
	Message  string   `json:"message"`
	Session  string   `json:"session,omitempty"`
}

// Sink receives diagnostics. Implementations are owned by one parse session.
type Sink interface {
	Report(d Diagnostic)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Diagnostic)

func (f SinkFunc) Report(d Diagnostic) { f(d) }

// Discard drops every diagnostic.
var Discard Sink = SinkFunc(func(Diagnostic) {})

// SlogSink writes diagnostics as structured log records.
type SlogSink struct {
	Logger *slog.Logger
}

// NewSlogSink returns a sink writing text records to w at Info level and above.
func NewSlogSink(w io.Writer) *SlogSink {
	return &SlogSink{Logger: slog.New(slog.NewTextHandler(w, nil))}
}

// DefaultSink writes to the process's standard error stream.
func DefaultSink() Sink {
	return NewSlogSink(os.Stderr)
}

func (s *SlogSink) Report(d Diagnostic) {
	level := slog.LevelInfo
	switch d.Severity {
	case SevWarning:
		level = slog.LevelWarn
	case SevError:
		level = slog.LevelError
	}
	attrs := []slog.Attr{slog.String("stage", string(d.Stage))}
	if d.Struct != "" {
		attrs = append(attrs, slog.String("struct", d.Struct))
	}
	if d.Field != "" {
		attrs = append(attrs, slog.String("field", d.Field))
	}
	if d.Offset != 0 {
		attrs = append(attrs, slog.Int64("offset", d.Offset))
	}
	if d.Session != "" {
		attrs = append(attrs, slog.String("session", d.Session))
	}
	s.Logger.LogAttrs(context.Background(), level, d.Message, attrs...)
}

// Tee fans a diagnostic out to several sinks; nil sinks are skipped.
func Tee(sinks ...Sink) Sink {
	return SinkFunc(func(d Diagnostic) {
		for _, s := range sinks {
			if s != nil {
				s.Report(d)
			}
		}
	})
}

// WithSession stamps session on every diagnostic passed to s that does not
// already carry one.
func WithSession(s Sink, session string) Sink {
	return SinkFunc(func(d Diagnostic) {
		if d.Session == "" {
			d.Session = session
		}
		s.Report(d)
	})
}

// Report collects all diagnostics of a session.
type Report struct {
	Session     string       `json:"session,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	Summary     Summary      `json:"summary"`
}

// Summary provides quick statistics.
type Summary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
}

// Collector is a Sink accumulating a Report.
type Collector struct {
	report Report
}

// NewCollector returns a collector tagging its report with session.
func NewCollector(session string) *Collector {
	return &Collector{report: Report{Session: session}}
}

func (c *Collector) Report(d Diagnostic) {
	if c.report.Session == "" {
		c.report.Session = d.Session
	}
	c.report.Diagnostics = append(c.report.Diagnostics, d)
	switch d.Severity {
	case SevError:
		c.report.Summary.Errors++
	case SevWarning:
		c.report.Summary.Warnings++
	default:
		c.report.Summary.Info++
	}
}

// Result returns the collected report with diagnostics ordered by severity
// (most severe first), preserving arrival order within a severity.
func (c *Collector) Result() *Report {
	r := c.report
	r.Diagnostics = append([]Diagnostic(nil), c.report.Diagnostics...)
	sort.SliceStable(r.Diagnostics, func(i, j int) bool {
		return r.Diagnostics[i].Severity > r.Diagnostics[j].Severity
	})
	return &r
}

// ByStage returns the diagnostics reported by one stage, in arrival order.
func (c *Collector) ByStage(stage Stage) []Diagnostic {
	var out []Diagnostic
	for _, d := range c.report.Diagnostics {
		if d.Stage == stage {
			out = append(out, d)
		}
	}
	return out
}
