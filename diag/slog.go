package diag

import (
	"context"
	"log/slog"
)

// Slog forwards diagnostics to a structured logger.
type Slog struct {
	logger *slog.Logger
}

// NewSlog returns a sink that writes to l.
func NewSlog(l *slog.Logger) *Slog {
	return &Slog{logger: l}
}

// Level maps a severity to its slog level.
func (s Severity) Level() slog.Level {
	switch s {
	case SeverityDebug:
		return slog.LevelDebug
	case SeverityInfo:
		return slog.LevelInfo
	case SeverityWarn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// Emit writes m with kind and source attributes.
func (s *Slog) Emit(m Message) {
	lvl := m.Severity.Level()
	ctx := context.Background()
	if !s.logger.Enabled(ctx, lvl) {
		return
	}
	attrs := []slog.Attr{slog.String("kind", m.Kind.String())}
	if m.Source != "" {
		attrs = append(attrs, slog.String("source", m.Source))
	}
	s.logger.LogAttrs(ctx, lvl, m.Text, attrs...)
}

var _ Sink = (*Slog)(nil)
