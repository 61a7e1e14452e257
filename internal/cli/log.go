package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// newLogger returns the diagnostic logger. It writes to w (stderr in main),
// never to stdout, so `show --json` and `render -o -` stay pipeable.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           level,
	})
	l.SetStyles(logStyles())
	return l
}

// logStyles colours levels with the same palette as command output.
func logStyles() *log.Styles {
	s := log.DefaultStyles()
	level := func(name string, c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().SetString(name).Bold(true).MaxWidth(4).Foreground(c)
	}
	s.Levels[log.DebugLevel] = level("DEBU", colorGray)
	s.Levels[log.InfoLevel] = level("INFO", colorCyan)
	s.Levels[log.WarnLevel] = level("WARN", colorYellow)
	s.Levels[log.ErrorLevel] = level("ERRO", colorRed)
	s.Keys["session"] = lipgloss.NewStyle().Foreground(colorBlue)
	s.Values["session"] = StyleDim
	return s
}

// progress times one command step, such as rendering a session graph.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time as the "took" field.
func (p *progress) done(msg string, keyvals ...any) {
	elapsed := time.Since(p.start).Round(time.Millisecond)
	p.logger.Info(msg, append(keyvals, "took", elapsed)...)
}
