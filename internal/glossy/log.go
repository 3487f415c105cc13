// Package glossy provides a slog handler that renders styled, line-oriented
// output on a terminal and hands records to the systemd journal when asked.
package glossy

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/coreos/go-systemd/v22/journal"
)

var bufPool = sync.Pool{New: func() any { return new(bytes.Buffer) }}

var (
	styleTime  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#222222", Dark: "#AAAAAA"})
	styleKey   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#222222", Dark: "#AAAAAA"})
	styleValue = lipgloss.NewStyle()

	styleError = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#AA0000", Dark: "#EE0000"})
	styleWarn  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#AAAA00", Dark: "#EEEE00"})
	styleInfo  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#3333AA", Dark: "#5555EE"})
	styleDebug = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00AA00", Dark: "#00EE00"})
)

func styleLevel(level slog.Level) lipgloss.Style {
	switch {
	case level >= slog.LevelError:
		return styleError
	case level >= slog.LevelWarn:
		return styleWarn
	case level >= slog.LevelInfo:
		return styleInfo
	case level >= slog.LevelDebug:
		return styleDebug
	default:
		return lipgloss.NewStyle()
	}
}

func toJournalPriority(level slog.Level) journal.Priority {
	switch {
	case level >= slog.LevelError:
		return journal.PriErr
	case level >= slog.LevelWarn:
		return journal.PriWarning
	case level >= slog.LevelInfo:
		return journal.PriInfo
	default:
		return journal.PriDebug
	}
}

// Handler is a slog.Handler. The zero value writes info-and-up records to
// stderr.
type Handler struct {
	// Output receives rendered records. Defaults to os.Stderr.
	Output io.Writer

	// Journal sends records to the systemd journal instead of Output.
	Journal bool

	// Level is the minimum level handled. Defaults to slog.LevelInfo.
	Level slog.Leveler

	attrs  []slog.Attr
	groups []string
}

func (h Handler) Enabled(ctx context.Context, level slog.Level) bool {
	floor := slog.LevelInfo
	if h.Level != nil {
		floor = h.Level.Level()
	}
	return level >= floor
}

func (h Handler) Handle(ctx context.Context, r slog.Record) error {
	if h.Journal {
		return h.handleJournal(r)
	}

	buf := bufPool.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		bufPool.Put(buf)
	}()

	fmt.Fprintf(
		buf,
		"%v %v %v\n",
		styleTime.Render(r.Time.Format(time.StampMilli)),
		styleLevel(r.Level).Render(r.Level.String()),
		r.Message,
	)
	for _, attr := range h.attrs {
		writeAttr(buf, attr.Key, attr.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(buf, h.qualify(a.Key), a.Value)
		return true
	})

	w := h.Output
	if w == nil {
		w = os.Stderr
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func (h Handler) handleJournal(r slog.Record) error {
	vars := make(map[string]string, len(h.attrs)+r.NumAttrs())
	for _, attr := range h.attrs {
		vars[attr.Key] = attr.Value.String()
	}
	r.Attrs(func(a slog.Attr) bool {
		vars[h.qualify(a.Key)] = a.Value.String()
		return true
	})

	return journal.Send(r.Message, toJournalPriority(r.Level), vars)
}

// WithAttrs stores the attrs qualified by the open groups, so later group
// openings do not retroactively rename them.
func (h Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	qualified := slices.Clip(h.attrs)
	for _, a := range attrs {
		qualified = append(qualified, slog.Attr{Key: h.qualify(a.Key), Value: a.Value})
	}
	h.attrs = qualified
	return h
}

func (h Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h.groups = append(slices.Clip(h.groups), name)
	return h
}

func (h Handler) qualify(key string) string {
	if len(h.groups) == 0 {
		return key
	}
	return strings.Join(h.groups, ".") + "." + key
}

func writeAttr(buf *bytes.Buffer, key string, value slog.Value) {
	fmt.Fprintf(
		buf,
		"\t%v=%v\n",
		styleKey.Render(quoteIfNecessary(key)),
		styleValue.Render(quoteIfNecessary(value.String())),
	)
}

func quoteIfNecessary(str string) string {
	if strings.ContainsFunc(str, unicode.IsSpace) {
		return strconv.Quote(str)
	}
	return str
}
