package logger

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// Err returns err as a slog attr under the conventional "err" key.
func Err(err error) slog.Attr {
	return slog.Any("err", err)
}

// Handler is a compact colored slog handler for terminal output. Records
// render as one line: faint timestamp, colored level tag, message, then
// key=value attrs (error-ish keys in red).
type Handler struct {
	groups []string
	attrs  []slog.Attr
	level  slog.Leveler

	mu  *sync.Mutex
	out io.Writer
}

func NewHandler(out io.Writer, level slog.Leveler) *Handler {
	return &Handler{
		level: level,
		mu:    &sync.Mutex{},
		out:   out,
	}
}

func (h *Handler) clone() *Handler {
	return &Handler{
		groups: h.groups,
		attrs:  h.attrs,
		level:  h.level,
		mu:     h.mu,
		out:    h.out,
	}
}

func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var bf bytes.Buffer

	if !r.Time.IsZero() {
		fmt.Fprint(&bf, color.New(color.Faint).Sprint(r.Time.Format("15:04:05.000")))
		fmt.Fprint(&bf, " ")
	}

	fmt.Fprint(&bf, levelTag(r.Level))
	fmt.Fprint(&bf, " ")
	fmt.Fprint(&bf, r.Message)

	attrs := make([]slog.Attr, 0, len(h.attrs)+r.NumAttrs())
	attrs = append(attrs, h.attrs...)
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)
		return true
	})

	for _, a := range attrs {
		key := a.Key
		if len(h.groups) > 0 {
			key = strings.Join(h.groups, ".") + "." + key
		}
		fmt.Fprint(&bf, " ")
		if strings.Contains(a.Key, "err") {
			fmt.Fprint(&bf, color.New(color.FgRed).Sprintf("%s=", key)+a.Value.String())
		} else {
			fmt.Fprint(&bf, color.New(color.FgCyan).Sprintf("%s=", key)+a.Value.String())
		}
	}
	fmt.Fprint(&bf, "\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.Copy(h.out, &bf)
	return err
}

func (h *Handler) WithGroup(name string) slog.Handler {
	h2 := h.clone()
	h2.groups = append(h2.groups, name)
	return h2
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := h.clone()
	h2.attrs = append(h2.attrs, attrs...)
	return h2
}

func levelTag(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return color.New(color.BgRed, color.FgHiWhite).Sprint("ERROR")
	case level >= slog.LevelWarn:
		return color.New(color.BgYellow, color.FgHiWhite).Sprint("WARN ")
	case level >= slog.LevelInfo:
		return color.New(color.BgGreen, color.FgHiWhite).Sprint("INFO ")
	default:
		return color.New(color.BgCyan, color.FgHiWhite).Sprint("DEBUG")
	}
}
