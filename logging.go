package main

import (
	"context"
	"io"
	"strings"
	"sync"

	"golang.org/x/exp/slog"
)

// SetupLogging installs a LogHandler writing to out as default logger.
func SetupLogging(out io.Writer, level LogLevel) {
	slog.SetDefault(slog.New(NewLogHandler(out, &slog.HandlerOptions{Level: level.Level()})))
}

// LogHandler writes one line per record: time, level, message and the
// attributes as key=value.
type LogHandler struct {
	opts   slog.HandlerOptions
	attrs  []slog.Attr
	groups []string
	mu     *sync.Mutex
	out    io.Writer
}

func NewLogHandler(o io.Writer, opts *slog.HandlerOptions) *LogHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &LogHandler{
		out:  o,
		opts: *opts,
		mu:   &sync.Mutex{},
	}
}

func (h *LogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	min_level := slog.LevelInfo
	if h.opts.Level != nil {
		min_level = h.opts.Level.Level()
	}
	return level >= min_level
}

func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	prefixed := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	prefixed = append(prefixed, h.attrs...)
	for _, a := range attrs {
		prefixed = append(prefixed, slog.Attr{Key: h._Prefix(a.Key), Value: a.Value})
	}
	return &LogHandler{opts: h.opts, attrs: prefixed, groups: h.groups, out: h.out, mu: h.mu}
}

func (h *LogHandler) WithGroup(name string) slog.Handler {
	groups := append(append([]string{}, h.groups...), name)
	return &LogHandler{opts: h.opts, attrs: h.attrs, groups: groups, out: h.out, mu: h.mu}
}

func (h *LogHandler) _Prefix(key string) string {
	if len(h.groups) == 0 {
		return key
	}
	return strings.Join(h.groups, ".") + "." + key
}

func (h *LogHandler) Handle(ctx context.Context, r slog.Record) error {
	formattedTime := r.Time.Format("2006/01/02 15:04:05")

	strs := []string{formattedTime, r.Level.String(), r.Message}
	for _, a := range h.attrs {
		strs = append(strs, a.Key+"="+a.Value.String())
	}
	r.Attrs(func(a slog.Attr) bool {
		strs = append(strs, h._Prefix(a.Key)+"="+a.Value.String())
		return true
	})

	b := []byte(strings.Join(strs, " ") + "\n")

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.out.Write(b)
	return err
}
