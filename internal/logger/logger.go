package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// AsyncHandler — slog.Handler, пишущий из фоновой горутины.
type AsyncHandler struct {
	ch   chan logEntry
	wg   *sync.WaitGroup
	once *sync.Once
	done chan struct{}
	out  slog.Handler
}

type logEntry struct {
	ctx context.Context
	rec slog.Record
	out slog.Handler
}

// NewAsyncHandler передаёт записи в out из фоновой горутины. При полном
// буфере записи отбрасываются, вызывающий не блокируется.
func NewAsyncHandler(out slog.Handler, buffer int) *AsyncHandler {
	h := &AsyncHandler{
		ch:   make(chan logEntry, buffer),
		wg:   &sync.WaitGroup{},
		once: &sync.Once{},
		out:  out,
		done: make(chan struct{}),
	}
	h.wg.Add(1)
	go h.worker()
	return h
}

func (h *AsyncHandler) worker() {
	defer h.wg.Done()
	for {
		select {
		case e := <-h.ch:
			_ = e.out.Handle(e.ctx, e.rec)
		case <-h.done:
			// Дописываем оставшиеся логи
			for {
				select {
				case e := <-h.ch:
					_ = e.out.Handle(e.ctx, e.rec)
				default:
					return
				}
			}
		}
	}
}

func (h *AsyncHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.out.Enabled(ctx, level)
}

func (h *AsyncHandler) Handle(ctx context.Context, rec slog.Record) error {
	select {
	case h.ch <- logEntry{ctx: context.WithoutCancel(ctx), rec: rec.Clone(), out: h.out}:
	default:
	}
	return nil
}

func (h *AsyncHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	cp := *h
	cp.out = h.out.WithAttrs(attrs)
	return &cp
}

func (h *AsyncHandler) WithGroup(name string) slog.Handler {
	cp := *h
	cp.out = h.out.WithGroup(name)
	return &cp
}

// Close сбрасывает буфер и останавливает воркер.
func (h *AsyncHandler) Close() {
	h.once.Do(func() { close(h.done) })
	h.wg.Wait()
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("unknown log level %q", s)
}

// New собирает логгер приложения. Возвращаемую функцию нужно вызвать
// перед выходом, она дописывает буфер.
func New(w io.Writer, level slog.Level) (*slog.Logger, func()) {
	h := NewAsyncHandler(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}), 1024)
	return slog.New(h), h.Close
}
