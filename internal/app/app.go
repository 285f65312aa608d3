package app

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/vk/flowbench/internal/config"
	"github.com/vk/flowbench/internal/ctxlog"
	"github.com/vk/flowbench/internal/scenario"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	loader   config.Loader
	handlers scenario.HandlerFactory
}

// Option customizes an App.
type Option func(*App)

// WithHandlers replaces the compiled-in namespace handlers.
func WithHandlers(f scenario.HandlerFactory) Option {
	return func(a *App) { a.handlers = f }
}

// WithLoader replaces the default extension-dispatching loader.
func WithLoader(l config.Loader) Option {
	return func(a *App) { a.loader = l }
}

// NewApp is the constructor for the main application. Logs, printed payloads
// and the report all go to outW, which is guarded so that concurrent
// scenarios do not interleave partial lines.
func NewApp(outW io.Writer, cfg *Config, opts ...Option) *App {
	out := &lockedWriter{w: outW}
	a := &App{
		outW:     out,
		logger:   newLogger(cfg.LogLevel, cfg.LogFormat, out),
		config:   cfg,
		loader:   scenario.DefaultLoader(),
		handlers: CoreHandlers(out),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger.Debug("Logger configured successfully.")
	return a
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
