package tool

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"
)

// Observation describes one finished invocation.
type Observation struct {
	Tool      string
	Success   bool
	ErrorCode string
	Start     time.Time
	Duration  time.Duration
}

// Observer receives an Observation for every invocation.
type Observer interface {
	ObserveInvoke(ctx context.Context, obs Observation)
}

type nopObserver struct{}

func (nopObserver) ObserveInvoke(context.Context, Observation) {}

type entry struct {
	def     Definition
	handler Handler
}

// Registry owns the tool catalog and mediates every invocation.
//
// Tools are registered during startup; after Seal the catalog is read-only
// and the registry is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	tools  map[string]entry
	sealed bool

	logger   *slog.Logger
	observer Observer
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger used for registration and invocation events.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithObserver sets the invocation observer.
func WithObserver(observer Observer) RegistryOption {
	return func(r *Registry) {
		if observer != nil {
			r.observer = observer
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		tools:    make(map[string]entry),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a tool to the catalog. Registering an existing name replaces
// the previous definition. Registration after Seal is ignored.
func (r *Registry) Register(def Definition, handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed {
		r.logger.Warn("registry is sealed, ignoring registration", slog.String("tool", def.Name))
		return
	}
	if handler == nil {
		r.logger.Warn("tool has no handler, ignoring registration", slog.String("tool", def.Name))
		return
	}

	if _, exists := r.tools[def.Name]; exists {
		r.logger.Warn("tool registered twice, replacing previous definition", slog.String("tool", def.Name))
	} else {
		r.order = append(r.order, def.Name)
	}
	r.tools[def.Name] = entry{def: def, handler: handler}
}

// Seal freezes the catalog.
func (r *Registry) Seal() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sealed = true
}

// Lookup returns the definition registered under name.
func (r *Registry) Lookup(name string) (Definition, bool) {
	e, ok := r.lookup(name)
	return e.def, ok
}

// Definitions returns the catalog in registration order.
func (r *Registry) Definitions() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		defs = append(defs, r.tools[name].def)
	}
	return defs
}

// Handle runs an Invocation. See Invoke.
func (r *Registry) Handle(ctx context.Context, inv Invocation) Result {
	return r.Invoke(ctx, inv.Name, inv.Arguments)
}

// Invoke resolves name, validates raw against the tool's schema and runs the
// handler. It always returns a Result: unknown tools, invalid arguments and
// handler panics become error results.
func (r *Registry) Invoke(ctx context.Context, name string, raw map[string]any) (result Result) {
	start := time.Now()
	obs := Observation{Tool: name, Start: start}
	defer func() {
		obs.Duration = time.Since(start)
		obs.Success = !result.IsError
		r.observer.ObserveInvoke(ctx, obs)
	}()

	e, ok := r.lookup(name)
	if !ok {
		obs.ErrorCode = CodeUnknownTool
		r.logger.Warn("unknown tool", slog.String("tool", name))
		return ErrorResultFrom(&UnknownToolError{Name: name})
	}

	args, err := Validate(e.def.Schema, raw)
	if err != nil {
		obs.ErrorCode = CodeValidation
		r.logger.Info("invalid tool arguments", slog.String("tool", name), slog.Any("error", err))
		return ErrorResultFrom(err)
	}

	result, panicked := r.run(ctx, e, args)
	switch {
	case panicked:
		obs.ErrorCode = CodePanic
	case result.IsError:
		obs.ErrorCode = CodeToolError
	}
	return result
}

func (r *Registry) run(ctx context.Context, e entry, args Args) (result Result, panicked bool) {
	defer func() {
		if v := recover(); v != nil {
			r.logger.Error("tool handler panicked", slog.String("tool", e.def.Name), slog.Any("panic", v))
			result = ErrorResultFrom(&PanicError{Tool: e.def.Name, Value: v})
			panicked = true
		}
	}()
	return e.handler(ctx, args), false
}

func (r *Registry) lookup(name string) (entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.tools[name]
	return e, ok
}
