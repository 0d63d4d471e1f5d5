package pipe

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ardnew/plumb/binding"
	"github.com/ardnew/plumb/log"
	"github.com/ardnew/plumb/resource"
)

// Factory creates a pipe instance from its configuration resource.
type Factory func(
	p *Plumber,
	res *resource.Resource,
	b Bindings,
) (Pipe, error)

// Plumber instantiates and executes pipes. It owns the registry
// mapping pipe types to factories and the resolver holding the content
// tree the pipes transform.
//
// The registry is safe for concurrent use; the content tree itself
// follows the resolver's contract and must not be mutated from
// concurrent executions.
type Plumber struct {
	resolver *resource.Resolver
	registry map[string]Factory
	logger   log.Logger
	mu       sync.RWMutex
	seq      atomic.Uint64
}

// PlumberOption applies a configuration option to a [Plumber].
type PlumberOption func(*Plumber)

// WithLogger returns a functional option that sets the logger used for
// execution progress messages.
func WithLogger(logger log.Logger) PlumberOption {
	return func(p *Plumber) {
		p.logger = logger
	}
}

// NewPlumber creates a plumber operating on the given resolver, with
// the built-in pipe types already registered.
func NewPlumber(
	resolver *resource.Resolver,
	opts ...PlumberOption,
) *Plumber {
	p := &Plumber{
		resolver: resolver,
		registry: map[string]Factory{
			TypeEcho:      newEchoPipe,
			TypeWrite:     newWritePipe,
			TypeContainer: newContainerPipe,
			TypeFilter:    newFilterPipe,
		},
		logger: log.Default(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Resolver returns the resolver holding the content tree.
func (p *Plumber) Resolver() *resource.Resolver { return p.resolver }

// RegisterPipe binds a pipe type to its factory, replacing any
// previous registration.
func (p *Plumber) RegisterPipe(typ string, factory Factory) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.registry[typ]; exists {
		p.logger.Warn(
			"replacing registered pipe type",
			slog.String("type", typ),
		)
	}

	p.registry[typ] = factory
}

// Types returns the registered pipe type names in sorted order.
func (p *Plumber) Types() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	types := make([]string, 0, len(p.registry))
	for typ := range p.registry {
		types = append(types, typ)
	}

	sort.Strings(types)

	return types
}

// IsTypeRegistered reports whether a factory is registered for the
// given pipe type.
func (p *Plumber) IsTypeRegistered(typ string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	_, ok := p.registry[typ]

	return ok
}

// GetPipe instantiates the pipe configured by the given resource.
func (p *Plumber) GetPipe(
	res *resource.Resource,
	b Bindings,
) (Pipe, error) {
	raw, ok := res.Property(PropType)
	if !ok {
		return nil, ErrNoPipeType.With(slog.String("path", res.Path()))
	}

	typ, ok := raw.(string)
	if !ok || typ == "" {
		return nil, ErrNoPipeType.With(slog.String("path", res.Path()))
	}

	p.mu.RLock()
	factory, ok := p.registry[typ]
	p.mu.RUnlock()

	if !ok {
		return nil, ErrTypeNotRegistered.With(
			slog.String("type", typ),
			slog.String("path", res.Path()),
		)
	}

	return factory(p, res, b)
}

// GetStatus returns the execution status recorded on a pipe resource.
// A pipe that never ran reports [StatusFinished].
func (p *Plumber) GetStatus(res *resource.Resource) string {
	raw, ok := res.Property(PropStatus)
	if !ok {
		return StatusFinished
	}

	status, ok := raw.(string)
	if !ok || status == "" {
		return StatusFinished
	}

	return status
}

// writeStatus records the execution status on a pipe resource.
func (p *Plumber) writeStatus(res *resource.Resource, status string) {
	res.SetProperty(PropStatus, status)
	res.SetProperty(
		PropStatusModified,
		time.Now().Format(time.RFC3339),
	)
}

// Execute runs the pipe configured at path with the given binding
// values. When save is true and the run left pending changes, the
// resolver commits them.
func (p *Plumber) Execute(
	ctx context.Context,
	path string,
	values binding.Map,
	save bool,
) (ExecutionResult, error) {
	res, ok := p.resolver.GetResource(path)
	if !ok {
		return ExecutionResult{}, ErrPipeNotFound.
			With(slog.String("path", path))
	}

	b := MakeBindings(WithValues(values))

	instance, err := p.GetPipe(res, b)
	if err != nil {
		return ExecutionResult{}, err
	}

	p.writeStatus(res, StatusStarted)
	p.logger.InfoContext(ctx, "pipe execution started",
		slog.String("path", res.Path()),
		slog.String("type", instance.Type()),
	)

	out, err := instance.Out(ctx)

	p.writeStatus(res, StatusFinished)

	if err != nil {
		p.logger.ErrorContext(ctx, "pipe execution failed",
			slog.String("path", res.Path()),
			slog.Any("reason", err),
		)

		return ExecutionResult{}, err
	}

	result := ExecutionResult{
		Paths: make([]string, len(out)),
	}

	for i, r := range out {
		result.Paths[i] = r.Path()
	}

	if save && p.resolver.HasChanges() {
		result.Committed = p.resolver.Commit()
	}

	p.logger.InfoContext(ctx, "pipe execution finished",
		slog.String("path", res.Path()),
		slog.Int("size", result.Size()),
		slog.Int("committed", result.Committed),
	)

	return result, nil
}

// Job is the handle of an asynchronous execution started with
// [Plumber.ExecuteAsync].
type Job struct {
	done   chan struct{}
	result ExecutionResult
	err    error
}

// Done returns a channel closed when the execution completes.
func (j *Job) Done() <-chan struct{} { return j.done }

// Wait blocks until the execution completes or ctx is canceled, and
// returns the execution outcome.
func (j *Job) Wait(ctx context.Context) (ExecutionResult, error) {
	select {
	case <-ctx.Done():
		return ExecutionResult{}, ctx.Err()

	case <-j.done:
		return j.result, j.err
	}
}

// ExecuteAsync runs [Plumber.Execute] on its own goroutine and returns
// immediately with a [Job] handle.
func (p *Plumber) ExecuteAsync(
	ctx context.Context,
	path string,
	values binding.Map,
	save bool,
) *Job {
	job := &Job{done: make(chan struct{})}

	go func() {
		defer close(job.done)

		job.result, job.err = p.Execute(ctx, path, values, save)
	}()

	return job
}

// nextPipePath generates a unique path under [PipesRoot] for generated
// pipe resources.
func (p *Plumber) nextPipePath() string {
	return PipesRoot + "/pipe-" +
		strconv.FormatUint(p.seq.Add(1), 10)
}

// ExecutionResult collects the outcome of one pipe execution.
type ExecutionResult struct {
	// Paths are the paths of the output resources, in output order.
	Paths []string `json:"items"`

	// Committed is the number of pending changes settled by the save
	// flag, zero when save was off or nothing changed.
	Committed int `json:"committed,omitempty"`
}

// Size returns the number of output resources.
func (r ExecutionResult) Size() int { return len(r.Paths) }

// WriteJSON renders the result to w as a single JSON object.
func (r ExecutionResult) WriteJSON(w io.Writer) error {
	type output struct {
		ExecutionResult

		Size int `json:"size"`
	}

	enc := json.NewEncoder(w)

	return enc.Encode(output{ExecutionResult: r, Size: r.Size()})
}
