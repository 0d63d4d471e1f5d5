package pipe

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/ardnew/plumb/binding"
	"github.com/ardnew/plumb/resource"
)

// Builder assembles a pipe chain fluently and materializes it as
// resources the [Plumber] can execute. Methods record the first error
// encountered and turn the rest of the chain into no-ops; the error
// surfaces from [Builder.Build] or [Builder.Run].
type Builder struct {
	plumber *Plumber
	steps   []builderStep
	err     error
}

// builderStep is one pipe of the chain under construction.
type builderStep struct {
	typ  string
	name string
	path string
	conf binding.Map
}

// NewPipe starts a pipe chain with the given pipe type.
func (p *Plumber) NewPipe(typ string) *Builder {
	b := &Builder{plumber: p}

	return b.Pipe(typ)
}

// Pipe appends a pipe of the given type to the chain. The type must be
// registered.
func (b *Builder) Pipe(typ string) *Builder {
	if b.err != nil {
		return b
	}

	if !b.plumber.IsTypeRegistered(typ) {
		b.err = ErrTypeNotRegistered.With(slog.String("type", typ))

		return b
	}

	b.steps = append(b.steps, builderStep{
		typ:  typ,
		conf: make(binding.Map),
	})

	return b
}

// Name sets the name of the pipe appended last.
func (b *Builder) Name(name string) *Builder {
	if b.err != nil || len(b.steps) == 0 {
		return b
	}

	b.steps[len(b.steps)-1].name = name

	return b
}

// Path sets the input path expression of the pipe appended last. The
// expression is evaluated against the execution bindings when the pipe
// runs.
func (b *Builder) Path(expr string) *Builder {
	if b.err != nil || len(b.steps) == 0 {
		return b
	}

	b.steps[len(b.steps)-1].path = expr

	return b
}

// With parses each "key=value" token and adds it to the configuration
// of the pipe appended last, classifying values as expressions where
// their shape calls for it.
func (b *Builder) With(tokens ...string) *Builder {
	return b.conf(true, tokens...)
}

// WithLiteral is [Builder.With] without expression classification:
// values are stored verbatim.
func (b *Builder) WithLiteral(tokens ...string) *Builder {
	return b.conf(false, tokens...)
}

func (b *Builder) conf(embed bool, tokens ...string) *Builder {
	if b.err != nil || len(b.steps) == 0 {
		return b
	}

	step := &b.steps[len(b.steps)-1]

	for _, token := range tokens {
		key, value, ok := binding.SplitToken(token)
		if !ok {
			b.err = ErrBuildPipe.
				Wrap(binding.ErrTokenMatch).
				With(slog.String("token", token))

			return b
		}

		err := binding.WriteToMap(step.conf, embed, key, value)
		if err != nil {
			b.err = ErrBuildPipe.Wrap(err).
				With(slog.String("token", token))

			return b
		}
	}

	return b
}

// Build materializes the chain as resources rooted at path and returns
// the root pipe resource. An empty path places the chain under a
// generated path below [PipesRoot].
//
// A single-step chain becomes one pipe resource; longer chains become a
// container with the steps in order under its [NodePipes] child.
func (b *Builder) Build(path string) (*resource.Resource, error) {
	if b.err != nil {
		return nil, b.err
	}

	if len(b.steps) == 0 {
		return nil, ErrBuildPipe.With(slog.String("reason", "empty chain"))
	}

	if path == "" {
		path = b.plumber.nextPipePath()
	}

	resolver := b.plumber.resolver

	if len(b.steps) == 1 {
		return b.materializeStep(resolver, path, b.steps[0])
	}

	root, err := resolver.Create(path, resource.DefaultType, map[string]any{
		PropType: TypeContainer,
	})
	if err != nil {
		return nil, ErrBuildPipe.Wrap(err)
	}

	pipesPath := resource.Join(path, NodePipes)

	if _, err := resolver.Create(pipesPath, "", nil); err != nil {
		return nil, ErrBuildPipe.Wrap(err)
	}

	for i, step := range b.steps {
		name := step.name
		if name == "" {
			name = "step-" + strconv.Itoa(i)
		}

		stepPath := resource.Join(pipesPath, name)

		if _, err := b.materializeStep(resolver, stepPath, step); err != nil {
			return nil, err
		}
	}

	return root, nil
}

// materializeStep creates the resource of a single pipe step, with its
// configuration under a [NodeConf] child when present.
func (b *Builder) materializeStep(
	resolver *resource.Resolver,
	path string,
	step builderStep,
) (*resource.Resource, error) {
	props := map[string]any{PropType: step.typ}
	if step.name != "" {
		props[PropName] = step.name
	}

	if step.path != "" {
		props[PropPath] = step.path
	}

	res, err := resolver.Create(path, resource.DefaultType, props)
	if err != nil {
		return nil, ErrBuildPipe.Wrap(err).
			With(slog.String("path", path))
	}

	if len(step.conf) > 0 {
		confPath := resource.Join(path, NodeConf)

		_, err := resolver.Create(confPath, "", map[string]any(step.conf))
		if err != nil {
			return nil, ErrBuildPipe.Wrap(err).
				With(slog.String("path", confPath))
		}
	}

	return res, nil
}

// Run builds the chain under a generated path and executes it.
func (b *Builder) Run(
	ctx context.Context,
	values binding.Map,
	save bool,
) (ExecutionResult, error) {
	root, err := b.Build("")
	if err != nil {
		return ExecutionResult{}, err
	}

	return b.plumber.Execute(ctx, root.Path(), values, save)
}
