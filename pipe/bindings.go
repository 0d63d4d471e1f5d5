package pipe

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/zeebo/xxh3"

	"github.com/ardnew/plumb/binding"
)

// Bindings is the evaluation context of one pipe execution: a binding
// map merged over the built-in environment, plus the process
// environment exposed through the env() function.
//
// Copies of a Bindings share the underlying map, so values set by one
// pipe in a chain are visible to the pipes that follow it. Construct
// with [MakeBindings]; the zero value is not useful.
type Bindings struct {
	data       binding.Map
	processEnv map[string]string
}

// Option applies a configuration option to [Bindings].
type Option func(Bindings) Bindings

// apply applies multiple options to a Bindings.
func apply(b Bindings, opts ...Option) Bindings {
	for _, opt := range opts {
		b = opt(b)
	}

	return b
}

// MakeBindings creates a new [Bindings] with an empty binding map and
// the current process environment.
func MakeBindings(opts ...Option) Bindings {
	var b Bindings

	b.data = make(binding.Map)
	b.processEnv = buildProcessEnvMap(nil)

	return apply(b, opts...)
}

// WithValues returns a functional option that copies the entries of m
// into the binding map. The argument map stays owned by the caller.
func WithValues(m binding.Map) Option {
	return func(b Bindings) Bindings {
		maps.Copy(b.data, m)

		return b
	}
}

// WithProcessEnv returns a functional option that replaces the process
// environment visible to env() with the given "KEY=VALUE" entries.
func WithProcessEnv(envList ...string) Option {
	return func(b Bindings) Bindings {
		b.processEnv = buildProcessEnvMap(envList)

		return b
	}
}

// Set stores a value under the given name, verbatim.
func (b Bindings) Set(name string, value any) {
	b.data[name] = value
}

// Get returns the value bound to the given name, if present.
func (b Bindings) Get(name string) (any, bool) {
	value, ok := b.data[name]

	return value, ok
}

// Names returns the bound names in sorted order.
func (b Bindings) Names() []string {
	return slices.Sorted(maps.Keys(b.data))
}

// Bind parses each "key=value" token and writes it into the binding map
// with expression classification applied to the value.
func (b Bindings) Bind(tokens ...string) error {
	for _, token := range tokens {
		key, value, ok := binding.SplitToken(token)
		if !ok {
			return binding.ErrTokenMatch.With(slog.String("token", token))
		}

		err := binding.WriteToMap(b.data, true, key, value)
		if err != nil {
			return err
		}
	}

	return nil
}

// Evaluate resolves the embedded expressions of s against the current
// bindings.
//
// A string without the ${ marker is returned unchanged. A string that
// is exactly one balanced span yields the typed result of its body.
// A string mixing literal text and spans yields the concatenation of
// the literal segments and the stringified span results. An unbalanced
// span is treated as literal text.
func (b Bindings) Evaluate(s string) (any, error) {
	if !strings.Contains(s, binding.ExprPrefix) {
		return s, nil
	}

	var (
		out     strings.Builder
		last    any
		spans   int
		literal bool
	)

	for text, isExpr := range binding.Spans(s) {
		if !isExpr {
			literal = true

			out.WriteString(text)

			continue
		}

		result, err := b.evalExpr(text)
		if err != nil {
			return nil, err
		}

		last = result
		spans++

		out.WriteString(stringify(result))
	}

	if spans == 0 {
		// Only unbalanced spans: nothing to evaluate.
		return s, nil
	}

	if spans == 1 && !literal {
		return last, nil
	}

	return out.String(), nil
}

// EvaluateMap resolves every string value of props with [Evaluate] and
// returns the result as a new map. Non-string values pass through.
func (b Bindings) EvaluateMap(
	props map[string]any,
) (map[string]any, error) {
	result := make(map[string]any, len(props))

	for key, value := range props {
		s, isString := value.(string)
		if !isString {
			result[key] = value

			continue
		}

		evaluated, err := b.Evaluate(s)
		if err != nil {
			return nil, err
		}

		result[key] = evaluated
	}

	return result, nil
}

// evalExpr compiles and runs a single expression body.
func (b Bindings) evalExpr(source string) (any, error) {
	if strings.TrimSpace(source) == "" {
		return nil, nil
	}

	program, err := compileExpr(source)
	if err != nil {
		return nil, err
	}

	env := makeEnvCache()
	maps.Copy(env, b.data)
	env["env"] = envFunc(b.processEnv)

	result, err := vm.Run(program, env)
	if err != nil {
		return nil, ErrExprEvaluate.Wrap(err).
			With(slog.String("source", source))
	}

	return result, nil
}

// programCache stores compiled programs keyed by the xxh3 hash of their
// source. Programs are compiled without a typed environment, so one
// compilation serves every Bindings in the process.
//
//nolint:gochecknoglobals
var programCache sync.Map

// compileExpr compiles an expression body, consulting the process-wide
// program cache first.
func compileExpr(source string) (*vm.Program, error) {
	key := xxh3.HashString(source)

	if cached, ok := programCache.Load(key); ok {
		if program, ok := cached.(*vm.Program); ok {
			return program, nil
		}
	}

	program, err := expr.Compile(source)
	if err != nil {
		return nil, ErrExprCompile.Wrap(err).
			With(slog.String("source", source))
	}

	programCache.Store(key, program)

	return program, nil
}

// stringify renders a span result for interpolation into literal text.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""

	case string:
		return val

	default:
		return fmt.Sprint(val)
	}
}
