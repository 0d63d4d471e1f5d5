package pipe

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ardnew/plumb/resource"
)

// TypeFilter is the registered type of the selecting pipe.
const TypeFilter = "filter"

// CurrentBinding is the name under which the resource being examined is
// bound while per-resource expressions evaluate.
const CurrentBinding = "one"

// filterPipe passes through the input resources that satisfy its
// configuration. A [PropTest] entry must evaluate to a boolean with the
// current resource bound under [CurrentBinding]; every other entry is
// evaluated and compared against the like-named resource property.
type filterPipe struct {
	BasePipe
}

func newFilterPipe(
	p *Plumber,
	res *resource.Resource,
	b Bindings,
) (Pipe, error) {
	return &filterPipe{BasePipe: makeBasePipe(p, res, b)}, nil
}

func (p *filterPipe) Out(
	ctx context.Context,
) ([]*resource.Resource, error) {
	inputs, err := p.resolveInput()
	if err != nil {
		return nil, err
	}

	conf := p.Conf()
	if len(conf) == 0 {
		return inputs, nil
	}

	var out []*resource.Resource

	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		keep, err := p.matches(in, conf)
		if err != nil {
			return nil, err
		}

		if keep {
			out = append(out, in)
		}
	}

	return out, nil
}

// matches reports whether a single resource satisfies the filter
// configuration.
func (p *filterPipe) matches(
	in *resource.Resource,
	conf map[string]any,
) (bool, error) {
	p.bindings.Set(CurrentBinding, resourceBinding(in))

	for key, raw := range conf {
		expected, isString := raw.(string)
		if !isString {
			expected = fmt.Sprint(raw)
		}

		evaluated, err := p.bindings.Evaluate(expected)
		if err != nil {
			return false, err
		}

		if key == PropTest {
			pass, isBool := evaluated.(bool)
			if !isBool {
				return false, ErrFilterTest.With(
					slog.String("pipe", p.Name()),
					slog.String("result", fmt.Sprintf("%T", evaluated)),
				)
			}

			if !pass {
				return false, nil
			}

			continue
		}

		actual, ok := in.Property(key)
		if !ok || fmt.Sprint(actual) != stringify(evaluated) {
			return false, nil
		}
	}

	return true, nil
}

// resourceBinding flattens a resource into the map shape expressions
// see under [CurrentBinding].
func resourceBinding(in *resource.Resource) map[string]any {
	props := in.Properties()
	if props == nil {
		props = make(map[string]any)
	}

	props["path"] = in.Path()
	props["name"] = in.Name()

	return props
}
