package pipe

import (
	"context"

	"github.com/ardnew/plumb/resource"
)

// TypeWrite is the registered type of the property-writing pipe.
const TypeWrite = "write"

// writePipe applies its configuration properties to each input
// resource, evaluating embedded expressions against the execution
// bindings on the way.
type writePipe struct {
	BasePipe
}

func newWritePipe(
	p *Plumber,
	res *resource.Resource,
	b Bindings,
) (Pipe, error) {
	return &writePipe{BasePipe: makeBasePipe(p, res, b)}, nil
}

func (p *writePipe) Modifies() bool { return true }

func (p *writePipe) Out(_ context.Context) ([]*resource.Resource, error) {
	targets, err := p.resolveInput()
	if err != nil {
		return nil, err
	}

	conf := p.Conf()
	if len(conf) == 0 {
		return targets, nil
	}

	for _, target := range targets {
		p.bindings.Set(CurrentBinding, resourceBinding(target))

		evaluated, err := p.bindings.EvaluateMap(conf)
		if err != nil {
			return nil, err
		}

		for key, value := range evaluated {
			target.SetProperty(key, value)
		}
	}

	return targets, nil
}
