package pipe

import (
	"context"

	"github.com/ardnew/plumb/resource"
)

// TypeContainer is the registered type of the sequencing pipe.
const TypeContainer = "container"

// containerPipe runs the sub-pipes found under its [NodePipes] child in
// order, feeding the output of each into the next. The output of the
// container is the output of its last sub-pipe.
//
// After each sub-pipe runs, its output paths are bound under its name,
// so later sub-pipes can refer to earlier results by expression.
type containerPipe struct {
	BasePipe
}

func newContainerPipe(
	p *Plumber,
	res *resource.Resource,
	b Bindings,
) (Pipe, error) {
	return &containerPipe{BasePipe: makeBasePipe(p, res, b)}, nil
}

func (p *containerPipe) Modifies() bool {
	pipes, ok := p.res.Child(NodePipes)
	if !ok {
		return false
	}

	for child := range pipes.Children() {
		sub, err := p.plumber.GetPipe(child, p.bindings)
		if err != nil {
			continue
		}

		if sub.Modifies() {
			return true
		}
	}

	return false
}

func (p *containerPipe) Out(
	ctx context.Context,
) ([]*resource.Resource, error) {
	current, err := p.resolveInput()
	if err != nil {
		return nil, err
	}

	pipes, ok := p.res.Child(NodePipes)
	if !ok {
		return current, nil
	}

	for child := range pipes.Children() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sub, err := p.plumber.GetPipe(child, p.bindings)
		if err != nil {
			return nil, err
		}

		sub.SetInput(current)

		current, err = sub.Out(ctx)
		if err != nil {
			return nil, err
		}

		paths := make([]string, len(current))
		for i, out := range current {
			paths[i] = out.Path()
		}

		p.bindings.Set(sub.Name(), paths)
	}

	return current, nil
}
