package pipe

import (
	"context"

	"github.com/ardnew/plumb/resource"
)

// TypeEcho is the registered type of the identity pipe.
const TypeEcho = "echo"

// echoPipe passes its resolved input through unchanged. It is the
// simplest pipe and the usual head of a chain: its path property
// selects where the chain starts reading.
type echoPipe struct {
	BasePipe
}

func newEchoPipe(
	p *Plumber,
	res *resource.Resource,
	b Bindings,
) (Pipe, error) {
	return &echoPipe{BasePipe: makeBasePipe(p, res, b)}, nil
}

func (p *echoPipe) Out(_ context.Context) ([]*resource.Resource, error) {
	return p.resolveInput()
}
