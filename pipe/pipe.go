package pipe

import (
	"context"
	"log/slog"

	"github.com/ardnew/plumb/resource"
)

// Well-known property and child node names of pipe resources.
const (
	// PropType selects the pipe implementation from the registry.
	PropType = "type"

	// PropPath is an optional expression resolving to the input resource.
	PropPath = "path"

	// PropName overrides the resource name as the pipe name.
	PropName = "name"

	// PropTest is the boolean expression evaluated by filter pipes.
	PropTest = "test"

	// PropStatus and PropStatusModified record execution state on the
	// pipe resource.
	PropStatus         = "status"
	PropStatusModified = "statusModified"

	// NodeConf holds the pipe configuration properties.
	NodeConf = "conf"

	// NodePipes holds the ordered sub-pipes of a container.
	NodePipes = "pipes"
)

// Execution status values recorded under [PropStatus].
const (
	StatusStarted  = "started"
	StatusFinished = "finished"
)

// PipesRoot is where generated pipe resources are created.
const PipesRoot = "/var/pipes"

// Pipe transforms input resources into output resources.
type Pipe interface {
	// Name returns the pipe name.
	Name() string

	// Type returns the registered pipe type.
	Type() string

	// Resource returns the configuration resource backing the pipe.
	Resource() *resource.Resource

	// Modifies reports whether running the pipe can change the tree.
	Modifies() bool

	// SetInput replaces the input resources for the next Out call.
	SetInput(in []*resource.Resource)

	// Out runs the pipe and returns its output resources.
	Out(ctx context.Context) ([]*resource.Resource, error)
}

// BasePipe carries the state common to all pipe implementations and is
// meant to be embedded by them.
type BasePipe struct {
	plumber  *Plumber
	res      *resource.Resource
	bindings Bindings
	input    []*resource.Resource
}

// makeBasePipe creates the embedded base for a pipe implementation.
func makeBasePipe(
	p *Plumber,
	res *resource.Resource,
	b Bindings,
) BasePipe {
	return BasePipe{
		plumber:  p,
		res:      res,
		bindings: b,
	}
}

// Name returns the [PropName] property if set, the resource name
// otherwise.
func (p *BasePipe) Name() string {
	if name, ok := p.res.Property(PropName); ok {
		if s, ok := name.(string); ok && s != "" {
			return s
		}
	}

	return p.res.Name()
}

// Type returns the pipe type of the backing resource.
func (p *BasePipe) Type() string {
	typ, _ := p.res.Property(PropType)

	s, _ := typ.(string)

	return s
}

// Resource returns the configuration resource backing the pipe.
func (p *BasePipe) Resource() *resource.Resource { return p.res }

// Modifies reports false; pipes that write must override it.
func (p *BasePipe) Modifies() bool { return false }

// SetInput replaces the input resources for the next Out call.
func (p *BasePipe) SetInput(in []*resource.Resource) { p.input = in }

// Input returns the current input resources.
func (p *BasePipe) Input() []*resource.Resource { return p.input }

// Bindings returns the execution bindings shared by the pipe chain.
func (p *BasePipe) Bindings() Bindings { return p.bindings }

// Conf returns the properties of the [NodeConf] child, or nil when the
// pipe has no configuration node.
func (p *BasePipe) Conf() map[string]any {
	conf, ok := p.res.Child(NodeConf)
	if !ok {
		return nil
	}

	return conf.Properties()
}

// resolveInput returns the resources the pipe operates on: the resource
// named by the evaluated [PropPath] property when one is set, the
// current input otherwise.
func (p *BasePipe) resolveInput() ([]*resource.Resource, error) {
	raw, ok := p.res.Property(PropPath)
	if !ok {
		return p.input, nil
	}

	pathExpr, ok := raw.(string)
	if !ok || pathExpr == "" {
		return p.input, nil
	}

	evaluated, err := p.bindings.Evaluate(pathExpr)
	if err != nil {
		return nil, err
	}

	path := stringify(evaluated)

	target, found := p.plumber.resolver.GetResource(path)
	if !found {
		return nil, ErrPipeNotFound.With(
			slog.String("path", path),
			slog.String("pipe", p.Name()),
		)
	}

	return []*resource.Resource{target}, nil
}
