package cmd

import (
	"context"
	"os"

	"github.com/ardnew/plumb/cli/cmd/repl"
	"github.com/ardnew/plumb/log"
	"github.com/ardnew/plumb/pipe"
	"github.com/ardnew/plumb/resource"
)

// Repl starts an interactive session evaluating expressions against
// bindings and the content tree.
type Repl struct {
	Bind    []string `help:"Bind name=value (value may contain expression spans)"     name:"bind"    short:"b"`
	Content string   `help:"Content tree YAML file to seed the resource tree"         name:"content" short:"c" type:"existingfile" optional:""`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)

	cacheDir, ok := ktx.Model.Vars()[CacheIdentifier]
	if !ok {
		panic("internal error: cache directory undefined")
	}

	resolver := resource.MakeResolver()
	if r.Content != "" {
		if err := loadContentFile(resolver, r.Content); err != nil {
			return err
		}
	}

	plumber := pipe.NewPlumber(resolver, pipe.WithLogger(log.Default()))

	bindings := pipe.MakeBindings(pipe.WithProcessEnv(os.Environ()...))
	if err := bindings.Bind(r.Bind...); err != nil {
		return ErrBindToken.Wrap(err)
	}

	return repl.Run(ctx, plumber, bindings, cacheDir, log.Default())
}
