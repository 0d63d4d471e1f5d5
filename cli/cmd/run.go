package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/plumb/binding"
	"github.com/ardnew/plumb/log"
	"github.com/ardnew/plumb/pipe"
	"github.com/ardnew/plumb/resource"
)

// Run loads pipeline definitions, materializes them as pipe resources,
// and executes them against the content tree.
type Run struct {
	Bind    []string `help:"Bind name=value (value may contain expression spans)"     name:"bind"    short:"b"`
	Content string   `help:"Content tree YAML file to seed the resource tree"         name:"content" short:"c" type:"existingfile" optional:""`
	Path    string   `help:"Resource path to materialize pipes under"                 name:"path"                                  optional:""`
	Save    bool     `help:"Commit resource changes after execution"                  default:"true"                               negatable:""`
}

// Run executes the run command.
func (r *Run) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	sources := sourcesFrom(ctx)
	if len(sources) == 0 {
		return ErrNoDefinition
	}

	values, err := bindValues(r.Bind)
	if err != nil {
		return err
	}

	resolver := resource.MakeResolver()
	if r.Content != "" {
		if err := loadContentFile(resolver, r.Content); err != nil {
			return err
		}
	}

	plumber := pipe.NewPlumber(resolver, pipe.WithLogger(log.Default()))

	for _, source := range sources {
		def, err := pipe.LoadDefinition(source.Reader)
		if err != nil {
			return NewError("load definition").
				With(slog.String("source", source.Name)).
				Wrap(err)
		}

		root, err := def.Materialize(plumber, r.Path)
		if err != nil {
			return NewError("materialize definition").
				With(slog.String("source", source.Name)).
				Wrap(err)
		}

		result, err := plumber.Execute(ctx, root.Path(), values, r.Save)
		if err != nil {
			return err
		}

		if err := result.WriteJSON(os.Stdout); err != nil {
			return ErrWriteResult.
				With(slog.String("source", source.Name)).
				Wrap(err)
		}
	}

	return nil
}

// bindValues parses key=value binding tokens into a map, embedding
// literal values as quoted expressions so they survive evaluation
// unchanged.
func bindValues(tokens []string) (binding.Map, error) {
	values := make(binding.Map, len(tokens))

	for _, token := range tokens {
		key, value, ok := binding.SplitToken(token)
		if !ok {
			return nil, ErrBindToken.With(slog.String("token", token))
		}

		if err := binding.WriteToMap(values, true, key, value); err != nil {
			return nil, ErrBindToken.
				With(slog.String("token", token)).
				Wrap(err)
		}
	}

	return values, nil
}
