package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ardnew/plumb/pipe"
)

// Eval evaluates a single expression against binding tokens.
type Eval struct {
	Expr string   `arg:"" help:"Expression to evaluate"                                          name:"expr"`
	Bind []string `       help:"Bind name=value (value may contain expression spans)" name:"bind" short:"b"`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	bindings := pipe.MakeBindings(pipe.WithProcessEnv(os.Environ()...))

	if err := bindings.Bind(e.Bind...); err != nil {
		return ErrBindToken.Wrap(err)
	}

	result, err := bindings.Evaluate(e.Expr)
	if err != nil {
		return NewError("evaluate expression").
			With(slog.String("expr", e.Expr)).
			Wrap(err)
	}

	// Print result in native format
	fmt.Println(formatValue(result))

	return nil
}

// formatValue renders an evaluation result for plain output. Strings
// print verbatim so results compose in shell pipelines.
func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
