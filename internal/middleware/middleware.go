package middleware

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	CtxKeyConfig  contextKey = "config"
	CtxKeyRuntime contextKey = "runtime"
)

type CommandFactory func() *cobra.Command

type MiddlewareFunc func(cmd *cobra.Command, args []string, next func(cmd *cobra.Command, args []string) error) error

type MiddlewareChain func(factory CommandFactory) CommandFactory

type contextKey string

// UseMiddlewareChain runs middlewares in order from the command's PreRunE.
// Any PreRunE the factory set runs last.
func UseMiddlewareChain(middlewares ...MiddlewareFunc) MiddlewareChain {
	chain := append([]MiddlewareFunc(nil), middlewares...)

	return func(factory CommandFactory) CommandFactory {
		return func() *cobra.Command {
			cmd := factory()
			final := cmd.PreRunE
			if final == nil {
				final = func(*cobra.Command, []string) error { return nil }
			}

			cmd.PreRunE = func(c *cobra.Command, a []string) error {
				return run(chain, final, c, a)
			}
			return cmd
		}
	}
}

func run(chain []MiddlewareFunc, final func(*cobra.Command, []string) error, cmd *cobra.Command, args []string) error {
	if len(chain) == 0 {
		return final(cmd, args)
	}
	return chain[0](cmd, args, func(next *cobra.Command, nextArgs []string) error {
		return run(chain[1:], final, next, nextArgs)
	})
}

func Get[T any](cmd *cobra.Command, key contextKey) (T, error) {
	var zero T

	ctx := cmd.Context()
	if ctx == nil {
		return zero, fmt.Errorf("command context is nil")
	}

	val := ctx.Value(key)
	if val == nil {
		return zero, fmt.Errorf("context value %q is nil", key)
	}

	casted, ok := val.(T)
	if !ok {
		return zero, fmt.Errorf("context value %q has wrong type: %T", key, val)
	}

	return casted, nil
}
