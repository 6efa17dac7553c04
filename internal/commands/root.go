// Package commands implements the gentsshop command line client.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/manhhung3004/Gentsshop/api"
	"github.com/manhhung3004/Gentsshop/app"
	"github.com/manhhung3004/Gentsshop/config"
)

// GlobalOptions holds the flags shared by every command.
type GlobalOptions struct {
	ConfigFile string
	Output     string
}

type cli struct {
	global  *GlobalOptions
	appOpts []app.Option
}

// NewRootCommand creates the gentsshop command tree. appOpts are applied
// after the configuration file loader, so they may replace it.
func NewRootCommand(version string, appOpts ...app.Option) *cobra.Command {
	rt := &cli{global: &GlobalOptions{}, appOpts: appOpts}

	cmd := &cobra.Command{
		Use:   "gentsshop",
		Short: "Command line client for the Gentsshop commerce API",
		Long: `Command line client for the Gentsshop commerce API.

Credentials obtained by "gentsshop login" are kept in the configured
credential backend and reused by later commands until "gentsshop logout".`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return validateOutput(rt.global.Output)
		},
	}

	cmd.PersistentFlags().StringVarP(&rt.global.ConfigFile, "config", "c", config.DefaultFile, "Configuration file")
	cmd.PersistentFlags().StringVarP(&rt.global.Output, "output", "o", formatJSON, "Output format (json|yaml)")

	cmd.AddCommand(
		newLoginCommand(rt),
		newLogoutCommand(rt),
		newMeCommand(rt),
		newProductsCommand(rt),
		newReviewsCommand(rt),
		newOrdersCommand(rt),
		newStripeKeyCommand(rt),
		NewVersionCommand(version),
	)
	return cmd
}

// withApp builds the client for one command and closes it afterwards.
func (rt *cli) withApp(cmd *cobra.Command, fn func(context.Context, *app.App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	path := rt.global.ConfigFile
	opts := append([]app.Option{
		app.WithConfigLoader(func() (*config.Config, error) { return config.LoadFile(path) }),
	}, rt.appOpts...)

	a, err := app.New(ctx, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	if err := fn(ctx, a); err != nil {
		return &commandError{err: err}
	}
	return nil
}

// commandError shows the user-facing message for a failed call while
// keeping the cause available to errors.Is and errors.As.
type commandError struct {
	err error
}

func (e *commandError) Error() string { return api.ErrorMessage(e.err) }

func (e *commandError) Unwrap() error { return e.err }

func requireArg(name string) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("expected exactly one %s", name)
		}
		return nil
	}
}
