package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/manhhung3004/Gentsshop/api"
	"github.com/manhhung3004/Gentsshop/app"
)

func newOrdersCommand(rt *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Read your orders",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "mine",
			Short: "List the signed-in user's orders",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return rt.withApp(cmd, func(ctx context.Context, a *app.App) error {
					orders, err := app.Retry(ctx, a, a.API.Orders.Mine)
					if err != nil {
						return err
					}
					if orders == nil {
						orders = []api.Order{}
					}
					return render(cmd.OutOrStdout(), rt.global.Output, orders)
				})
			},
		},
		&cobra.Command{
			Use:   "get <order-id>",
			Short: "Show one order",
			Args:  requireArg("order id"),
			RunE: func(cmd *cobra.Command, args []string) error {
				return rt.withApp(cmd, func(ctx context.Context, a *app.App) error {
					order, err := app.Retry(ctx, a, func(ctx context.Context) (*api.Order, error) {
						return a.API.Orders.Get(ctx, args[0])
					})
					if err != nil {
						return err
					}
					return render(cmd.OutOrStdout(), rt.global.Output, order)
				})
			},
		},
	)
	return cmd
}
