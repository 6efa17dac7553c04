package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/manhhung3004/Gentsshop/app"
)

type stripeKey struct {
	StripeAPIKey string `json:"stripeApiKey"`
}

func newStripeKeyCommand(rt *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stripe-key",
		Short: "Show the publishable payment key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.withApp(cmd, func(ctx context.Context, a *app.App) error {
				key, err := app.Retry(ctx, a, a.API.Payments.StripeKey)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), rt.global.Output, stripeKey{StripeAPIKey: key})
			})
		},
	}
}
