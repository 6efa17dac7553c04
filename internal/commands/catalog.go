package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/manhhung3004/Gentsshop/api"
	"github.com/manhhung3004/Gentsshop/app"
)

type productListOptions struct {
	Keyword   string
	Page      int
	Category  string
	MinPrice  float64
	MaxPrice  float64
	MinRating float64
}

func (o *productListOptions) query(cmd *cobra.Command) api.ProductQuery {
	q := api.ProductQuery{
		Keyword:    o.Keyword,
		Page:       o.Page,
		Category:   o.Category,
		MinRatings: o.MinRating,
	}
	if cmd.Flags().Changed("min-price") || cmd.Flags().Changed("max-price") {
		q.Price = &api.PriceRange{Min: o.MinPrice, Max: o.MaxPrice}
	}
	return q
}

func newProductsCommand(rt *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products",
		Short: "Browse the catalog",
	}
	cmd.AddCommand(newProductsListCommand(rt), newProductsGetCommand(rt))
	return cmd
}

func newProductsListCommand(rt *cli) *cobra.Command {
	opts := &productListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Search products",
		Example: `  gentsshop products list --keyword tee --category T-Shirts
  gentsshop products list --min-price 10 --max-price 50 --page 2`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q := opts.query(cmd)
			return rt.withApp(cmd, func(ctx context.Context, a *app.App) error {
				page, err := app.Retry(ctx, a, func(ctx context.Context) (*api.ProductPage, error) {
					return a.API.Products.List(ctx, q)
				})
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), rt.global.Output, page)
			})
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.Keyword, "keyword", "k", "", "Search keyword")
	f.IntVar(&opts.Page, "page", 0, "Result page, starting at 1")
	f.StringVar(&opts.Category, "category", "", "Product category")
	f.Float64Var(&opts.MinPrice, "min-price", api.PriceMin, "Lowest price")
	f.Float64Var(&opts.MaxPrice, "max-price", api.PriceMax, "Highest price")
	f.Float64Var(&opts.MinRating, "min-rating", 0, "Lowest average rating")
	return cmd
}

func newProductsGetCommand(rt *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "get <product-id>",
		Short: "Show one product",
		Args:  requireArg("product id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(ctx context.Context, a *app.App) error {
				p, err := app.Retry(ctx, a, func(ctx context.Context) (*api.Product, error) {
					return a.API.Products.Get(ctx, args[0])
				})
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), rt.global.Output, p)
			})
		},
	}
}

func newReviewsCommand(rt *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Read product reviews",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list <product-id>",
		Short: "List the reviews of a product",
		Args:  requireArg("product id"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rt.withApp(cmd, func(ctx context.Context, a *app.App) error {
				reviews, err := app.Retry(ctx, a, func(ctx context.Context) ([]api.Review, error) {
					return a.API.Reviews.List(ctx, args[0])
				})
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), rt.global.Output, reviews)
			})
		},
	})
	return cmd
}
