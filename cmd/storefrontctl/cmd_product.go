package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jafarshop/storefront/internal/backend"
	"github.com/jafarshop/storefront/internal/checkout"
)

const productPageSize = 50

func newProductCmd(app *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "product",
		Short: "Browse the catalog",
	}

	var categoryID int64
	find := &cobra.Command{
		Use:     "find <search>",
		Short:   "Search products by name or title across all pages",
		Example: `storefrontctl product find mug`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "🔍 Searching for: %s\n\n", args[0])

			found := 0
			for page := 1; ; page++ {
				result, err := app.client.ListProducts(cmd.Context(), backend.ProductQuery{
					Search:     args[0],
					CategoryID: categoryID,
					Page:       page,
					PerPage:    productPageSize,
				})
				if err != nil {
					return fmt.Errorf("failed to list products: %w", err)
				}

				for _, p := range result.Products {
					found++
					fmt.Fprintf(out, "%6d  %-40s $%s\n", p.ID, p.Name, checkout.FormatMoney(p.Price))
				}
				if page >= result.Pages || len(result.Products) == 0 {
					break
				}
			}

			if found == 0 {
				fmt.Fprintln(out, "❌ No products found")
			}
			return nil
		},
	}
	find.Flags().Int64Var(&categoryID, "category", 0, "limit the search to one category")

	cmd.AddCommand(find)
	return cmd
}
