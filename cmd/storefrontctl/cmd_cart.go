package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jafarshop/storefront/internal/checkout"
	"github.com/jafarshop/storefront/internal/service"
)

var timeNow = time.Now

func newCartCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "cart",
		Short: "Show the cart with line totals and order totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := loadCart(cmd, app)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(result.Items) == 0 {
				fmt.Fprintln(out, "Your cart is empty")
				return nil
			}
			for _, line := range checkout.Lines(result.Items) {
				fmt.Fprintf(out, "%-30s x%-3d $%s\n", line.Name, line.Quantity, line.LineTotal)
			}
			fmt.Fprintln(out)
			printSummary(out, checkout.Price(result.Items).Display())
			return nil
		},
	}
}

func newQuoteCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "quote",
		Short: "Show subtotal, shipping, tax and total of the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := loadCart(cmd, app)
			if err != nil {
				return err
			}
			if len(result.Items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Your cart is empty")
				return nil
			}
			printSummary(cmd.OutOrStdout(), checkout.Price(result.Items).Display())
			return nil
		},
	}
}

func loadCart(cmd *cobra.Command, app *cli) (service.CartResult, error) {
	loader := service.NewCartLoader(app.client, nil, app.logger)
	result := loader.Load(cmd.Context(), app.session())
	if result.Outcome == service.CartRedirectLogin {
		return result, fmt.Errorf("login required: pass a valid --token")
	}
	return result, nil
}

func printSummary(out io.Writer, s checkout.SummaryView) {
	fmt.Fprintf(out, "Subtotal: $%s\n", s.Subtotal)
	fmt.Fprintf(out, "Shipping: $%s\n", s.Shipping)
	fmt.Fprintf(out, "Tax:      $%s\n", s.Tax)
	fmt.Fprintf(out, "Total:    $%s\n", s.Total)
}
