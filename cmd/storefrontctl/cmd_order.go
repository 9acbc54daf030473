package main

import (
	stderrors "errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jafarshop/storefront/internal/checkout"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/service"
	"github.com/jafarshop/storefront/pkg/errors"
)

func newOrderCmd(app *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "order",
		Short: "Place orders",
	}

	place := &cobra.Command{
		Use:   "place",
		Short: "Validate the checkout form and place the order",
		Example: `storefrontctl order place --shipping "1 Main St" --method paypal
storefrontctl order place --shipping "1 Main St" --billing "PO Box 9" \
  --card-number 4111111111111111 --expiry-month 4 --expiry-year 2030 --cvv 123 --card-holder "Jane Roe"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form, err := formFromFlags(cmd)
			if err != nil {
				return err
			}

			composer := service.NewOrderComposer(app.client, nil, app.logger)
			result, err := composer.Submit(cmd.Context(), app.session(), form)
			out := cmd.OutOrStdout()

			var validationErr *errors.ErrValidation
			var authErr *errors.ErrAuthRequired
			switch {
			case err == nil:
				fmt.Fprintf(out, "✅ %s\n", result.Notification)
				return nil
			case stderrors.As(err, &validationErr):
				names := make([]string, 0, len(validationErr.Fields))
				for name := range validationErr.Fields {
					names = append(names, name)
				}
				sort.Strings(names)
				for _, name := range names {
					fmt.Fprintf(out, "  %s: %s\n", name, validationErr.Fields[name])
				}
				return err
			case stderrors.As(err, &authErr):
				return fmt.Errorf("login required: pass a valid --token")
			default:
				fmt.Fprintln(out, service.NotificationOrderFailed)
				return err
			}
		},
	}

	flags := place.Flags()
	for _, f := range formFlags {
		flags.String(f.name, f.value, f.usage)
	}

	cmd.AddCommand(place)
	return cmd
}

// formFlags maps order place flags onto checkout form fields
var formFlags = []struct {
	name, field, value, usage string
}{
	{"shipping", checkout.FieldShippingAddress, "", "shipping address"},
	{"billing", checkout.FieldBillingAddress, "", "billing address (defaults to the shipping address)"},
	{"method", checkout.FieldPaymentMethod, string(domain.PaymentMethodCreditCard), "payment method: credit_card, paypal or bank_transfer"},
	{"card-number", checkout.FieldCardNumber, "", "card number"},
	{"expiry-month", checkout.FieldExpiryMonth, "", "card expiry month"},
	{"expiry-year", checkout.FieldExpiryYear, "", "card expiry year"},
	{"cvv", checkout.FieldCVV, "", "card CVV"},
	{"card-holder", checkout.FieldCardHolderName, "", "card holder name"},
}

// formFromFlags fills a fresh form with the flags the operator set
func formFromFlags(cmd *cobra.Command) (*checkout.Form, error) {
	form := checkout.NewForm()
	for _, f := range formFlags {
		if !cmd.Flags().Changed(f.name) {
			continue
		}
		value, err := cmd.Flags().GetString(f.name)
		if err != nil {
			return nil, err
		}
		if f.field == checkout.FieldBillingAddress {
			form.SetUseSameAddress(false)
		}
		if err := form.Edit(f.field, value); err != nil {
			return nil, err
		}
	}
	return form, nil
}
