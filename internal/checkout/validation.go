package checkout

import (
	"strings"
)

// ValidationErrors maps a form field name to a user-facing message
type ValidationErrors map[string]string

// Valid reports whether no field failed
func (e ValidationErrors) Valid() bool {
	return len(e) == 0
}

var cardFields = []struct {
	name    string
	message string
	value   func(*Form) string
}{
	{FieldCardNumber, "Card number is required", func(f *Form) string { return f.CardNumber }},
	{FieldExpiryMonth, "Expiry month is required", func(f *Form) string { return f.ExpiryMonth }},
	{FieldExpiryYear, "Expiry year is required", func(f *Form) string { return f.ExpiryYear }},
	{FieldCVV, "CVV is required", func(f *Form) string { return f.CVV }},
	{FieldCardHolderName, "Card holder name is required", func(f *Form) string { return f.CardHolderName }},
}

// Validate checks the form without touching it
func Validate(f *Form) ValidationErrors {
	errs := ValidationErrors{}

	if blank(f.ShippingAddress) {
		errs[FieldShippingAddress] = "Shipping address is required"
	}
	if blank(f.BillingAddress()) {
		errs[FieldBillingAddress] = "Billing address is required"
	}

	if !f.PaymentMethod.IsValid() {
		errs[FieldPaymentMethod] = "Payment method is invalid"
		return errs
	}

	if f.PaymentMethod.RequiresCard() {
		for _, field := range cardFields {
			if blank(field.value(f)) {
				errs[field.name] = field.message
			}
		}
	}

	return errs
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}
