package checkout

import (
	"fmt"

	"github.com/jafarshop/storefront/internal/domain"
)

// Form field names, shared with the JSON surface and the error map keys
const (
	FieldShippingAddress = "shipping_address"
	FieldBillingAddress  = "billing_address"
	FieldPaymentMethod   = "payment_method"
	FieldCardNumber      = "card_number"
	FieldExpiryMonth     = "expiry_month"
	FieldExpiryYear      = "expiry_year"
	FieldCVV             = "cvv"
	FieldCardHolderName  = "card_holder_name"
)

// Form is the checkout form. The billing address is a computed view: while
// UseSameAddress is set it is the shipping address, otherwise the Billing text.
type Form struct {
	ShippingAddress string               `json:"shipping_address"`
	Billing         string               `json:"billing_address"`
	PaymentMethod   domain.PaymentMethod `json:"payment_method"`
	CardNumber      string               `json:"card_number"`
	ExpiryMonth     string               `json:"expiry_month"`
	ExpiryYear      string               `json:"expiry_year"`
	CVV             string               `json:"cvv"`
	CardHolderName  string               `json:"card_holder_name"`
	UseSameAddress  bool                 `json:"use_same_address"`

	errors ValidationErrors
}

// NewForm returns a form with the defaults the checkout page starts with
func NewForm() *Form {
	return &Form{
		PaymentMethod:  domain.PaymentMethodCreditCard,
		UseSameAddress: true,
		errors:         ValidationErrors{},
	}
}

// BillingAddress returns the effective billing address
func (f *Form) BillingAddress() string {
	if f.UseSameAddress {
		return f.ShippingAddress
	}
	return f.Billing
}

// SetUseSameAddress toggles billing mirroring. Turning it off seeds the
// independent billing text with what the user was last shown.
func (f *Form) SetUseSameAddress(same bool) {
	if !same && f.UseSameAddress {
		f.Billing = f.ShippingAddress
	}
	f.UseSameAddress = same
}

// Edit sets one field by name and clears any error recorded for it
func (f *Form) Edit(field, value string) error {
	switch field {
	case FieldShippingAddress:
		f.ShippingAddress = value
	case FieldBillingAddress:
		f.Billing = value
	case FieldPaymentMethod:
		f.PaymentMethod = domain.PaymentMethod(value)
	case FieldCardNumber:
		f.CardNumber = value
	case FieldExpiryMonth:
		f.ExpiryMonth = value
	case FieldExpiryYear:
		f.ExpiryYear = value
	case FieldCVV:
		f.CVV = value
	case FieldCardHolderName:
		f.CardHolderName = value
	default:
		return fmt.Errorf("unknown checkout field %q", field)
	}

	delete(f.errors, field)
	return nil
}

// Check recomputes the error map for the whole form and reports whether it passed
func (f *Form) Check() bool {
	f.errors = Validate(f)
	return f.errors.Valid()
}

// Errors returns a copy of the errors from the last Check, minus fields edited since
func (f *Form) Errors() ValidationErrors {
	out := make(ValidationErrors, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}

// Payload builds the order body. Card fields are only included for credit cards.
func (f *Form) Payload() domain.OrderPayload {
	info := domain.PaymentInfo{Method: f.PaymentMethod}
	if f.PaymentMethod.RequiresCard() {
		info.CardNumber = f.CardNumber
		info.ExpiryMonth = f.ExpiryMonth
		info.ExpiryYear = f.ExpiryYear
		info.CVV = f.CVV
		info.CardHolderName = f.CardHolderName
	}

	return domain.OrderPayload{
		ShippingAddress: f.ShippingAddress,
		BillingAddress:  f.BillingAddress(),
		PaymentInfo:     info,
	}
}
