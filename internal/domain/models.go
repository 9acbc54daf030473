package domain

import (
	"github.com/shopspring/decimal"
)

// Product is a catalog entry as served by the storefront backend
type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Title       string          `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Image       *string         `json:"image,omitempty"`
	CategoryID  int64           `json:"category_id,omitempty"`
	Rating      *float64        `json:"rating,omitempty"`
	Category    *Category       `json:"category,omitempty"`
}

// ProductPage is one page of the catalog listing
type ProductPage struct {
	Products    []Product `json:"products"`
	Total       int       `json:"total"`
	Pages       int       `json:"pages"`
	CurrentPage int       `json:"current_page"`
}

// Category groups products on the browsing pages
type Category struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// User is an account as listed on the admin dashboard
type User struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
}

// CartItem is one line of the user's cart. The backend owns it, we only read it.
type CartItem struct {
	ID       int64   `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// LineTotal returns price x quantity at full precision
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// AddToCartRequest is the body of POST /cart
type AddToCartRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// PaymentInfo is the payment section of an order. Card fields are only set for credit cards.
type PaymentInfo struct {
	Method         PaymentMethod `json:"method"`
	CardNumber     string        `json:"card_number,omitempty"`
	ExpiryMonth    string        `json:"expiry_month,omitempty"`
	ExpiryYear     string        `json:"expiry_year,omitempty"`
	CVV            string        `json:"cvv,omitempty"`
	CardHolderName string        `json:"card_holder_name,omitempty"`
}

// OrderPayload is the body of POST /orders
type OrderPayload struct {
	ShippingAddress string      `json:"shipping_address"`
	BillingAddress  string      `json:"billing_address"`
	PaymentInfo     PaymentInfo `json:"payment_info"`
}
