package domain

// CustomerInfo carries the customer and shipping fields submitted at
// checkout. Validation tags are enforced by the checkout service before any
// product row is touched.
type CustomerInfo struct {
	Name    string `json:"name" validate:"required,min=2,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required,min=5,max=32"`
	Address string `json:"address" validate:"required,min=5,max=500"`
}

// CheckoutParams is the single checkout entry point's input.
type CheckoutParams struct {
	Customer       CustomerInfo
	PaymentMethod  string
	IdempotencyKey string
}
