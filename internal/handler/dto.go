package handler

import (
	"time"

	"github.com/dkurganov/lavka/internal/domain"
)

// ProductResponse is the JSON shape of a product.
type ProductResponse struct {
	ID                 string    `json:"id"`
	CategoryID         string    `json:"category_id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	PriceCents         int64     `json:"price_cents"`
	OriginalPriceCents int64     `json:"original_price_cents,omitempty"`
	Price              string    `json:"price"`
	Stock              int32     `json:"stock"`
	IsActive           bool      `json:"is_active"`
	ImageURL           string    `json:"image_url,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// NewProductResponse maps a domain product.
func NewProductResponse(p domain.Product) ProductResponse {
	return ProductResponse{
		ID:                 p.ID.String(),
		CategoryID:         p.CategoryID.String(),
		Name:               p.Name,
		Description:        p.Description,
		PriceCents:         p.PriceCents,
		OriginalPriceCents: p.OriginalPriceCents,
		Price:              domain.FormatRub(p.PriceCents),
		Stock:              p.Stock,
		IsActive:           p.IsActive,
		ImageURL:           p.ImageURL,
		CreatedAt:          p.CreatedAt,
	}
}

// NewProductListResponse maps a slice of domain products.
func NewProductListResponse(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = NewProductResponse(p)
	}
	return out
}

// CategoryResponse is the JSON shape of a category.
type CategoryResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// NewCategoryResponse maps a domain category.
func NewCategoryResponse(c domain.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID.String(), Name: c.Name, Slug: c.Slug}
}

// CartLineResponse is the JSON shape of one cart line.
type CartLineResponse struct {
	ProductID      string `json:"product_id"`
	ProductName    string `json:"product_name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	UnitPrice      string `json:"unit_price"`
	Quantity       int32  `json:"quantity"`
	LineSubtotal   int64  `json:"line_subtotal_cents"`
	ImageURL       string `json:"image_url,omitempty"`
}

// CartSummaryResponse is the JSON shape of a cart summary.
type CartSummaryResponse struct {
	Lines         []CartLineResponse `json:"lines"`
	SubtotalCents int64              `json:"subtotal_cents"`
	Subtotal      string             `json:"subtotal"`
	ItemCount     int                `json:"item_count"`
}

// NewCartSummaryResponse maps a domain cart summary.
func NewCartSummaryResponse(s *domain.CartSummary) CartSummaryResponse {
	lines := make([]CartLineResponse, len(s.Lines))
	for i, line := range s.Lines {
		lines[i] = CartLineResponse{
			ProductID:      line.ProductID.String(),
			ProductName:    line.ProductName,
			UnitPriceCents: line.UnitPriceCents,
			UnitPrice:      domain.FormatRub(line.UnitPriceCents),
			Quantity:       line.Quantity,
			LineSubtotal:   line.LineSubtotal,
			ImageURL:       line.ImageURL,
		}
	}
	return CartSummaryResponse{
		Lines:         lines,
		SubtotalCents: s.SubtotalCents,
		Subtotal:      domain.FormatRub(s.SubtotalCents),
		ItemCount:     s.ItemCount,
	}
}

// OrderItemResponse is the JSON shape of an order item snapshot.
type OrderItemResponse struct {
	ProductID         string `json:"product_id"`
	ProductName       string `json:"product_name"`
	ProductPriceCents int64  `json:"product_price_cents"`
	Quantity          int32  `json:"quantity"`
	TotalPriceCents   int64  `json:"total_price_cents"`
}

// OrderResponse is the JSON shape of an order.
type OrderResponse struct {
	ID               string              `json:"id"`
	OrderNumber      string              `json:"order_number"`
	Status           string              `json:"status"`
	PaymentStatus    string              `json:"payment_status"`
	PaymentMethod    string              `json:"payment_method"`
	CustomerName     string              `json:"customer_name"`
	CustomerEmail    string              `json:"customer_email"`
	CustomerPhone    string              `json:"customer_phone"`
	ShippingAddress  string              `json:"shipping_address"`
	TotalAmountCents int64               `json:"total_amount_cents"`
	TotalAmount      string              `json:"total_amount"`
	CreatedAt        time.Time           `json:"created_at"`
	Items            []OrderItemResponse `json:"items,omitempty"`
}

// NewOrderResponse maps a domain order without items.
func NewOrderResponse(o domain.Order) OrderResponse {
	return OrderResponse{
		ID:               o.ID.String(),
		OrderNumber:      o.OrderNumber,
		Status:           o.Status,
		PaymentStatus:    o.PaymentStatus,
		PaymentMethod:    o.PaymentMethod,
		CustomerName:     o.CustomerName,
		CustomerEmail:    o.CustomerEmail,
		CustomerPhone:    o.CustomerPhone,
		ShippingAddress:  o.ShippingAddress,
		TotalAmountCents: o.TotalAmountCents,
		TotalAmount:      domain.FormatRub(o.TotalAmountCents),
		CreatedAt:        o.CreatedAt,
	}
}

// NewOrderDetailResponse maps a domain order with its item snapshots.
func NewOrderDetailResponse(d *domain.OrderDetail) OrderResponse {
	resp := NewOrderResponse(d.Order)
	resp.Items = make([]OrderItemResponse, len(d.Items))
	for i, item := range d.Items {
		resp.Items[i] = OrderItemResponse{
			ProductID:         item.ProductID.String(),
			ProductName:       item.ProductName,
			ProductPriceCents: item.ProductPriceCents,
			Quantity:          item.Quantity,
			TotalPriceCents:   item.TotalPriceCents,
		}
	}
	return resp
}
