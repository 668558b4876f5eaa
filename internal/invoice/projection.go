// Package invoice derives read-only documents from final order state. It
// consumes order and modification data and never writes anything back.
package invoice

import (
	"fmt"
	"time"

	"github.com/retailops/order-workflow/internal/orders"
)

// Line is a rendered invoice line with its extended total.
type Line struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

// ModificationEntry summarizes one request and its outcome for the document.
type ModificationEntry struct {
	RequestID    string     `json:"request_id"`
	Description  string     `json:"description"`
	Status       string     `json:"status"`
	RequestDate  time.Time  `json:"request_date"`
	ResponseDate *time.Time `json:"response_date,omitempty"`
	ResponseText string     `json:"response_text,omitempty"`
}

// Projection is the static invoice document.
type Projection struct {
	InvoiceNumber string              `json:"invoice_number"`
	OrderID       string              `json:"order_id"`
	IssuedAt      time.Time           `json:"issued_at"`
	Status        string              `json:"status"`
	PaymentStatus string              `json:"payment_status"`
	Lines         []Line              `json:"lines"`
	Subtotal      float64             `json:"subtotal"`
	ShippingCost  float64             `json:"shipping_cost"`
	InsuranceCost float64             `json:"insurance_cost"`
	Total         float64             `json:"total"`
	Modifications []ModificationEntry `json:"modifications,omitempty"`
	CancelReason  string              `json:"cancel_reason,omitempty"`
	CancelDate    *time.Time          `json:"cancel_date,omitempty"`
}

// Build renders the projection for an order. Pure: the order is only read.
func Build(o *orders.Order, issuedAt time.Time) Projection {
	p := Projection{
		InvoiceNumber: fmt.Sprintf("INV-%s", o.ID),
		OrderID:       o.ID,
		IssuedAt:      issuedAt,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		ShippingCost:  o.ShippingCost,
		InsuranceCost: o.InsuranceCost,
		Total:         o.Total,
		CancelReason:  o.CancelReason,
		CancelDate:    o.CancelDate,
	}

	for _, it := range o.Items {
		line := Line{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			LineTotal: float64(it.Quantity) * it.UnitPrice,
		}
		p.Subtotal += line.LineTotal
		p.Lines = append(p.Lines, line)
	}

	for _, m := range o.Modifications {
		p.Modifications = append(p.Modifications, ModificationEntry{
			RequestID:    m.ID,
			Description:  m.Description,
			Status:       string(m.Status),
			RequestDate:  m.RequestDate,
			ResponseDate: m.ResponseDate,
			ResponseText: m.ResponseText,
		})
	}

	return p
}
