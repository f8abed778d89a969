package messaging

import (
	"time"

	"storefront/internal/domain/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventsExchange             = "storefront.events"
	OrderSubmittedRoutingKey   = "order.submitted.v1"
	orderSubmittedEventType    = "OrderSubmitted"
	orderSubmittedEventVersion = 1
	producerName               = "storefront-api"
)

type Envelope struct {
	EventID    string    `json:"eventId"`
	EventType  string    `json:"eventType"`
	Version    int       `json:"version"`
	Producer   string    `json:"producer"`
	OccurredAt time.Time `json:"occurredAt"`
	Payload    any       `json:"payload"`
}

type OrderSubmittedItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
	Quantity  int64           `json:"quantity"`
}

type OrderSubmitted struct {
	OrderID        string               `json:"orderId"`
	SessionID      string               `json:"sessionId"`
	Email          string               `json:"email"`
	DiscountCode   string               `json:"discountCode,omitempty"`
	Subtotal       decimal.Decimal      `json:"subtotal"`
	DiscountAmount decimal.Decimal      `json:"discountAmount"`
	VAT            decimal.Decimal      `json:"vat"`
	Total          decimal.Decimal      `json:"total"`
	Items          []OrderSubmittedItem `json:"items"`
}

func newOrderSubmitted(order model.Order, items []model.OrderItem, now time.Time) Envelope {
	payload := OrderSubmitted{
		OrderID:        order.ID,
		SessionID:      order.SessionID,
		Email:          order.Email,
		DiscountCode:   order.DiscountCode,
		Subtotal:       order.Subtotal,
		DiscountAmount: order.DiscountAmount,
		VAT:            order.VAT,
		Total:          order.Total,
		Items:          make([]OrderSubmittedItem, 0, len(items)),
	}
	for _, it := range items {
		payload.Items = append(payload.Items, OrderSubmittedItem{
			ProductID: it.ProductID,
			Name:      it.ProductNameSnapshot,
			UnitPrice: it.UnitPriceSnapshot,
			Quantity:  it.Quantity,
		})
	}

	return Envelope{
		EventID:    uuid.NewString(),
		EventType:  orderSubmittedEventType,
		Version:    orderSubmittedEventVersion,
		Producer:   producerName,
		OccurredAt: now.UTC(),
		Payload:    payload,
	}
}
