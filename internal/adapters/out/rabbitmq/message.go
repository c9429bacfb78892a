package rabbitmq

import (
	"time"

	"restaurant/internal/core/domain/model/order"
)

// OrderMessage is the JSON body of every order event.
type OrderMessage struct {
	Event         string        `json:"event"`
	OrderID       string        `json:"order_id"`
	OrderNumber   string        `json:"order_number"`
	Kind          string        `json:"kind"`
	Status        string        `json:"status"`
	CustomerName  string        `json:"customer_name,omitempty"`
	CustomerPhone string        `json:"customer_phone"`
	TableNumber   *int          `json:"table_number,omitempty"`
	Address       string        `json:"address,omitempty"`
	Items         []ItemMessage `json:"items"`
	TotalCents    int64         `json:"total_cents"`
	PaymentMethod string        `json:"payment_method"`
	PrepMinutes   int           `json:"prep_minutes"`
	OccurredAt    time.Time     `json:"occurred_at"`
}

type ItemMessage struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Note     string `json:"note,omitempty"`
}

const (
	eventCreated       = "order.created"
	eventStatusChanged = "order.status"
)

func newOrderMessage(event string, o *order.Order) OrderMessage {
	msg := OrderMessage{
		Event:         event,
		OrderID:       o.ID().String(),
		OrderNumber:   o.Number(),
		Kind:          o.Kind().String(),
		Status:        o.Status().String(),
		CustomerName:  o.Customer().Name(),
		CustomerPhone: o.Customer().Phone().String(),
		Items:         make([]ItemMessage, 0, len(o.Items())),
		TotalCents:    o.Total().Cents(),
		PaymentMethod: o.PaymentMethod().String(),
		PrepMinutes:   o.PrepMinutes(),
		OccurredAt:    o.UpdatedAt().UTC(),
	}
	if number, ok := o.TableNumber(); ok {
		msg.TableNumber = &number
	}
	if addr := o.Customer().Address(); addr != nil {
		msg.Address = addr.Format()
	}
	for _, item := range o.Items() {
		msg.Items = append(msg.Items, ItemMessage{Name: item.Name(), Quantity: item.Quantity(), Note: item.Note()})
	}
	return msg
}

// routingKey is order.created.<kind> or order.status.<status>.
func routingKey(event string, o *order.Order) string {
	if event == eventCreated {
		return event + "." + o.Kind().String()
	}
	return event + "." + o.Status().String()
}
