// Package events carries domain notifications (sales, purchases, stock
// alerts) to the websocket feed and, when configured, to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go-sales-desk/internal/ws"

	"go.uber.org/zap"
)

// Routing keys
const (
	SaleRecorded     = "sale.recorded"
	PurchaseRecorded = "purchase.recorded"
	StockLow         = "stock.low"
	ProductCreated   = "product.created"
	ProductUpdated   = "product.updated"
	ProductDeleted   = "product.deleted"
	CustomerCreated  = "customer.created"
	CustomerUpdated  = "customer.updated"
	CustomerDeleted  = "customer.deleted"
	UserStatus       = "user.status"
)

// Actor identifies who triggered an event
type Actor struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type Event struct {
	Type       string      `json:"type"`
	Message    string      `json:"message,omitempty"`
	Payload    interface{} `json:"payload,omitempty"`
	User       *Actor      `json:"user,omitempty"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// New stamps an event with the current time
func New(eventType string, payload interface{}, actor *Actor, message string) Event {
	return Event{
		Type:       eventType,
		Message:    message,
		Payload:    payload,
		User:       actor,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// HubPublisher pushes events to every websocket client
type HubPublisher struct {
	hub *ws.Hub
}

func NewHubPublisher(hub *ws.Hub) *HubPublisher {
	return &HubPublisher{hub: hub}
}

func (p *HubPublisher) Publish(_ context.Context, evt Event) error {
	msg, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	p.hub.Send(msg)
	return nil
}

// Multi fans out to several publishers. A failing sink is logged and
// does not stop delivery to the others.
type Multi struct {
	publishers []Publisher
	log        *zap.Logger
}

func NewMulti(log *zap.Logger, publishers ...Publisher) *Multi {
	if log == nil {
		log = zap.NewNop()
	}
	var active []Publisher
	for _, p := range publishers {
		if p != nil {
			active = append(active, p)
		}
	}
	return &Multi{publishers: active, log: log}
}

func (m *Multi) Publish(ctx context.Context, evt Event) error {
	var errs []error
	for _, p := range m.publishers {
		if err := p.Publish(ctx, evt); err != nil {
			m.log.Warn("event publish failed", zap.String("type", evt.Type), zap.Error(err))
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
