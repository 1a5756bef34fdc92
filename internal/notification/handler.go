// Package notification turns order events into customer emails.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/example/gardenia/internal/domain/order"
	"github.com/example/gardenia/internal/email"
	"github.com/example/gardenia/internal/pdf"
)

// Mailer sends a fully assembled message.
type Mailer interface {
	Send(msg email.Message) error
}

// Handler consumes order events and sends the matching notification
// mails. Delivery is at-least-once; a resent confirmation is harmless.
type Handler struct {
	mailer Mailer
}

func NewHandler(mailer Mailer) *Handler {
	return &Handler{mailer: mailer}
}

// HandleEvent processes one event from the notification topic.
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var event order.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("unmarshal event: %w", err)
	}

	switch event.Type {
	case order.EventOrderCreated:
		return h.handleOrderCreated(event)
	case order.EventOrderStatusChanged:
		return h.handleStatusChanged(event)
	default:
		log.Printf("[Notifier] Ignoring event type %q", event.Type)
		return nil
	}
}

func (h *Handler) handleOrderCreated(event order.Event) error {
	var payload order.OrderCreated
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return fmt.Errorf("unmarshal order.created: %w", err)
	}
	if payload.UserEmail == "" {
		log.Printf("[Notifier] Order %s has no recipient, skipping", event.OrderID)
		return nil
	}

	msg := email.Message{
		To:      payload.UserEmail,
		Subject: fmt.Sprintf("Your Gardenia order %s", payload.Order.ID),
		Body:    email.BuildOrderConfirmationBody(payload.Order, payload.UserName),
	}

	receipt, err := pdf.GenerateReceipt(payload.Order, payload.UserName)
	if err != nil {
		// Still worth sending the confirmation without the attachment.
		log.Printf("[Notifier] Failed to render receipt for order %s: %v", payload.Order.ID, err)
	} else {
		msg.Attachments = append(msg.Attachments, email.Attachment{
			Filename:    fmt.Sprintf("receipt-%s.pdf", payload.Order.ID),
			ContentType: "application/pdf",
			Data:        receipt,
		})
	}

	if err := h.mailer.Send(msg); err != nil {
		return fmt.Errorf("send confirmation for order %s: %w", payload.Order.ID, err)
	}
	log.Printf("[Notifier] Sent order confirmation for %s to %s", payload.Order.ID, payload.UserEmail)
	return nil
}

func (h *Handler) handleStatusChanged(event order.Event) error {
	var payload order.OrderStatusChanged
	if err := json.Unmarshal(event.Data, &payload); err != nil {
		return fmt.Errorf("unmarshal order.status_changed: %w", err)
	}
	if payload.UserEmail == "" {
		log.Printf("[Notifier] Order %s has no recipient, skipping", event.OrderID)
		return nil
	}

	msg := email.Message{
		To:      payload.UserEmail,
		Subject: fmt.Sprintf("Order %s is now %s", payload.Order.ID, payload.NewStatus),
		Body:    email.BuildStatusUpdateBody(payload.Order, payload.UserName, payload.NewStatus),
	}
	if err := h.mailer.Send(msg); err != nil {
		return fmt.Errorf("send status update for order %s: %w", payload.Order.ID, err)
	}
	log.Printf("[Notifier] Sent status update for %s to %s", payload.Order.ID, payload.UserEmail)
	return nil
}
