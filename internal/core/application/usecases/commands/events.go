package commands

import (
	"context"
	"log/slog"
	"time"
)

// Event subjects, relative to the publisher's prefix.
const (
	SubjectParcelAccepted      = "parcel.accepted"
	SubjectParcelStatusChanged = "parcel.status_changed"
	SubjectPaymentPrefix       = "payment."
)

type ParcelAcceptedEvent struct {
	ParcelID   string    `json:"parcelId"`
	CarrierID  string    `json:"carrierId"`
	JourneyID  string    `json:"journeyId"`
	MatchType  string    `json:"matchType"`
	Confidence int       `json:"confidence"`
	OccurredAt time.Time `json:"occurredAt"`
}

type ParcelStatusChangedEvent struct {
	ParcelID   string    `json:"parcelId"`
	ActorID    string    `json:"actorId"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	OccurredAt time.Time `json:"occurredAt"`
}

type PaymentStatusEvent struct {
	OrderID     string    `json:"orderId"`
	PaymentID   string    `json:"paymentId,omitempty"`
	Status      string    `json:"status"`
	AmountPaise int64     `json:"amountPaise"`
	OccurredAt  time.Time `json:"occurredAt"`
}

type eventPublisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}

// publishAfterCommit sends an event for a state change that is already durable.
// A failed publish is logged and never undoes the change.
func publishAfterCommit(ctx context.Context, p eventPublisher, logger *slog.Logger, subject string, payload any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, subject, payload); err != nil {
		logger.WarnContext(ctx, "event publish failed", "subject", subject, "error", err)
	}
}

func loggerOrDefault(l *slog.Logger, component string) *slog.Logger {
	if l == nil {
		l = slog.Default()
	}
	return l.With("component", component)
}
