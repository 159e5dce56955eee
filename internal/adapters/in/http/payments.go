package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"parcelbridge/internal/core/application/usecases/commands"
	"parcelbridge/internal/core/domain/model/kernel"
	"parcelbridge/internal/core/domain/model/payment"

	"github.com/labstack/echo/v4"
)

const (
	SignatureHeader = "X-Razorpay-Signature"

	maxWebhookBody = 1 << 20
)

type razorpayWebhook struct {
	Event   string `json:"event"`
	Payload struct {
		Payment *struct {
			Entity razorpayPayment `json:"entity"`
		} `json:"payment"`
		Order *struct {
			Entity razorpayOrder `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

type razorpayPayment struct {
	ID               string          `json:"id"`
	OrderID          string          `json:"order_id"`
	Amount           int64           `json:"amount"`
	Currency         string          `json:"currency"`
	Method           string          `json:"method"`
	ErrorDescription string          `json:"error_description"`
	Notes            json.RawMessage `json:"notes"`
}

type razorpayOrder struct {
	ID       string          `json:"id"`
	Amount   int64           `json:"amount"`
	Currency string          `json:"currency"`
	Notes    json.RawMessage `json:"notes"`
}

type WebhookAck struct {
	Status            string `json:"status"`
	TransactionStatus string `json:"transactionStatus,omitempty"`
}

type CheckoutVerification struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

type CheckoutVerified struct {
	Verified bool `json:"verified"`
}

// RazorpayWebhook handles POST /api/webhooks/razorpay.
//
// The signature is checked over the raw body before anything is parsed, so an
// unsigned or tampered delivery never reaches the database.
func (s *Server) RazorpayWebhook(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		return badRequest(c, "unable to read body")
	}

	if !validSignature(s.webhookSecret, body, c.Request().Header.Get(SignatureHeader)) {
		s.metrics.WebhookEvent("unknown", "unauthorized")
		s.logger.WarnContext(c.Request().Context(), "webhook signature rejected", "remote_ip", c.RealIP())
		return c.JSON(http.StatusUnauthorized, Error{Code: http.StatusUnauthorized, Message: "invalid signature"})
	}

	var hook razorpayWebhook
	if err = json.Unmarshal(body, &hook); err != nil {
		s.metrics.WebhookEvent("unknown", "malformed")
		return badRequest(c, "malformed webhook payload")
	}

	eventType := payment.EventType(hook.Event)
	if !eventType.IsSupported() {
		s.metrics.WebhookEvent(hook.Event, "ignored")
		return c.JSON(http.StatusOK, WebhookAck{Status: "ignored"})
	}

	event := hook.toEvent(eventType)
	if strings.TrimSpace(event.OrderID) == "" {
		s.metrics.WebhookEvent(hook.Event, "malformed")
		return badRequest(c, "order id is missing")
	}

	cmd, err := commands.NewProcessPaymentEventCommand(event)
	if err != nil {
		s.metrics.WebhookEvent(hook.Event, "malformed")
		return s.fail(c, err)
	}

	status, err := s.h.ProcessPaymentEvent.Handle(c.Request().Context(), cmd)
	if err != nil {
		s.metrics.WebhookEvent(hook.Event, "error")
		return s.fail(c, err)
	}

	s.metrics.WebhookEvent(hook.Event, "processed")
	return c.JSON(http.StatusOK, WebhookAck{Status: "ok", TransactionStatus: string(status)})
}

// VerifyCheckout handles POST /api/payments/verify. Checkout signs
// "order_id|payment_id" with the key secret.
func (s *Server) VerifyCheckout(c echo.Context) error {
	var req CheckoutVerification
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if req.OrderID == "" || req.PaymentID == "" || req.Signature == "" {
		return badRequest(c, "razorpay_order_id, razorpay_payment_id and razorpay_signature are required")
	}

	payload := []byte(req.OrderID + "|" + req.PaymentID)
	return c.JSON(http.StatusOK, CheckoutVerified{Verified: validSignature(s.checkoutSecret, payload, req.Signature)})
}

// toEvent prefers the payment entity and falls back to the order entity for
// order-level events.
func (w razorpayWebhook) toEvent(t payment.EventType) payment.Event {
	event := payment.Event{Type: t}

	var notes json.RawMessage
	if w.Payload.Payment != nil {
		p := w.Payload.Payment.Entity
		event.OrderID = p.OrderID
		event.PaymentID = p.ID
		event.AmountPaise = p.Amount
		event.Currency = p.Currency
		event.Method = p.Method
		notes = p.Notes
		if t == payment.EventPaymentFailed {
			event.FailureReason = p.ErrorDescription
		}
	}
	if w.Payload.Order != nil {
		o := w.Payload.Order.Entity
		if event.OrderID == "" {
			event.OrderID = o.ID
		}
		if event.AmountPaise == 0 {
			event.AmountPaise = o.Amount
		}
		if event.Currency == "" {
			event.Currency = o.Currency
		}
		if len(notes) == 0 {
			notes = o.Notes
		}
	}
	event.UserID = userFromNotes(notes)

	return event
}

// userFromNotes reads notes.user_id. Razorpay sends an empty array instead of
// an object when there are no notes.
func userFromNotes(raw json.RawMessage) *kernel.UUID {
	if len(raw) == 0 {
		return nil
	}
	var notes map[string]any
	if err := json.Unmarshal(raw, &notes); err != nil {
		return nil
	}
	v, ok := notes["user_id"].(string)
	if !ok {
		return nil
	}
	id, err := kernel.UUIDFromString(v)
	if err != nil {
		return nil
	}
	return &id
}

func sign(secret, payload []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func validSignature(secret, payload []byte, signature string) bool {
	signature = strings.ToLower(strings.TrimSpace(signature))
	if len(secret) == 0 || signature == "" {
		return false
	}
	return hmac.Equal([]byte(sign(secret, payload)), []byte(signature))
}
