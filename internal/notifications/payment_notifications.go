package notifications

import (
	"context"
	"errors"

	"backoffice/internal/domain/orders"
	"backoffice/internal/domain/payments"
	"backoffice/internal/mailer"
)

type PaymentEvent string

const (
	PaymentVerified PaymentEvent = "VERIFIED"
	PaymentRejected PaymentEvent = "REJECTED"
)

var ErrNoContact = errors.New("order has no contact email")

type paymentMail struct {
	Name        string
	OrderNumber string
	Amount      string
	Reason      string
}

func (s *Sender) SendPaymentNotification(ctx context.Context, event PaymentEvent, o *orders.Order, p *payments.Payment) error {
	if o.ContactEmail == nil || *o.ContactEmail == "" {
		return ErrNoContact
	}

	data := paymentMail{
		Name:        displayName(o),
		OrderNumber: o.OrderNumber,
		Amount:      p.Amount.StringFixed(2),
	}

	var tmpl string
	switch event {
	case PaymentVerified:
		tmpl = mailer.PaymentVerifiedTemplate
	case PaymentRejected:
		tmpl = mailer.PaymentRejectedTemplate
		if p.RejectionReason != nil {
			data.Reason = *p.RejectionReason
		}
	default:
		return errors.New("unknown payment event")
	}

	return s.mail.Send(tmpl, data.Name, *o.ContactEmail, data)
}

// NotifyPayment is SendPaymentNotification on a background goroutine.
func (s *Sender) NotifyPayment(ctx context.Context, event PaymentEvent, o *orders.Order, p *payments.Payment) <-chan struct{} {
	return s.Go(ctx, "payment "+string(event), func(ctx context.Context) error {
		return s.SendPaymentNotification(ctx, event, o, p)
	})
}

func displayName(o *orders.Order) string {
	if o.CustomerName != nil && *o.CustomerName != "" {
		return *o.CustomerName
	}
	return "ลูกค้า"
}
