package notifications

import (
	"context"

	"backoffice/internal/domain/orders"
	"backoffice/internal/mailer"
)

var statusLabels = map[string]string{
	orders.StatusPending:    "รอดำเนินการ",
	orders.StatusConfirmed:  "ยืนยันแล้ว",
	orders.StatusProcessing: "กำลังเตรียมสินค้า",
	orders.StatusShipped:    "จัดส่งแล้ว",
	orders.StatusDelivered:  "ได้รับสินค้าแล้ว",
	orders.StatusCancelled:  "ยกเลิก",
}

func StatusLabel(status string) string {
	if l, ok := statusLabels[status]; ok {
		return l
	}
	return status
}

type orderStatusMail struct {
	Name        string
	OrderNumber string
	StatusLabel string
	Reason      string
}

func (s *Sender) SendOrderStatusNotification(ctx context.Context, o *orders.Order) error {
	if o.ContactEmail == nil || *o.ContactEmail == "" {
		return ErrNoContact
	}
	data := orderStatusMail{
		Name:        displayName(o),
		OrderNumber: o.OrderNumber,
		StatusLabel: StatusLabel(o.Status),
	}
	if o.CancelledReason != nil && o.Status == orders.StatusCancelled {
		data.Reason = *o.CancelledReason
	}
	return s.mail.Send(mailer.OrderStatusTemplate, data.Name, *o.ContactEmail, data)
}

func (s *Sender) NotifyOrderStatus(ctx context.Context, o *orders.Order) <-chan struct{} {
	return s.Go(ctx, "order status "+o.Status, func(ctx context.Context) error {
		return s.SendOrderStatusNotification(ctx, o)
	})
}
