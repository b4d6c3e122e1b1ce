package mailer

import (
	"embed"
	"errors"
)

const (
	FromName                = "ร้านค้าออนไลน์"
	maxRetires              = 3
	PaymentVerifiedTemplate = "payment_verified.tmpl"
	PaymentRejectedTemplate = "payment_rejected.tmpl"
	OrderStatusTemplate     = "order_status.tmpl"
)

//go:embed "templates"
var FS embed.FS

var ErrNoRecipient = errors.New("mailer: recipient email is empty")

type Client interface {
	Send(templateFile, username, email string, data any) error
}
