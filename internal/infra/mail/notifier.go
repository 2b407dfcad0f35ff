// Package mail sends order confirmations over plain SMTP.
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/shopspring/decimal"

	domorder "example.com/loja/internal/domain/order"
	domprice "example.com/loja/internal/domain/pricing"
)

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

type Config struct {
	Addr     string
	From     string
	Username string
	Password string
}

type Notifier struct {
	cfg   Config
	money func(decimal.Decimal) string
	send  sendFunc
}

func NewNotifier(cfg Config, money func(decimal.Decimal) string) *Notifier {
	if money == nil {
		money = func(d decimal.Decimal) string { return d.StringFixed(2) }
	}
	return &Notifier{cfg: cfg, money: money, send: smtp.SendMail}
}

func (n *Notifier) OrderPlaced(ctx context.Context, o *domorder.Order) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	to := strings.TrimSpace(o.Customer.Email)
	if to == "" {
		return fmt.Errorf("order %s has no customer email", o.ID)
	}

	var auth smtp.Auth
	if n.cfg.Username != "" {
		host := n.cfg.Addr
		if i := strings.LastIndex(host, ":"); i >= 0 {
			host = host[:i]
		}
		auth = smtp.PlainAuth("", n.cfg.Username, n.cfg.Password, host)
	}

	if err := n.send(n.cfg.Addr, auth, n.cfg.From, []string{to}, n.message(to, o)); err != nil {
		return fmt.Errorf("send confirmation for order %s: %w", o.ID, err)
	}
	return nil
}

func (n *Notifier) message(to string, o *domorder.Order) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", n.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: Pedido %s recebido\r\n", o.ID)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "Olá %s,\r\n\r\n", o.Customer.Name)
	fmt.Fprintf(&b, "Recebemos seu pedido %s.\r\n\r\n", o.ID)
	for _, item := range o.Items {
		fmt.Fprintf(&b, "%d x %s  %s\r\n", item.Quantity, item.Name,
			n.money(domprice.LineTotal(item.Price, item.Quantity)))
	}
	b.WriteString("\r\n")
	fmt.Fprintf(&b, "Subtotal: %s\r\n", n.money(o.Totals.Subtotal))
	fmt.Fprintf(&b, "Frete: %s\r\n", n.money(o.Totals.Shipping))
	fmt.Fprintf(&b, "Total: %s\r\n", n.money(o.Totals.Total))
	return []byte(b.String())
}
