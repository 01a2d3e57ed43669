package notification

import (
	"context"

	"github.com/wneessen/go-mail"
)

func (n *SMTPNotifier) SetSend(fn func(ctx context.Context, m *mail.Msg) error) {
	n.send = fn
}
