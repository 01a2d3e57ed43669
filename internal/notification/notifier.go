package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"
)

// Notifier delivers a message to its recipient.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(ctx context.Context, msg Message) error {
	n.logger.InfoContext(ctx, "notification",
		"kind", msg.Kind,
		"to", msg.To,
		"subject", msg.Subject,
		"created_at", msg.CreatedAt,
	)
	return nil
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPNotifier struct {
	cfg  SMTPConfig
	send func(ctx context.Context, m *mail.Msg) error
}

func NewSMTPNotifier(cfg SMTPConfig) (*SMTPNotifier, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	if err := mail.NewMsg().From(cfg.From); err != nil {
		return nil, fmt.Errorf("invalid from address %q: %w", cfg.From, err)
	}

	opts := []mail.Option{mail.WithTLSPolicy(mail.TLSOpportunistic)}
	if cfg.Port != 0 {
		opts = append(opts, mail.WithPort(cfg.Port))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	return &SMTPNotifier{
		cfg: cfg,
		send: func(ctx context.Context, m *mail.Msg) error {
			return client.DialAndSendWithContext(ctx, m)
		},
	}, nil
}

func (n *SMTPNotifier) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m, err := n.compose(msg)
	if err != nil {
		return err
	}
	if err := n.send(ctx, m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.To, err)
	}
	return nil
}

func (n *SMTPNotifier) compose(msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(n.cfg.From); err != nil {
		return nil, fmt.Errorf("invalid from address %q: %w", n.cfg.From, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}
	m.Subject(msg.Subject)
	m.SetDate()
	m.SetMessageID()
	m.SetBodyString(mail.TypeTextPlain, msg.Body)
	return m, nil
}
