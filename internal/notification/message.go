package notification

import (
	"fmt"
	"time"
)

const KindPasswordReset = "password_reset"

// Message is an outbound e-mail as carried on the notifications topic.
type Message struct {
	Kind      string    `json:"kind"`
	To        string    `json:"to"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func NewPasswordResetMessage(to, link string) Message {
	return Message{
		Kind:    KindPasswordReset,
		To:      to,
		Subject: "Password reset request",
		Body: fmt.Sprintf(
			"We received a request to reset your password.\n\nOpen the link below to choose a new one:\n%s\n\nIf you did not ask for this, you can ignore this e-mail.\n",
			link,
		),
		CreatedAt: time.Now().UTC(),
	}
}
