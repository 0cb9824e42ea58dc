package notify

import (
	"context"
	"log"
)

// Mailer es el colaborador externo que entrega el correo. El núcleo solo
// produce los campos y los links; plantilla y entrega viven del otro lado.
type Mailer interface {
	Send(ctx context.Context, msg EmailMessage) error
}

type EmailMessage struct {
	To      string
	ToName  string
	Subject string
	Body    string
	HTML    string
}

// LogMailer es el fallback de desarrollo: imprime en vez de enviar.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, msg EmailMessage) error {
	log.Printf("notify: (dev) correo a %s asunto=%q", msg.To, msg.Subject)
	return nil
}
