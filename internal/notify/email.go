package notify

import (
	"context"
	"crypto/tls"
	"fmt"

	mail "github.com/go-mail/mail"

	"github.com/nusarupa/nusarupa/internal/observability/logger"
)

// Email reenvía notificaciones de error por SMTP al correo del equipo admin.
// Los success no se mandan: solo interesan las fallas fuera de banda.
type Email struct {
	Host               string
	Port               int
	From               string
	To                 string
	User               string
	Pass               string
	InsecureSkipVerify bool // sólo dev
}

func (e *Email) Notify(ctx context.Context, n Notification) {
	if n.Level != LevelError {
		return
	}

	m := mail.NewMessage()
	m.SetHeader("From", e.From)
	m.SetHeader("To", e.To)
	m.SetHeader("Subject", fmt.Sprintf("[nusarupa] %s", n.Title))
	m.SetBody("text/plain", n.Message)

	d := mail.NewDialer(e.Host, e.Port, e.User, e.Pass)
	d.TLSConfig = &tls.Config{
		ServerName:         e.Host,
		InsecureSkipVerify: e.InsecureSkipVerify,
	}

	// Best-effort: una falla de SMTP jamás corta el flujo que notifica.
	if err := d.DialAndSend(m); err != nil {
		logger.From(ctx).Warn("email notification failed",
			logger.Component("notify.email"),
			logger.Err(err),
		)
	}
}

var _ Notifier = (*Email)(nil)

// Fanout reparte cada notificación a varios notifiers.
type Fanout []Notifier

func (f Fanout) Notify(ctx context.Context, n Notification) {
	for _, t := range f {
		t.Notify(ctx, n)
	}
}
