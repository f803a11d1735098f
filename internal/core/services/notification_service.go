package services

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"text/template"
	"time"

	"mfi-backoffice/internal/adapters/persistence/models"
	"mfi-backoffice/internal/config"
	"mfi-backoffice/internal/core/domain"
	"mfi-backoffice/internal/pkg/money"

	"github.com/wneessen/go-mail"
)

const (
	sendAttempts = 3
	smtpTimeout  = 10 * time.Second
)

var decisionSubject = template.Must(template.New("subject").Parse(
	`Your loan application #{{.ID}} has been {{.Status}}`))

var decisionBody = template.Must(template.New("body").Parse(`Dear {{.FullName}},

Your application for a {{.Product}} of {{.Amount}} over {{.Tenure}} months has been {{.Status}}.
{{if .Approved}}
A loan officer will contact you shortly to arrange disbursement.
{{else}}
You are welcome to apply again or contact your branch for more information.
{{end}}
Reference: #{{.ID}}
`))

// MailClient sends prepared messages
type MailClient interface {
	DialAndSend(...*mail.Msg) error
}

// NewSMTPClient builds a go-mail client from the SMTP settings
func NewSMTPClient(cfg config.MailConfig) (*mail.Client, error) {
	opts := []mail.Option{
		mail.WithTimeout(smtpTimeout),
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}
	return mail.NewClient(cfg.Host, opts...)
}

// NotificationService emails applicants when their application is decided
type NotificationService struct {
	client     MailClient
	from       string
	retryDelay time.Duration
}

// NewNotificationService creates a new notification service
func NewNotificationService(client MailClient, from string, retryDelay time.Duration) *NotificationService {
	return &NotificationService{
		client:     client,
		from:       from,
		retryDelay: retryDelay,
	}
}

type decisionData struct {
	ID       uint
	FullName string
	Product  string
	Amount   string
	Tenure   int
	Status   string
	Approved bool
}

// NotifyDecision sends the approval or rejection email for app
func (s *NotificationService) NotifyDecision(ctx context.Context, app *models.LoanApplication) error {
	data := decisionData{
		ID:       app.ID,
		FullName: app.FullName,
		Product:  app.Product.ProductName,
		Amount:   money.Format(app.LoanAmount),
		Tenure:   app.Tenure,
		Status:   string(app.Status),
		Approved: app.Status == domain.StatusApproved,
	}

	msg, err := s.buildMessage(app.Email, data)
	if err != nil {
		return err
	}

	for i := 1; i <= sendAttempts; i++ {
		if err = s.client.DialAndSend(msg); err == nil {
			log.Printf("✅ Decision email sent for application #%d", app.ID)
			return nil
		}
		if i == sendAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.retryDelay):
		}
	}
	return fmt.Errorf("send decision email: %w", err)
}

func (s *NotificationService) buildMessage(recipient string, data decisionData) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.To(recipient); err != nil {
		return nil, err
	}
	if err := msg.From(s.from); err != nil {
		return nil, err
	}

	subject := new(bytes.Buffer)
	if err := decisionSubject.Execute(subject, data); err != nil {
		return nil, err
	}
	msg.Subject(subject.String())

	body := new(bytes.Buffer)
	if err := decisionBody.Execute(body, data); err != nil {
		return nil, err
	}
	msg.SetBodyString(mail.TypeTextPlain, body.String())
	return msg, nil
}
