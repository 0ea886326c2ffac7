package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wneessen/go-mail"
)

// Config holds SMTP relay configuration
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	TLS      string // none, opportunistic, mandatory
	Timeout  time.Duration
}

// Message is one outgoing email with a plain text body and an optional
// HTML alternative
type Message struct {
	To      string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Mailer delivers messages through an SMTP relay
type Mailer struct {
	config *Config
	logger *slog.Logger
}

// New creates a Mailer
func New(config *Config, logger *slog.Logger) (*Mailer, error) {
	if config.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	if config.From == "" {
		return nil, errors.New("sender address is required")
	}
	if _, err := tlsPolicy(config.TLS); err != nil {
		return nil, err
	}
	return &Mailer{config: config, logger: logger}, nil
}

// Send builds msg and delivers it in one SMTP session
func (m *Mailer) Send(ctx context.Context, msg *Message) error {
	built, err := m.build(msg)
	if err != nil {
		return err
	}

	client, err := m.client()
	if err != nil {
		return err
	}

	if err := client.DialAndSendWithContext(ctx, built); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	m.logger.Info("Email sent",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)
	return nil
}

func (m *Mailer) build(msg *Message) (*mail.Msg, error) {
	if msg.To == "" {
		return nil, errors.New("recipient is required")
	}

	out := mail.NewMsg()
	if m.config.FromName != "" {
		if err := out.FromFormat(m.config.FromName, m.config.From); err != nil {
			return nil, fmt.Errorf("invalid sender: %w", err)
		}
	} else if err := out.From(m.config.From); err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	if err := out.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := out.ReplyTo(msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("invalid reply-to: %w", err)
		}
	}

	out.Subject(msg.Subject)
	out.SetDate()
	out.SetMessageID()
	out.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		out.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}

	return out, nil
}

func (m *Mailer) client() (*mail.Client, error) {
	policy, _ := tlsPolicy(m.config.TLS)

	opts := []mail.Option{
		mail.WithPort(m.config.Port),
		mail.WithTLSPolicy(policy),
	}
	if m.config.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(m.config.Timeout))
	}
	if m.config.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.config.Username),
			mail.WithPassword(m.config.Password),
		)
	}

	client, err := mail.NewClient(m.config.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return client, nil
}

func tlsPolicy(name string) (mail.TLSPolicy, error) {
	switch name {
	case "", "opportunistic":
		return mail.TLSOpportunistic, nil
	case "mandatory":
		return mail.TLSMandatory, nil
	case "none":
		return mail.NoTLS, nil
	default:
		return mail.NoTLS, fmt.Errorf("unknown smtp tls policy %q", name)
	}
}
