package service

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/wneessen/go-mail"

	"leoga-storefront/models"
)

//go:embed templates/contact_email.html
var contactEmailHTML string

var (
	contactEmailTemplate = template.Must(template.New("contact_email").Parse(contactEmailHTML))
	emailRegex           = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	headerLineBreaks     = strings.NewReplacer("\r", " ", "\n", " ")
)

// MailConfig holds SMTP settings
type MailConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	To       string
}

// Enabled reports whether enough settings are present to send mail
func (c MailConfig) Enabled() bool {
	return c.Host != "" && c.User != "" && c.To != ""
}

// MailSender delivers built messages; *mail.Client implements it
type MailSender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Ensure the go-mail client implements MailSender
var _ MailSender = (*mail.Client)(nil)

// MailService delivers contact form submissions over SMTP
type MailService struct {
	cfg    MailConfig
	sender MailSender
}

// NewMailService creates a new MailService.
// A nil sender dials cfg.Host with mandatory STARTTLS (implicit TLS on 465) on first use.
func NewMailService(cfg MailConfig, sender MailSender) *MailService {
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	return &MailService{cfg: cfg, sender: sender}
}

func (s *MailService) client() (MailSender, error) {
	if s.sender != nil {
		return s.sender, nil
	}
	port, err := strconv.Atoi(s.cfg.Port)
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP port %q: %w", s.cfg.Port, err)
	}

	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.User),
		mail.WithPassword(s.cfg.Password),
	}
	if port == 465 {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}
	s.sender = client
	return client, nil
}

// ValidateContact checks the required fields and the email format
func ValidateContact(req models.ContactRequest) error {
	fields := []struct{ name, value string }{
		{"name", req.Name},
		{"email", req.Email},
		{"subject", req.Subject},
		{"message", req.Message},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.name, Message: "All fields are required"}
		}
	}
	if !emailRegex.MatchString(req.Email) {
		return &ValidationError{Field: "email", Message: "Invalid email format"}
	}
	return nil
}

// SendContact validates and sends a contact form submission
func (s *MailService) SendContact(ctx context.Context, req models.ContactRequest) error {
	if err := ValidateContact(req); err != nil {
		return err
	}
	if !s.cfg.Enabled() {
		return ErrMailDisabled
	}

	msg, err := s.BuildMessage(req)
	if err != nil {
		return err
	}
	sender, err := s.client()
	if err != nil {
		return err
	}

	if err := sender.DialAndSendWithContext(ctx, msg); err != nil {
		log.Printf("❌ Error sending contact email: %v", err)
		contactMessages.WithLabelValues("failed").Inc()
		return fmt.Errorf("failed to send email: %w", err)
	}

	contactMessages.WithLabelValues("sent").Inc()
	log.Printf("✅ Contact email sent for %s", req.Email)
	return nil
}

// renderContactBodies returns the plain text and HTML bodies of a submission
func renderContactBodies(req models.ContactRequest) (string, string, error) {
	var html bytes.Buffer
	data := struct {
		models.ContactRequest
		Lines []string
	}{req, strings.Split(req.Message, "\n")}
	if err := contactEmailTemplate.Execute(&html, data); err != nil {
		return "", "", fmt.Errorf("failed to render email: %w", err)
	}

	text := fmt.Sprintf("New Contact Form Submission\n\nName: %s\nEmail: %s\nSubject: %s\n\nMessage:\n%s\n\n---\nThis email was sent from the leoga contact form.\n",
		req.Name, req.Email, req.Subject, req.Message)
	return text, html.String(), nil
}

// BuildMessage assembles the multipart/alternative email for a submission.
// Headers are RFC 2047 encoded by go-mail, so non-ASCII subjects stay valid.
func (s *MailService) BuildMessage(req models.ContactRequest) (*mail.Msg, error) {
	text, html, err := renderContactBodies(req)
	if err != nil {
		return nil, err
	}

	msg := mail.NewMsg()
	if err := msg.From(s.cfg.User); err != nil {
		return nil, fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(s.cfg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address: %w", err)
	}
	if err := msg.ReplyTo(req.Email); err != nil {
		return nil, &ValidationError{Field: "email", Message: "Invalid email format"}
	}
	msg.Subject("Contact Form: " + headerLineBreaks.Replace(req.Subject))
	msg.SetBodyString(mail.TypeTextPlain, text)
	msg.AddAlternativeString(mail.TypeTextHTML, html)
	return msg, nil
}
