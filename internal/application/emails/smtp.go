package emails

import (
	"context"
	"fmt"
	"html"
	"strings"

	"gopkg.in/gomail.v2"
)

// ContactMessage is one inquiry from the public contact form.
type ContactMessage struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// Sender delivers contact-form inquiries.
type Sender interface {
	SendContact(ctx context.Context, msg ContactMessage) error
}

// SMTPSender sends inquiries through a plain SMTP relay to the agency inbox.
type SMTPSender struct {
	Host string
	Port int
	User string
	Pass string
	To   string
}

func (s *SMTPSender) SendContact(ctx context.Context, msg ContactMessage) error {
	if s.Host == "" || s.To == "" {
		return fmt.Errorf("smtp: SMTP_HOST or CONTACT_EMAIL is not set")
	}

	phone := msg.Phone
	if phone == "" {
		phone = "Not provided"
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.User, "Website Contact")
	m.SetHeader("To", s.To)
	m.SetHeader("Reply-To", msg.Email)
	m.SetHeader("Subject", "New inquiry from "+msg.Name)
	m.SetBody("text/plain", fmt.Sprintf(
		"Name: %s\nEmail: %s\nPhone: %s\nMessage: %s\n",
		msg.Name, msg.Email, phone, msg.Message,
	))
	m.AddAlternative("text/html", fmt.Sprintf(
		"<h2>New Contact Form Submission</h2>"+
			"<p><strong>Name:</strong> %s</p>"+
			"<p><strong>Email:</strong> %s</p>"+
			"<p><strong>Phone:</strong> %s</p>"+
			"<p><strong>Message:</strong><br>%s</p>",
		html.EscapeString(msg.Name),
		html.EscapeString(msg.Email),
		html.EscapeString(phone),
		strings.ReplaceAll(html.EscapeString(msg.Message), "\n", "<br>"),
	))

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Pass)
	return d.DialAndSend(m)
}
