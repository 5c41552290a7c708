package smtp

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

var htmlTag = regexp.MustCompile(`<[^>]*>`)

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Message is one outgoing email. An empty Text is derived from HTML.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Client sends transactional email through an SMTP relay.
type Client struct {
	dialer Dialer
	from   string
	domain string
}

func NewClient(dialer Dialer, from, domain string) *Client {
	return &Client{
		dialer: dialer,
		from:   from,
		domain: domain,
	}
}

func (c *Client) Send(m Message) error {
	msg := gomail.NewMessage()

	msg.SetHeader("Message-ID", generateMessageID(c.domain))
	msg.SetHeader("Date", time.Now().Format(time.RFC1123Z))
	msg.SetHeader("From", c.from)
	msg.SetHeader("To", m.To)
	msg.SetHeader("Subject", m.Subject)

	text := m.Text
	if text == "" {
		text = StripTags(m.HTML)
	}
	msg.SetBody("text/plain", text)
	msg.AddAlternative("text/html", m.HTML)

	if err := c.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email to %s: %w", m.To, err)
	}
	return nil
}

// StripTags removes every HTML tag, leaving the text between them.
func StripTags(html string) string {
	return strings.TrimSpace(htmlTag.ReplaceAllString(html, ""))
}

func generateMessageID(domain string) string {
	uniqueID := uuid.New().String()
	return fmt.Sprintf("<%s@%s>", uniqueID, domain)
}
