package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
)

type SendFunc func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPNotifier sends one message per recipient so subscriber addresses are
// never disclosed to each other.
type SMTPNotifier struct {
	addr string
	auth smtp.Auth
	from string
	send SendFunc
}

func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return &SMTPNotifier{
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		auth: auth,
		from: cfg.From,
		send: smtp.SendMail,
	}
}

// WithSender swaps the transport, mainly for tests.
func (n *SMTPNotifier) WithSender(send SendFunc) *SMTPNotifier {
	n.send = send
	return n
}

func (n *SMTPNotifier) NotifyPublished(ctx context.Context, msg Message, recipients []string) Result {
	res := Result{Recipients: len(recipients)}
	if len(recipients) == 0 {
		res.Success = true
		res.Skipped = true
		return res
	}

	var errs []error
	for i, to := range recipients {
		if err := ctx.Err(); err != nil {
			res.Failed += len(recipients) - i
			errs = append(errs, err)
			break
		}
		if err := n.send(n.addr, n.auth, n.from, []string{to}, n.compose(to, msg)); err != nil {
			log.Printf("⚠️  Failed to notify %s about article %s: %v", to, msg.ArticleID, err)
			res.Failed++
			errs = append(errs, fmt.Errorf("%s: %w", to, err))
		}
	}

	res.Success = len(errs) == 0
	if err := errors.Join(errs...); err != nil {
		res.Error = err.Error()
	}
	return res
}

func (n *SMTPNotifier) compose(to string, msg Message) []byte {
	var b strings.Builder
	b.WriteString("From: " + n.from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Title) + "\r\n")
	b.WriteString("Content-Language: " + msg.LanguageCode + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Title + "\r\n\r\n")
	if msg.Summary != "" {
		b.WriteString(msg.Summary + "\r\n\r\n")
	}
	b.WriteString(msg.URL + "\r\n")
	return []byte(b.String())
}
