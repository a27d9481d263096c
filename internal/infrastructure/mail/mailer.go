package mail

import (
	"gopkg.in/gomail.v2"
)

// Sender delivers plain reminder emails. The sweep depends on this interface
// so tests can swap in a recorder.
type Sender interface {
	Send(to, subject, htmlBody, textBody string) error
}

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(host string, port int, user, pass, from string) *SMTPSender {
	return &SMTPSender{dialer: gomail.NewDialer(host, port, user, pass), from: from}
}

func (s *SMTPSender) Send(to, subject, htmlBody, textBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", textBody)
	m.AddAlternative("text/html", htmlBody)
	return s.dialer.DialAndSend(m)
}
