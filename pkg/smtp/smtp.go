package smtp

import (
	"encoding/base64"
	"fmt"
	smtpPkg "net/smtp"
	"os"
	"strings"
)

type ItfSmtp interface {
	SendReport(recipient string, subject string, body string, filename string, attachment []byte) error
}

type smtp struct {
	auth smtpPkg.Auth
	mail string
	host string
	addr string
}

func New() ItfSmtp {
	mail := os.Getenv("SMTP_MAIL")
	password := os.Getenv("SMTP_PASSWORD")

	host := os.Getenv("SMTP_HOST")
	if host == "" {
		host = "smtp.gmail.com"
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}

	auth := smtpPkg.PlainAuth("", mail, password, host)

	return &smtp{
		auth: auth,
		mail: mail,
		host: host,
		addr: fmt.Sprintf("%s:%s", host, port),
	}
}

// SendReport mails a generated report as a MIME attachment.
func (s *smtp) SendReport(recipient string, subject string, body string, filename string, attachment []byte) error {
	boundary := "report-boundary-7f3a"

	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("To: %s\r\n", recipient))
	msg.WriteString(fmt.Sprintf("From: %s\r\n", s.mail))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%q\r\n\r\n", boundary))

	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	msg.WriteString("Content-Type: application/octet-stream\r\n")
	msg.WriteString("Content-Transfer-Encoding: base64\r\n")
	msg.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=%q\r\n\r\n", filename))

	encoded := base64.StdEncoding.EncodeToString(attachment)
	for len(encoded) > 76 {
		msg.WriteString(encoded[:76] + "\r\n")
		encoded = encoded[76:]
	}
	msg.WriteString(encoded + "\r\n")
	msg.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	return smtpPkg.SendMail(s.addr, s.auth, s.mail, []string{recipient}, []byte(msg.String()))
}
