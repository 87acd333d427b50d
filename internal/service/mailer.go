// Package service holds outbound collaborators constructed once at
// process start and passed into handlers, rather than living as
// package globals.
package service

import (
	"fmt"
	"net/smtp"
)

// Mailer dispatches transactional mail.  Handlers depend on this
// interface so tests can swap in a recording fake.
type Mailer interface {
	// SendOTP emails a one-time verification code to the given
	// address.  resend selects the subject line for re-issued codes.
	SendOTP(email, name, code string, resend bool) error
}

// SMTPMailer sends mail through a plain-auth SMTP server.
type SMTPMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPMailer builds a mailer for the given SMTP endpoint.  The
// username doubles as the From address.
func NewSMTPMailer(host string, port int, username, password string) *SMTPMailer {
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     username,
	}
}

const otpBody = `To: %s
Subject: %s
MIME-version: 1.0
Content-Type: text/html; charset="UTF-8"

<html>
<body>
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; border: 1px solid #e0e0e0; border-radius: 5px;">
  <h1 style="color: #4CAF50; text-align: center;">Eko Seller Verification</h1>
  <p style="font-size: 16px;">Hello %s,</p>
  <p style="font-size: 16px;">To verify your account, please use the code below:</p>
  <div style="background-color: #f8f8f8; padding: 15px; text-align: center; margin: 20px 0; border-radius: 4px;">
    <h2 style="margin: 0; color: #4CAF50; letter-spacing: 5px; font-size: 28px;">%s</h2>
  </div>
  <p style="font-size: 16px;">This code will expire in 15 minutes.</p>
  <p style="font-size: 16px;">If you did not request this verification, please ignore this email.</p>
</div>
</body>
</html>
`

// SendOTP implements Mailer.
func (m *SMTPMailer) SendOTP(email, name, code string, resend bool) error {
	subject := "Verify your account - Eko Seller"
	if resend {
		subject = "New verification code - Eko Seller"
	}
	msg := []byte(fmt.Sprintf(otpBody, email, subject, name, code))
	auth := smtp.PlainAuth("", m.username, m.password, m.host)
	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	return smtp.SendMail(addr, auth, m.from, []string{email}, msg)
}
