// Copyright (c) 2026 Laurel. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package mail provides the outbound email collaborator used for
confirmation-code delivery.

Core Responsibilities:

  - Transport: Plain SMTP with optional AUTH, suitable for a relay sidecar.
  - Failure Semantics: Delivery failures always propagate to the caller
    (fail-silently is never an option); registration must not report success
    if the code was not handed to the relay.

The domain layer depends only on the [Mailer] interface, so tests inject a
recording fake and no SMTP server is needed outside production.
*/
package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer is the minimal email-delivery contract required by the domain layer.
type Mailer interface {
	// Send delivers a single plain-text message. Any delivery failure is
	// returned as an error, never swallowed.
	Send(ctx context.Context, subject, body, from string, to []string) error
}

// SMTPMailer implements [Mailer] over net/smtp.
type SMTPMailer struct {
	addr string
	auth smtp.Auth
}

// NewSMTPMailer constructs an [SMTPMailer] for the given relay.
// Username may be empty for unauthenticated relays.
func NewSMTPMailer(host string, port int, username, password string) *SMTPMailer {
	var auth smtp.Auth
	if username != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}
	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%d", host, port),
		auth: auth,
	}
}

// Send implements [Mailer].
//
// The context is consulted before dialing; net/smtp itself does not accept
// one, so an already-cancelled request avoids the connection entirely.
func (mailer *SMTPMailer) Send(ctx context.Context, subject, body, from string, to []string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("mail: send aborted: %w", err)
	}

	message := strings.Join([]string{
		"From: " + from,
		"To: " + strings.Join(to, ", "),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=\"utf-8\"",
		"",
		body,
	}, "\r\n")

	if err := smtp.SendMail(mailer.addr, mailer.auth, from, to, []byte(message)); err != nil {
		return fmt.Errorf("mail: smtp delivery failed: %w", err)
	}

	return nil
}
