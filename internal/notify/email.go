package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/nexflow/nexflow-server/internal/orders"
)

const (
	gmailHost = "smtp.gmail.com"
	gmailPort = 587
)

// EmailChannel sends the customer confirmation and the internal admin
// notification over Gmail SMTP. The SMTP client is established and
// verified lazily on first use; if verification fails the channel stays
// disabled for the rest of the process lifetime.
type EmailChannel struct {
	user          string
	appPassword   string
	testRecipient string
	adminEmails   []string
	adminURL      string
	log           *zap.Logger

	mu       sync.Mutex
	client   *mail.Client
	disabled bool
}

// NewEmailChannel wires the channel from configuration. Empty credentials
// leave the channel in place but every send becomes a logged no-op.
func NewEmailChannel(user, appPassword, testRecipient string, adminEmails []string, adminURL string, log *zap.Logger) *EmailChannel {
	if user == "" || appPassword == "" {
		log.Warn("gmail credentials not provided, email notifications disabled")
	}
	return &EmailChannel{
		user:          user,
		appPassword:   appPassword,
		testRecipient: testRecipient,
		adminEmails:   adminEmails,
		adminURL:      adminURL,
		log:           log,
	}
}

func (e *EmailChannel) Name() string { return "email" }

// ensureClient returns the cached verified client, creating it on first
// call. A failed verification poisons the channel permanently.
func (e *EmailChannel) ensureClient(ctx context.Context) (*mail.Client, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.disabled {
		return nil, nil
	}
	if e.client != nil {
		return e.client, nil
	}
	if e.user == "" || e.appPassword == "" {
		return nil, nil
	}

	c, err := mail.NewClient(gmailHost,
		mail.WithPort(gmailPort),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(e.user),
		mail.WithPassword(e.appPassword),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		e.disabled = true
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	// verify connection and credentials once
	if err := c.DialWithContext(ctx); err != nil {
		e.disabled = true
		return nil, fmt.Errorf("verify smtp connection: %w", err)
	}
	_ = c.Close()

	e.log.Info("gmail smtp verified, email channel ready")
	e.client = c
	return c, nil
}

// NotifyOrderCreated sends the customer confirmation and the admin
// notification. Both are attempted even if one fails.
func (e *EmailChannel) NotifyOrderCreated(ctx context.Context, o *orders.Order) error {
	c, err := e.ensureClient(ctx)
	if err != nil {
		return err
	}
	if c == nil {
		e.log.Warn("email channel not available, skipping send",
			zap.String("orderId", o.OrderID))
		return nil
	}

	confirmErr := e.send(ctx, c, []string{o.Email}, confirmationSubject(o), confirmationHTML(o))

	var notifyErr error
	if len(e.adminEmails) > 0 {
		notifyErr = e.send(ctx, c, e.adminEmails, adminSubject(o), adminHTML(o, e.adminURL))
	}

	return errors.Join(confirmErr, notifyErr)
}

func (e *EmailChannel) send(ctx context.Context, c *mail.Client, to []string, subject, html string) error {
	if e.testRecipient != "" {
		to = []string{e.testRecipient}
	}

	msg := mail.NewMsg()
	if err := msg.From(e.user); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(to...); err != nil {
		return fmt.Errorf("set recipients: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, html)

	if err := c.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
