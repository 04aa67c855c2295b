package mailer

import (
	"context"

	"user-accounts/pkg/utils"

	"go.uber.org/zap"
)

// Message is a templated email: the provider renders Template with Data.
type Message struct {
	To       string
	Template string
	Data     map[string]string
}

// Dispatcher sends the account emails.
type Dispatcher interface {
	SendVerification(ctx context.Context, username, email, link string) error
	SendPasswordReset(ctx context.Context, username, email, link string) error
}

// Sender delivers a single templated message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type templateDispatcher struct {
	sender         Sender
	verifyTemplate string
	resetTemplate  string
}

// NewDispatcher returns a Courier backed dispatcher, or one that only logs
// the messages when no Courier token is configured.
func NewDispatcher(config utils.EmailConfig, log *zap.Logger) Dispatcher {
	var sender Sender
	if config.Token == "" {
		log.Warn("COURIER_TOKEN not set, emails will only be logged")
		sender = NewLogSender(log)
	} else {
		sender = NewCourier(config.BaseURL, config.Token, config.Timeout)
	}

	return NewTemplateDispatcher(sender, config.VerifyTemplate, config.ResetTemplate)
}

func NewTemplateDispatcher(sender Sender, verifyTemplate, resetTemplate string) Dispatcher {
	return &templateDispatcher{
		sender:         sender,
		verifyTemplate: verifyTemplate,
		resetTemplate:  resetTemplate,
	}
}

func (d *templateDispatcher) SendVerification(ctx context.Context, username, email, link string) error {
	return d.sender.Send(ctx, Message{
		To:       email,
		Template: d.verifyTemplate,
		Data:     map[string]string{"username": username, "link": link},
	})
}

func (d *templateDispatcher) SendPasswordReset(ctx context.Context, username, email, link string) error {
	return d.sender.Send(ctx, Message{
		To:       email,
		Template: d.resetTemplate,
		Data:     map[string]string{"username": username, "link": link},
	})
}

// LogSender writes messages to the logger instead of sending them.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log.With(zap.String("component", "mailer"))}
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.log.Info("Email not sent (logging only)",
		zap.String("to", msg.To),
		zap.String("template", msg.Template),
		zap.Any("data", msg.Data),
	)
	return nil
}
