package service

import (
	"context"

	"ai-coding-assistant-be/internal/pkg/logger"
	"ai-coding-assistant-be/internal/pkg/mailer"
	"ai-coding-assistant-be/pkg/events"
	pktNats "ai-coding-assistant-be/pkg/nats"
)

const accountMailerDurable = "account-mailer"

// NotificationService reacts to account events on the NATS stream.
type NotificationService struct {
	subscriber *pktNats.Subscriber
	mailer     mailer.IEmailService
	logger     logger.ILogger
}

func NewNotificationService(sub *pktNats.Subscriber, mail mailer.IEmailService, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		mailer:     mail,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() error {
	subject := pktNats.SubjectPrefix + events.TypeUserDeleted
	if err := s.subscriber.Subscribe(subject, accountMailerDurable, s.HandleUserDeleted); err != nil {
		s.logger.Error("NOTIFICATION", "Failed to start notification subscriber", map[string]interface{}{"error": err.Error()})
		return err
	}
	s.logger.Info("NOTIFICATION", "Notification service started", map[string]interface{}{"subject": subject})
	return nil
}

// HandleUserDeleted mails a confirmation to the deleted account's address.
// Anonymous accounts have no address and are skipped.
func (s *NotificationService) HandleUserDeleted(ctx context.Context, event events.Event) error {
	if event.EventType() != events.TypeUserDeleted {
		return nil
	}

	email := events.StringField(event, "email")
	if email == "" {
		s.logger.Debug("NOTIFICATION", "USER_DELETED without email, skipping mail", map[string]interface{}{
			"user_id": events.StringField(event, "user_id"),
		})
		return nil
	}

	return s.mailer.SendAccountDeleted(email, events.StringField(event, "name"))
}
