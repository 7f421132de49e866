package service

import (
	"context"
	"encoding/json"

	"lead-chatbot-be/internal/dto"
	"lead-chatbot-be/internal/pkg/logger"
	"lead-chatbot-be/internal/pkg/mailer"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type INotifierService interface {
	Consume(ctx context.Context) error
}

// notifierService mails the sales inbox whenever a lead finishes
// onboarding. Delivery is best effort; failures are logged and the
// message acked so the chat flow is never held hostage by SMTP.
type notifierService struct {
	pubSub       *gochannel.GoChannel
	topicName    string
	emailService mailer.IEmailService
	logger       logger.ILogger
}

func NewNotifierService(
	pubSub *gochannel.GoChannel,
	topicName string,
	emailService mailer.IEmailService,
	appLogger logger.ILogger,
) INotifierService {
	return &notifierService{
		pubSub:       pubSub,
		topicName:    topicName,
		emailService: emailService,
		logger:       appLogger,
	}
}

func (ns *notifierService) Consume(ctx context.Context) error {
	messages, err := ns.pubSub.Subscribe(ctx, ns.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			ns.processMessage(msg)
		}
	}()

	return nil
}

func (ns *notifierService) processMessage(msg *message.Message) {
	var event dto.LeadCompletedEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		ns.logger.Error("notifier", "Failed to unmarshal lead completed event", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack()
		return
	}

	if err := ns.emailService.SendLeadAlert(event.Name, event.Email, event.Service); err != nil {
		ns.logger.Error("notifier", "Failed to send lead alert", map[string]interface{}{
			"lead_id": event.LeadID,
			"error":   err.Error(),
		})
		msg.Ack()
		return
	}

	ns.logger.Info("notifier", "Lead alert sent", map[string]interface{}{
		"lead_id": event.LeadID,
		"email":   event.Email,
	})
	msg.Ack()
}
