package clients

import (
	"encoding/json"
	"fmt"
	"time"

	"customer-dashboard-svc/src/internal/config"
	"customer-dashboard-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/streadway/amqp"
)

// ActivityClient publishes login/session activity to RabbitMQ. A client
// without a channel only logs the activity.
type ActivityClient struct {
	channel *amqp.Channel
	cfg     *config.RabbitMQConfig
}

func NewActivityClient(cfg *config.Configuration, channel *amqp.Channel) *ActivityClient {
	return &ActivityClient{
		channel: channel,
		cfg:     &cfg.Queue.RabbitMQ,
	}
}

// PublishActivity publishes a session activity message to RabbitMQ
func (c *ActivityClient) PublishActivity(message models.ActivityMessage) error {
	if message.Timestamp.IsZero() {
		message.Timestamp = time.Now().UTC()
	}

	fields := logrus.Fields{
		"username":   message.Username,
		"session_id": message.SessionID,
		"service":    message.ServiceName,
		"action":     message.Action,
	}

	if c.channel == nil {
		logrus.WithFields(fields).Debug("Activity recorded (no queue configured)")
		return nil
	}

	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal activity message: %w", err)
	}

	err = c.channel.Publish(
		c.cfg.Exchange,
		c.cfg.RoutingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   message.Timestamp,
		},
	)

	if err != nil {
		logrus.WithError(err).WithFields(fields).Error("Failed to publish activity message")
		return fmt.Errorf("%w: %v", models.ErrQueuePublish, err)
	}

	fields["exchange"] = c.cfg.Exchange
	fields["routing_key"] = c.cfg.RoutingKey
	logrus.WithFields(fields).Debug("Activity message published")

	return nil
}
