package publisher

import (
	"context"

	"ecg-labeling-service/internal/app/contracts"
	"ecg-labeling-service/internal/pkg/constvars"
	"ecg-labeling-service/internal/pkg/dto/requests"
	"ecg-labeling-service/internal/pkg/exceptions"

	"github.com/goccy/go-json"
	"github.com/rabbitmq/amqp091-go"
)

type labelPublisher struct {
	Channel *amqp091.Channel
	Queue   string
}

// NewLabelPublisher opens a channel and declares a durable queue for
// labeled record events.
func NewLabelPublisher(rabbitMQConnection *amqp091.Connection, queue string) (contracts.LabelPublisher, error) {
	channel, err := rabbitMQConnection.Channel()
	if err != nil {
		return nil, exceptions.ErrRabbitMQOpenChannel(err)
	}

	_, err = channel.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		channel.Close()
		return nil, exceptions.ErrRabbitMQDeclareQueue(err, queue)
	}

	return &labelPublisher{
		Channel: channel,
		Queue:   queue,
	}, nil
}

func (p *labelPublisher) PublishLabeledRecord(ctx context.Context, event *requests.LabeledRecordEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	headers := amqp091.Table{
		"message_type":     "JSON",
		"requeue_strategy": "DROP",
	}

	message := amqp091.Publishing{
		ContentType:  constvars.MIMEApplicationJSON,
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Priority:     0,
		Headers:      headers,
		MessageId:    event.Dataset + "/" + event.Record,
	}

	err = p.Channel.PublishWithContext(ctx, "", p.Queue, false, false, message)
	if err != nil {
		return exceptions.ErrRabbitMQPublishMessage(err, p.Queue)
	}

	return nil
}
