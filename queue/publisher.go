// Package queue fans generated reports out to a RabbitMQ exchange for
// downstream consumers (PDF rendering, archival). Optional: a service with
// no AMQP URL configured simply runs without a publisher.
package queue

import (
	"encoding/json"
	"fmt"

	"github.com/apex/log"
	"github.com/streadway/amqp"

	"elora/models"
)

const routingKeyReports = "elora.report.generated"

type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
}

// NewPublisher connects and declares a durable topic exchange.
func NewPublisher(amqpURL, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return &Publisher{conn: conn, channel: channel, exchange: exchange}, nil
}

// PublishReport publishes the report payload as persistent JSON.
func (p *Publisher) PublishReport(data *models.ReportData, tanks []models.TankLevelResult) error {
	payload, err := json.Marshal(struct {
		Report *models.ReportData       `json:"report"`
		Tanks  []models.TankLevelResult `json:"tanks"`
	}{Report: data, Tanks: tanks})
	if err != nil {
		return fmt.Errorf("failed to marshal report payload: %w", err)
	}

	err = p.channel.Publish(p.exchange, routingKeyReports, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Body:         payload,
	})
	if err != nil {
		return fmt.Errorf("failed to publish report: %w", err)
	}
	log.Debugf("published report to %s (%d bytes)", p.exchange, len(payload))
	return nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
