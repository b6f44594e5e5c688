package rabbit

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	"github.com/streadway/amqp"
)

const defaultPort = 5672

var ErrNotConnected = errors.New("amqp provider is not connected")

type Config struct {
	Enabled  bool
	Host     string
	Port     int `validate:"min:0|max:65535"`
	User     string
	Password string
	Queue    string `validate:"required"`
}

type Provider struct {
	conn       *amqp.Connection
	queue      amqp.Queue
	channel    *amqp.Channel
	connString string
	queueName  string
	addr       string
}

func New(config Config) *Provider {
	return &Provider{
		connString: URL(config),
		queueName:  config.Queue,
		addr:       net.JoinHostPort(config.Host, strconv.Itoa(port(config))),
	}
}

// URL builds the amqp connection string for config.
func URL(config Config) string {
	return fmt.Sprintf(
		"amqp://%s:%s@%s/",
		config.User,
		config.Password,
		net.JoinHostPort(config.Host, strconv.Itoa(port(config))),
	)
}

func port(config Config) int {
	if config.Port == 0 {
		return defaultPort
	}
	return config.Port
}

func (r *Provider) Address() string {
	return r.addr
}

func (r *Provider) Connect() error {
	var err error
	r.conn, err = amqp.Dial(r.connString)
	if err != nil {
		return fmt.Errorf("failed to connect to amqp %s: %w", r.Address(), err)
	}

	r.channel, err = r.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open amqp channel: %w", err)
	}
	r.queue, err = r.channel.QueueDeclare(
		r.queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue %q: %w", r.queueName, err)
	}
	return nil
}

func (r *Provider) Close() error {
	if r.conn == nil {
		return nil
	}
	return r.conn.Close()
}

func (r *Provider) Publish(body []byte) error {
	if r.channel == nil {
		return ErrNotConnected
	}
	return r.channel.Publish(
		"",           // exchange
		r.queue.Name, // routing key
		false,        // mandatory
		false,        // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		})
}

type MessageProcess = func(msg amqp.Delivery)

func (r *Provider) Consume(ctx context.Context, process MessageProcess) error {
	if r.channel == nil {
		return ErrNotConnected
	}
	msgs, err := r.channel.Consume(
		r.queue.Name, // queue
		"",           // consumer
		true,         // auto-ack
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return fmt.Errorf("failed to consume queue %q: %w", r.queue.Name, err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-msgs:
			if !ok {
				return nil
			}
			process(m)
		}
	}
}
