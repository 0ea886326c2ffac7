package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ErrNotConnected is returned by operations attempted on a closed client
var ErrNotConnected = errors.New("not connected to RabbitMQ")

// Config holds RabbitMQ connection and topology configuration
type Config struct {
	Host              string
	Port              int
	User              string
	Password          string
	VHost             string
	ExchangeName      string
	ExchangeType      string
	QueueName         string
	RoutingKey        string
	DeadLetterQueue   string // rejected messages land here; empty disables
	RetryAttempts     int
	RetryInterval     time.Duration
	Heartbeat         time.Duration
	ConnectionTimeout time.Duration
}

// Message is one outgoing publication
type Message struct {
	ID          string
	Type        string
	ContentType string
	Body        []byte
}

// Client is a single-channel RabbitMQ client bound to one exchange and queue
type Client struct {
	config  *Config
	logger  *slog.Logger
	conn    *amqp.Connection
	channel *amqp.Channel

	mu          sync.Mutex
	closeChan   chan *amqp.Error
	isConnected bool
}

// NewClient dials RabbitMQ and declares the topology
func NewClient(config *Config, logger *slog.Logger) (*Client, error) {
	client := &Client{
		config: config,
		logger: logger,
	}

	if err := client.connect(); err != nil {
		return nil, fmt.Errorf("failed to create RabbitMQ client: %w", err)
	}

	return client, nil
}

// URL builds the AMQP URL, escaping credentials
func URL(config *Config) string {
	u := url.URL{
		Scheme: "amqp",
		Host:   net.JoinHostPort(config.Host, strconv.Itoa(config.Port)),
		Path:   "/" + strings.TrimPrefix(config.VHost, "/"),
	}
	if config.User != "" {
		u.User = url.UserPassword(config.User, config.Password)
	}
	return u.String()
}

func (c *Client) connect() error {
	var err error

	amqpConfig := amqp.Config{
		Heartbeat: c.config.Heartbeat,
		Locale:    "en_US",
	}
	if c.config.ConnectionTimeout > 0 {
		amqpConfig.Dial = amqp.DefaultDial(c.config.ConnectionTimeout)
	}

	attempts := max(c.config.RetryAttempts, 1)
	for attempt := 1; attempt <= attempts; attempt++ {
		c.conn, err = amqp.DialConfig(URL(c.config), amqpConfig)
		if err == nil {
			break
		}

		c.logger.Warn("RabbitMQ not reachable",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", attempts),
			slog.Any("error", err),
		)

		if attempt < attempts {
			time.Sleep(c.config.RetryInterval)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", attempts, err)
	}

	c.channel, err = c.conn.Channel()
	if err != nil {
		c.conn.Close()
		return fmt.Errorf("failed to create channel: %w", err)
	}

	if err := c.declareTopology(); err != nil {
		c.channel.Close()
		c.conn.Close()
		return fmt.Errorf("failed to declare topology: %w", err)
	}

	c.mu.Lock()
	c.closeChan = c.channel.NotifyClose(make(chan *amqp.Error, 1))
	c.isConnected = true
	c.mu.Unlock()

	c.logger.Info("RabbitMQ ready",
		slog.String("exchange", c.config.ExchangeName),
		slog.String("queue", c.config.QueueName),
		slog.String("dead_letter_queue", c.config.DeadLetterQueue),
	)

	return nil
}

// declareTopology declares the durable exchange, the work queue and its
// dead-letter queue. Rejected deliveries are routed through the default
// exchange straight to the dead-letter queue.
func (c *Client) declareTopology() error {
	err := c.channel.ExchangeDeclare(
		c.config.ExchangeName, // name
		c.config.ExchangeType, // type
		true,                  // durable
		false,                 // auto-deleted
		false,                 // internal
		false,                 // no-wait
		nil,                   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	var args amqp.Table
	if c.config.DeadLetterQueue != "" {
		if _, err := c.channel.QueueDeclare(c.config.DeadLetterQueue, true, false, false, false, nil); err != nil {
			return fmt.Errorf("failed to declare dead-letter queue: %w", err)
		}
		args = amqp.Table{
			"x-dead-letter-exchange":    "",
			"x-dead-letter-routing-key": c.config.DeadLetterQueue,
		}
	}

	_, err = c.channel.QueueDeclare(
		c.config.QueueName, // name
		true,               // durable
		false,              // auto-delete
		false,              // exclusive
		false,              // no-wait
		args,               // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	err = c.channel.QueueBind(
		c.config.QueueName,    // queue name
		c.config.RoutingKey,   // routing key
		c.config.ExchangeName, // exchange
		false,                 // no-wait
		nil,                   // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to bind queue: %w", err)
	}

	return nil
}

// Publish sends a persistent message to the configured exchange
func (c *Client) Publish(ctx context.Context, msg Message) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}

	err := c.channel.PublishWithContext(
		ctx,
		c.config.ExchangeName, // exchange
		c.config.RoutingKey,   // routing key
		false,                 // mandatory
		false,                 // immediate
		amqp.Publishing{
			MessageId:    msg.ID,
			Type:         msg.Type,
			ContentType:  msg.ContentType,
			Body:         msg.Body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", msg.ID, err)
	}

	c.logger.Debug("Published",
		slog.String("message_id", msg.ID),
		slog.String("type", msg.Type),
		slog.Int("bytes", len(msg.Body)),
	)
	return nil
}

// SetQos limits the number of unacknowledged deliveries per consumer
func (c *Client) SetQos(prefetch int) error {
	if !c.IsConnected() {
		return ErrNotConnected
	}
	if err := c.channel.Qos(prefetch, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}
	return nil
}

// Consume starts consuming the work queue with manual acknowledgement
func (c *Client) Consume(consumerTag string) (<-chan amqp.Delivery, error) {
	if !c.IsConnected() {
		return nil, ErrNotConnected
	}

	messages, err := c.channel.Consume(
		c.config.QueueName, // queue
		consumerTag,        // consumer tag
		false,              // auto-ack
		false,              // exclusive
		false,              // no-local
		false,              // no-wait
		nil,                // args
	)
	if err != nil {
		return nil, fmt.Errorf("failed to consume messages: %w", err)
	}

	c.logger.Info("Consuming",
		slog.String("queue", c.config.QueueName),
		slog.String("consumer_tag", consumerTag),
	)

	return messages, nil
}

// NotifyClose returns the channel that receives the broker close error
func (c *Client) NotifyClose() <-chan *amqp.Error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closeChan
}

// IsConnected reports whether the connection and channel are usable
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isConnected && c.conn != nil && !c.conn.IsClosed()
}

// Close closes the channel and then the connection
func (c *Client) Close() error {
	c.mu.Lock()
	c.isConnected = false
	c.mu.Unlock()

	if c.channel != nil {
		if err := c.channel.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			c.logger.Warn("Failed to close RabbitMQ channel", slog.Any("error", err))
		}
	}
	if c.conn == nil {
		return nil
	}
	if err := c.conn.Close(); err != nil && !errors.Is(err, amqp.ErrClosed) {
		return fmt.Errorf("failed to close RabbitMQ connection: %w", err)
	}

	c.logger.Info("RabbitMQ connection closed")
	return nil
}
