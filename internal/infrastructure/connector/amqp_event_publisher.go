package connector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ajharry69/kcb-b2c-payment/internal/domain/payments"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/config"
	"github.com/ajharry69/kcb-b2c-payment/internal/pkg/logger"
	"github.com/cenkalti/backoff/v5"
	amqp "github.com/rabbitmq/amqp091-go"
)

// AmqpMessage is the envelope published to the broker.
type AmqpMessage struct {
	OwnerID string          `json:"ownerId"`
	Data    json.RawMessage `json:"data"`
}

// AMQPChannel is the part of *amqp.Channel used for publishing.
type AMQPChannel interface {
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPSession is an open channel together with the connection that owns it.
// Closed is signalled or closed by the client library once the channel is gone.
type AMQPSession struct {
	Channel AMQPChannel
	Closed  <-chan *amqp.Error
	Close   func() error

	dead    bool
	lastErr error
}

func (s *AMQPSession) isClosed() bool {
	if s.dead {
		return true
	}
	select {
	case err := <-s.Closed:
		s.dead = true
		if err != nil {
			s.lastErr = err
		}
		return true
	default:
		return false
	}
}

// AMQPDialer opens a new session with the broker.
type AMQPDialer func() (*AMQPSession, error)

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("AMQP event publisher is closed")

const (
	defaultReconnectInterval    = 500 * time.Millisecond
	defaultReconnectMaxInterval = 30 * time.Second
)

// DialAMQP returns a dialer that connects to url and opens one channel.
func DialAMQP(url string) AMQPDialer {
	return func() (*AMQPSession, error) {
		conn, err := amqp.Dial(url)
		if err != nil {
			return nil, err
		}

		channel, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to open AMQP channel: %w", err)
		}

		// closing the connection also closes the channel and fires this notification
		closed := channel.NotifyClose(make(chan *amqp.Error, 1))
		return &AMQPSession{
			Channel: channel,
			Closed:  closed,
			Close: func() error {
				_ = channel.Close()
				if conn.IsClosed() {
					return nil
				}
				return conn.Close()
			},
		}, nil
	}
}

// AMQPEventPublisher publishes payment events to a durable topic exchange,
// routed by event type. A lost connection is redialled on the next Publish or
// Ping, no more often than the exponential reconnect backoff allows.
type AMQPEventPublisher struct {
	dial     AMQPDialer
	exchange string
	timeout  time.Duration
	logger   logger.Logger

	mu       sync.Mutex
	session  *AMQPSession
	backoff  *backoff.ExponentialBackOff
	nextDial time.Time
	closed   bool
}

// NewAMQPEventPublisher dials the broker and declares the exchange.
func NewAMQPEventPublisher(settings *config.AMQPSettings, logger logger.Logger) (*AMQPEventPublisher, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return NewAMQPEventPublisherWithDialer(DialAMQP(settings.URL), settings, logger)
}

// NewAMQPEventPublisherWithDialer opens the first session with dial and declares the exchange.
func NewAMQPEventPublisherWithDialer(dial AMQPDialer, settings *config.AMQPSettings, logger logger.Logger) (*AMQPEventPublisher, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = defaultReconnectInterval
	b.MaxInterval = defaultReconnectMaxInterval
	if settings.ReconnectInterval > 0 {
		b.InitialInterval = settings.ReconnectInterval
	}
	if settings.ReconnectMaxInterval > 0 {
		b.MaxInterval = settings.ReconnectMaxInterval
	}
	b.Reset()

	p := &AMQPEventPublisher{
		dial:     dial,
		exchange: settings.Exchange,
		timeout:  settings.PublishTimeout,
		logger:   logger,
		backoff:  b,
	}
	if err := p.connect(); err != nil {
		return nil, err
	}

	logger.Info("AMQP event publisher ready on exchange ", settings.Exchange)
	return p, nil
}

func (p *AMQPEventPublisher) connect() error {
	session, err := p.dial()
	if err != nil {
		return fmt.Errorf("failed to connect to AMQP broker: %w", err)
	}
	if err := session.Channel.ExchangeDeclare(p.exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = session.Close()
		return fmt.Errorf("failed to declare exchange %s: %w", p.exchange, err)
	}
	p.session = session
	return nil
}

// ensureSession returns an open session, redialling when the previous one was lost.
// p.mu must be held.
func (p *AMQPEventPublisher) ensureSession() (*AMQPSession, error) {
	if p.closed {
		return nil, ErrPublisherClosed
	}
	if p.session != nil {
		if !p.session.isClosed() {
			return p.session, nil
		}
		if p.session.lastErr != nil {
			p.logger.Warn("AMQP connection lost: ", p.session.lastErr)
		} else {
			p.logger.Warn("AMQP connection closed, reconnecting")
		}
		_ = p.session.Close()
		p.session = nil
	}

	if wait := time.Until(p.nextDial); wait > 0 {
		return nil, fmt.Errorf("AMQP broker unavailable, next reconnect attempt in %s", wait.Round(time.Millisecond))
	}
	if err := p.connect(); err != nil {
		p.nextDial = time.Now().Add(p.backoff.NextBackOff())
		return nil, err
	}

	p.backoff.Reset()
	p.nextDial = time.Time{}
	p.logger.Info("AMQP connection re-established on exchange ", p.exchange)
	return p.session, nil
}

// Publish sends event as a persistent JSON message with the event type as routing key.
func (p *AMQPEventPublisher) Publish(ctx context.Context, event *payments.PaymentEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	body, err := json.Marshal(AmqpMessage{OwnerID: event.TransactionID, Data: data})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EventID.String(),
		Timestamp:    event.OccurredAt,
		Type:         string(event.Type),
		Body:         body,
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	// amqp channels are not safe for concurrent publishing
	p.mu.Lock()
	defer p.mu.Unlock()

	session, err := p.ensureSession()
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	if err := session.Channel.PublishWithContext(ctx, p.exchange, string(event.Type), false, false, msg); err != nil {
		var amqpErr *amqp.Error
		if errors.Is(err, amqp.ErrClosed) || errors.As(err, &amqpErr) {
			session.dead = true
			session.lastErr = err
		}
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	p.logger.Debug("Published ", event.Type, " for payment ", event.PaymentID)
	return nil
}

// Ping reports whether a broker session is open, reconnecting if it was lost.
func (p *AMQPEventPublisher) Ping(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, err := p.ensureSession()
	return err
}

// Close closes the session. Later publishes fail with ErrPublisherClosed.
func (p *AMQPEventPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	if p.session == nil {
		return nil
	}
	session := p.session
	p.session = nil
	if err := session.Close(); err != nil {
		return fmt.Errorf("failed to close AMQP connection: %w", err)
	}
	return nil
}

// LoggingEventPublisher logs events instead of publishing them. Used when AMQP is disabled.
type LoggingEventPublisher struct {
	logger logger.Logger
}

// NewLoggingEventPublisher creates a new instance of LoggingEventPublisher
func NewLoggingEventPublisher(logger logger.Logger) *LoggingEventPublisher {
	return &LoggingEventPublisher{logger: logger}
}

func (p *LoggingEventPublisher) Publish(_ context.Context, event *payments.PaymentEvent) error {
	p.logger.Debug("Event ", event.Type, " for payment ", event.PaymentID, " (AMQP disabled)")
	return nil
}

func (p *LoggingEventPublisher) Close() error {
	return nil
}
