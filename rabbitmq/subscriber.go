package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"traffic-report/be/config"
	"traffic-report/be/metrics"

	"github.com/streadway/amqp"
	"go.uber.org/zap"
)

const reconnectDelay = 5 * time.Second

// Message is a delivery handed to a callback.
type Message struct {
	Body        []byte
	RoutingKey  string
	ContentType string
	Timestamp   time.Time
	DeliveryTag uint64
	Redelivered bool
}

// CallbackFunc processes one message. Returning nil acks it; a Permanent error
// drops it; any other error requeues it.
type CallbackFunc func(ctx context.Context, msg *Message) error

// PermanentError marks a failure that retrying cannot fix.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	if e == nil || e.Err == nil {
		return "permanent error"
	}
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

func IsPermanent(err error) bool {
	var perr *PermanentError
	return errors.As(err, &perr)
}

type Subscriber struct {
	cfg     config.RabbitMQConfig
	log     *zap.Logger
	conn    *amqp.Connection
	channel *amqp.Channel
	ackMu   sync.Mutex
}

// NewSubscriber connects and declares a durable direct exchange, a durable
// queue and the binding between them.
func NewSubscriber(cfg config.RabbitMQConfig, log *zap.Logger) (*Subscriber, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := declare(channel, cfg); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	return &Subscriber{cfg: cfg, log: log, conn: conn, channel: channel}, nil
}

func declare(channel *amqp.Channel, cfg config.RabbitMQConfig) error {
	if err := channel.ExchangeDeclare(
		cfg.Exchange, // name
		"direct",     // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	); err != nil {
		return fmt.Errorf("failed to declare exchange: %w", err)
	}

	if _, err := channel.QueueDeclare(
		cfg.Queue, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	); err != nil {
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	if err := channel.QueueBind(cfg.Queue, cfg.RoutingKey, cfg.Exchange, false, nil); err != nil {
		return fmt.Errorf("failed to bind queue %s to exchange %s with routing key %s: %w",
			cfg.Queue, cfg.Exchange, cfg.RoutingKey, err)
	}
	return nil
}

// Run consumes until ctx is cancelled or the connection drops. Deliveries are
// processed by cfg.Concurrency workers and acked after the callback returns.
func (s *Subscriber) Run(ctx context.Context, callback CallbackFunc) error {
	workers := s.cfg.Concurrency
	if workers < 1 {
		workers = 1
	}

	if err := s.channel.Qos(workers, 0, false); err != nil {
		return fmt.Errorf("failed to set QoS: %w", err)
	}

	deliveries, err := s.channel.Consume(s.cfg.Queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}
	connClose := s.conn.NotifyClose(make(chan *amqp.Error, 1))

	jobs := make(chan amqp.Delivery, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for d := range jobs {
				s.handle(ctx, d, callback)
			}
		}()
	}
	defer func() {
		close(jobs)
		wg.Wait()
	}()

	s.log.Info("rabbitmq consumer started",
		zap.String("queue", s.cfg.Queue),
		zap.String("routing_key", s.cfg.RoutingKey),
		zap.Int("workers", workers))

	for {
		select {
		case <-ctx.Done():
			return nil
		case amqpErr := <-connClose:
			return fmt.Errorf("rabbitmq connection closed: %v", amqpErr)
		case d, ok := <-deliveries:
			if !ok {
				return errors.New("rabbitmq delivery channel closed")
			}
			select {
			case jobs <- d:
			case <-ctx.Done():
				return nil
			}
		}
	}
}

func (s *Subscriber) handle(ctx context.Context, d amqp.Delivery, callback CallbackFunc) {
	metrics.ConsumerInFlight.Inc()
	defer metrics.ConsumerInFlight.Dec()

	startedAt := time.Now()
	err := callback(ctx, &Message{
		Body:        d.Body,
		RoutingKey:  d.RoutingKey,
		ContentType: d.ContentType,
		Timestamp:   d.Timestamp,
		DeliveryTag: d.DeliveryTag,
		Redelivered: d.Redelivered,
	})

	action := "ack"
	var ackErr error
	s.ackMu.Lock()
	switch {
	case err == nil:
		ackErr = d.Ack(false)
	case IsPermanent(err):
		action = "drop"
		ackErr = d.Nack(false, false)
	default:
		action = "requeue"
		ackErr = d.Nack(false, true)
	}
	s.ackMu.Unlock()

	fields := []zap.Field{
		zap.Uint64("delivery_tag", d.DeliveryTag),
		zap.String("action", action),
		zap.Duration("duration", time.Since(startedAt)),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if ackErr != nil {
		s.log.Error("rabbitmq ack failed", append(fields, zap.NamedError("ack_error", ackErr))...)
		return
	}
	if err != nil {
		s.log.Warn("rabbitmq delivery not processed", fields...)
		return
	}
	s.log.Debug("rabbitmq delivery processed", fields...)
}

func (s *Subscriber) Close() error {
	var errs []error
	if s.channel != nil {
		errs = append(errs, s.channel.Close())
	}
	if s.conn != nil {
		errs = append(errs, s.conn.Close())
	}
	return errors.Join(errs...)
}

// Consume keeps a subscriber running until ctx is cancelled, reconnecting
// after connection failures.
func Consume(ctx context.Context, cfg config.RabbitMQConfig, log *zap.Logger, callback CallbackFunc) {
	for {
		sub, err := NewSubscriber(cfg, log)
		if err != nil {
			log.Error("rabbitmq subscriber unavailable", zap.Error(err))
		} else {
			err = sub.Run(ctx, callback)
			_ = sub.Close()
			if err != nil {
				log.Warn("rabbitmq consumer stopped", zap.Error(err))
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(reconnectDelay):
		}
	}
}
