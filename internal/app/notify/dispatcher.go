// Package notify delivers credential emails after the provisioning
// transaction has committed. Notices travel over an in-process watermill
// channel to a bounded pool of workers that retry with backoff.
package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/cenkalti/backoff/v5"
	"github.com/rs/zerolog"
	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/pkg/email"
)

// TopicCredentialsIssued carries CredentialNotice payloads
const TopicCredentialsIssued = "credentials.issued"

// ErrClosed is returned when publishing to a closed dispatcher
var ErrClosed = errors.New("notification dispatcher is closed")

// CredentialNotice is a one-time password waiting to be emailed
type CredentialNotice struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

// Notifier queues credential emails. Implementations must not block on delivery.
type Notifier interface {
	NotifyCredentials(ctx context.Context, notice CredentialNotice) error
}

// Config tunes the dispatcher
type Config struct {
	Workers         int
	QueueSize       int
	MaxAttempts     int
	InitialInterval time.Duration
	SendTimeout     time.Duration
}

func (c Config) withDefaults() Config {
	if c.Workers < 1 {
		c.Workers = 2
	}
	if c.QueueSize < 1 {
		c.QueueSize = 64
	}
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 3
	}
	if c.InitialInterval <= 0 {
		c.InitialInterval = 500 * time.Millisecond
	}
	if c.SendTimeout <= 0 {
		c.SendTimeout = 30 * time.Second
	}
	return c
}

// Dispatcher is the watermill-backed Notifier
type Dispatcher struct {
	cfg    Config
	mailer email.Mailer
	pubSub *gochannel.GoChannel
	logger zerolog.Logger

	jobs   chan []byte
	wg     sync.WaitGroup
	cancel context.CancelFunc

	mu     sync.RWMutex
	closed bool
}

var _ Notifier = (*Dispatcher)(nil)

// NewDispatcher subscribes to the credentials topic and starts the workers
func NewDispatcher(cfg Config, mailer email.Mailer, logger zerolog.Logger) (*Dispatcher, error) {
	cfg = cfg.withDefaults()
	logger = logger.With().Str("component", "notify").Logger()

	pubSub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer:            int64(cfg.QueueSize),
		BlockPublishUntilSubscriberAck: true,
	}, newZerologAdapter(logger))

	ctx, cancel := context.WithCancel(context.Background())
	messages, err := pubSub.Subscribe(ctx, TopicCredentialsIssued)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", TopicCredentialsIssued, err)
	}

	d := &Dispatcher{
		cfg:    cfg,
		mailer: mailer,
		pubSub: pubSub,
		logger: logger,
		jobs:   make(chan []byte, cfg.QueueSize),
		cancel: cancel,
	}

	d.wg.Add(1)
	go d.receive(messages)

	for i := 0; i < cfg.Workers; i++ {
		d.wg.Add(1)
		go d.work()
	}

	return d, nil
}

// receive hands messages to the worker pool without waiting on it. A
// notice that finds the queue full is dropped and logged.
func (d *Dispatcher) receive(messages <-chan *message.Message) {
	defer d.wg.Done()
	defer close(d.jobs)

	for msg := range messages {
		select {
		case d.jobs <- msg.Payload:
		default:
			d.dropped(msg.Payload)
		}
		msg.Ack()
	}
}

func (d *Dispatcher) dropped(payload []byte) {
	var notice CredentialNotice
	_ = json.Unmarshal(payload, &notice)
	d.logger.Error().
		Str("email", notice.Email).
		Str("role", string(notice.Role)).
		Int("queueSize", d.cfg.QueueSize).
		Msg("Credential email queue full, notice dropped")
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for payload := range d.jobs {
		var notice CredentialNotice
		if err := json.Unmarshal(payload, &notice); err != nil {
			d.logger.Error().Err(err).Msg("Dropping malformed credential notice")
			continue
		}
		d.deliver(notice)
	}
}

func (d *Dispatcher) deliver(notice CredentialNotice) {
	msg, err := email.CredentialsMessage(email.CredentialsData{
		Name:     notice.Name,
		Email:    notice.Email,
		Password: notice.Password,
		Role:     string(notice.Role),
	})
	if err != nil {
		d.logger.Error().Err(err).Str("email", notice.Email).Msg("Failed to render credentials email")
		return
	}

	send := func() (struct{}, error) {
		ctx, cancel := context.WithTimeout(context.Background(), d.cfg.SendTimeout)
		defer cancel()
		return struct{}{}, d.mailer.Send(ctx, msg)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.cfg.InitialInterval

	_, err = backoff.Retry(context.Background(), send,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(d.cfg.MaxAttempts)),
		backoff.WithNotify(func(err error, next time.Duration) {
			d.logger.Warn().Err(err).Str("email", notice.Email).Dur("retryIn", next).Msg("Credential email failed, retrying")
		}),
	)
	if err != nil {
		d.logger.Error().Err(err).
			Str("email", notice.Email).
			Str("role", string(notice.Role)).
			Int("attempts", d.cfg.MaxAttempts).
			Msg("Credential email delivery failed")
		return
	}

	d.logger.Info().Str("email", notice.Email).Msg("Credential email sent")
}

// NotifyCredentials publishes notice. It returns once the notice is queued
// or dropped, never waiting on delivery.
func (d *Dispatcher) NotifyCredentials(_ context.Context, notice CredentialNotice) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return ErrClosed
	}

	payload, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("failed to encode credential notice: %w", err)
	}
	return d.pubSub.Publish(TopicCredentialsIssued, message.NewMessage(watermill.NewUUID(), payload))
}

// Close stops accepting notices and waits for queued ones to be delivered
func (d *Dispatcher) Close() error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	d.mu.Unlock()

	err := d.pubSub.Close()
	d.cancel()
	d.wg.Wait()
	return err
}
