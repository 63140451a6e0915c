// Package rabbitmq publishes matching runs to a RabbitMQ exchange with
// publisher confirms.
package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/portlink/streetturn/core/matching"
	coremon "github.com/portlink/streetturn/core/monitoring"
	"github.com/portlink/streetturn/core/notify"
	"github.com/portlink/streetturn/infra/logger"
)

// confirmBuffer holds late confirms until the next publish discards them.
const confirmBuffer = 8

// OrgPlaceholder is replaced by the organization ID in RoutingKey.
const OrgPlaceholder = "{org_id}"

var (
	errConfirmsClosed  = errors.New("confirm stream closed")
	errNotAcknowledged = errors.New("not acknowledged")
)

// Config holds the broker and topology settings.
type Config struct {
	URL            string        `json:"url"`
	Exchange       string        `json:"exchange"`
	ExchangeType   string        `json:"exchange_type"`
	RoutingKey     string        `json:"routing_key"`
	PublishTimeout time.Duration `json:"publish_timeout"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Exchange == "" {
		c.Exchange = "streetturn.suggestions"
	}
	if c.ExchangeType == "" {
		c.ExchangeType = amqp.ExchangeTopic
	}
	if c.RoutingKey == "" {
		c.RoutingKey = "suggestions." + OrgPlaceholder
	}
	if c.PublishTimeout <= 0 {
		c.PublishTimeout = 5 * time.Second
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("rabbitmq url is required")
	}
	return nil
}

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	IsClosed() bool
	Close() error
}

type session struct {
	ch       publisher
	confirms <-chan amqp.Confirmation
	close    func()
	// tag is the delivery tag of the last publish on ch. Confirms with a
	// lower tag belong to publishes that already timed out.
	tag uint64
}

// Notifier publishes runs as persistent JSON messages and waits for the
// broker confirm of each one. A closed channel is redialed on the next call.
type Notifier struct {
	cfg  Config
	dial func(Config) (*session, error)
	log  logger.Logger

	mu   sync.Mutex
	sess *session
}

// NewNotifier dials the broker and declares the exchange.
func NewNotifier(cfg Config) (*Notifier, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := &Notifier{cfg: cfg, dial: dialSession, log: logger.New("rabbitmq_notifier")}
	sess, err := n.dial(cfg)
	if err != nil {
		return nil, err
	}
	n.sess = sess
	return n, nil
}

func dialSession(cfg Config) (*session, error) {
	conn, err := amqp.DialConfig(cfg.URL, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(30 * time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(cfg.Exchange, cfg.ExchangeType, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq declare exchange %s: %w", cfg.Exchange, err)
	}
	if err := ch.Confirm(false); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq enable confirms: %w", err)
	}
	return &session{
		ch:       ch,
		confirms: ch.NotifyPublish(make(chan amqp.Confirmation, confirmBuffer)),
		close: func() {
			_ = ch.Close()
			_ = conn.Close()
		},
	}, nil
}

// RoutingKey returns the routing key used for an organization.
func (n *Notifier) RoutingKey(orgID string) string {
	return strings.ReplaceAll(n.cfg.RoutingKey, OrgPlaceholder, orgID)
}

// Notify publishes the run and waits for the broker confirm.
func (n *Notifier) Notify(ctx context.Context, run matching.Run) error {
	body, err := json.Marshal(notify.NewMessage(run))
	if err != nil {
		return err
	}
	if err := n.publish(ctx, n.RoutingKey(run.OrgID), run.ID, body); err != nil {
		coremon.CaptureException(err, map[string]string{"module": "rabbitmq", "org_id": run.OrgID, "run_id": run.ID})
		return err
	}
	return nil
}

func (n *Notifier) publish(ctx context.Context, key, msgID string, body []byte) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sess == nil || n.sess.ch.IsClosed() {
		if n.sess != nil {
			n.sess.close()
		}
		sess, err := n.dial(n.cfg)
		if err != nil {
			n.sess = nil
			return err
		}
		n.log.Warnf("rabbitmq channel reopened")
		n.sess = sess
	}
	ctx, cancel := context.WithTimeout(ctx, n.cfg.PublishTimeout)
	defer cancel()
	err := n.sess.ch.PublishWithContext(ctx, n.cfg.Exchange, key, false, false, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    msgID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq publish %s: %w", key, err)
	}
	n.sess.tag++
	if err := n.sess.awaitConfirm(ctx, n.sess.tag); err != nil {
		return fmt.Errorf("rabbitmq: publish %s: %w", key, err)
	}
	n.log.Debugf("published %s to %s/%s", msgID, n.cfg.Exchange, key)
	return nil
}

// awaitConfirm waits for the confirm of the publish tagged want, discarding
// late confirms of earlier publishes.
func (s *session) awaitConfirm(ctx context.Context, want uint64) error {
	for {
		select {
		case c, ok := <-s.confirms:
			if !ok {
				return errConfirmsClosed
			}
			if c.DeliveryTag < want {
				continue
			}
			if !c.Ack {
				return errNotAcknowledged
			}
			return nil
		case <-ctx.Done():
			return fmt.Errorf("waiting for confirm: %w", ctx.Err())
		}
	}
}

// Close releases the channel and connection.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.sess != nil {
		n.sess.close()
		n.sess = nil
	}
}
