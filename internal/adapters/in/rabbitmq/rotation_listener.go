package rabbitmq

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/clinsys/lab-gateway/internal/config"
	"github.com/clinsys/lab-gateway/internal/core/ports/out"
)

type RotationResource string

const (
	RotationResourceAll         RotationResource = "_all_"
	RotationResourceCredentials RotationResource = "credentials"
	RotationResourceInstance    RotationResource = "instance"
)

type RotationAction string

const (
	RotationActionRotated RotationAction = "rotated"
	RotationActionUpdated RotationAction = "updated"
	RotationActionDeleted RotationAction = "deleted"
)

// RotationListener evicts cached clients and tokens when the admin
// workflow rotates a tenant's credentials or reconfigures an instance.
// The payload does not matter; everything it needs rides in the
// routing key.
type RotationListener struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	pool    out.ConnectionPort
	cfg     *config.Config
	logger  out.LoggerPort
}

// RotationRoutingKey is the parsed form of keys like:
// admin.lab-gateway.credentials.3f0e...c1.rotated
// admin.lab-gateway.instance.3f0e...c1.updated
// admin.lab-gateway.credentials._all_.rotated
type RotationRoutingKey struct {
	Source   string
	Receiver string
	Resource RotationResource
	TenantID string
	Action   RotationAction
}

// NewRotationListener dials the broker and opens a channel. The caller
// decides whether rotation listening is enabled at all; a constructed
// listener is never nil.
func NewRotationListener(pool out.ConnectionPort, cfg *config.Config, logger out.LoggerPort) (*RotationListener, error) {
	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Error("rabbitmq.connect.failed", out.LogFields{
			"error": err.Error(),
			"url":   cfg.RabbitMQ.URL,
		})
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("rabbitmq.channel.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return &RotationListener{
		conn:    conn,
		channel: channel,
		pool:    pool,
		cfg:     cfg,
		logger:  logger.WithModule("RotationListener"),
	}, nil
}

func (l *RotationListener) Start(ctx context.Context) error {
	queue, err := l.channel.QueueDeclare(
		l.cfg.RabbitMQ.Queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	for _, resource := range []RotationResource{RotationResourceCredentials, RotationResourceInstance} {
		bindingKey := fmt.Sprintf("*.lab-gateway.%s.*.*", resource)
		if err := l.channel.QueueBind(queue.Name, bindingKey, l.cfg.RabbitMQ.Exchange, false, nil); err != nil {
			return err
		}
	}

	msgs, err := l.channel.Consume(
		queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				if err := l.processMessage(ctx, msg); err != nil {
					l.logger.Warn("rotation.message.skipped", out.LogFields{
						"routingKey": msg.RoutingKey,
						"error":      err.Error(),
					})
				}
				// A malformed key is not retryable, so always ack.
				msg.Ack(false)
			}
		}
	}()

	l.logger.Info("rotation.queue.started", out.LogFields{
		"queue": queue.Name,
	})
	return nil
}

func (l *RotationListener) processMessage(ctx context.Context, msg amqp.Delivery) error {
	key, err := parseRotationRoutingKey(msg.RoutingKey)
	if err != nil {
		return err
	}

	if key.TenantID == string(RotationResourceAll) {
		l.pool.Clear(nil)
		l.logger.Info("rotation.cache.cleared_all", out.LogFields{
			"routingKey": msg.RoutingKey,
		})
		return nil
	}

	tenantID, err := uuid.Parse(key.TenantID)
	if err != nil {
		return fmt.Errorf("invalid tenant id in routing key %s: %v", msg.RoutingKey, err)
	}

	l.pool.Clear(&tenantID)
	l.logger.Info("rotation.cache.cleared", out.LogFields{
		"tenantId":   tenantID,
		"resource":   key.Resource,
		"action":     key.Action,
		"routingKey": msg.RoutingKey,
	})
	return nil
}

func parseRotationRoutingKey(routingKey string) (RotationRoutingKey, error) {
	parts := strings.Split(routingKey, ".")
	if len(parts) < 5 {
		return RotationRoutingKey{}, fmt.Errorf("invalid routing key: %s", routingKey)
	}

	return RotationRoutingKey{
		Source:   parts[0],
		Receiver: parts[1],
		Resource: RotationResource(parts[2]),
		TenantID: parts[3],
		Action:   RotationAction(parts[4]),
	}, nil
}

func (l *RotationListener) Stop() error {
	if l == nil || l.channel == nil {
		return nil
	}

	if err := l.channel.Close(); err != nil {
		return err
	}
	return l.conn.Close()
}
