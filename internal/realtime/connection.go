package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/ecom-labs/storefront/internal/metrics"
	"github.com/ecom-labs/storefront/internal/model"
)

// OrderEvent is one order status change pushed by the backend.
type OrderEvent struct {
	OrderID    string       `json:"orderId"`
	Status     model.Status `json:"status"`
	OccurredAt time.Time    `json:"occurredAt"`
}

type Handler func(ctx context.Context, event OrderEvent)

// Connection is the live order-events subscription the session owns.
// Disconnect must be idempotent; logout calls it unconditionally.
type Connection interface {
	Run(ctx context.Context)
	Disconnect() error
}

// messageReader is the slice of kafka.Reader the connection uses,
// abstracted so the read loop is testable without a broker.
type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// KafkaConnection subscribes to the order-events topic and hands each
// decoded event to the handler. One goroutine, sequential delivery.
type KafkaConnection struct {
	reader  messageReader
	topic   string
	handler Handler
	logger  *zap.Logger

	closeOnce sync.Once
	closeErr  error
	wg        sync.WaitGroup
}

func NewKafkaConnection(brokers []string, topic, groupID string, handler Handler, logger *zap.Logger) *KafkaConnection {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		GroupID:        groupID,
		Topic:          topic,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		MaxWait:        3 * time.Second,
		CommitInterval: time.Second,
	})
	return &KafkaConnection{
		reader:  reader,
		topic:   topic,
		handler: handler,
		logger:  logger,
	}
}

func (c *KafkaConnection) Run(ctx context.Context) {
	c.wg.Add(1)
	defer c.wg.Done()

	c.logger.Info("realtime connection established", zap.String("topic", c.topic))

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				// Cancelled or reader closed by Disconnect.
				return
			}
			c.logger.Warn("failed to read order event", zap.Error(err))
			continue
		}

		var event OrderEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.logger.Warn("skipping malformed order event",
				zap.Int64("offset", msg.Offset), zap.Error(err))
			continue
		}

		metrics.RealtimeEventsTotal.Inc()
		c.handler(ctx, event)
	}
}

// Disconnect closes the subscription and waits for the read loop to
// exit. Safe to call from any state, any number of times.
func (c *KafkaConnection) Disconnect() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.reader.Close()
		c.wg.Wait()
		c.logger.Info("realtime connection closed")
	})
	return c.closeErr
}

// NoopConnection satisfies Connection when realtime updates are
// disabled (no brokers configured) and in tests.
type NoopConnection struct{}

func (NoopConnection) Run(context.Context) {}

func (NoopConnection) Disconnect() error { return nil }
