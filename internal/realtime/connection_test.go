package realtime

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ecom-labs/storefront/internal/model"
)

// fakeReader feeds canned messages and then blocks until closed.
type fakeReader struct {
	messages chan kafka.Message
	closed   chan struct{}
	once     sync.Once
}

func newFakeReader(values ...string) *fakeReader {
	r := &fakeReader{
		messages: make(chan kafka.Message, len(values)),
		closed:   make(chan struct{}),
	}
	for _, v := range values {
		r.messages <- kafka.Message{Value: []byte(v)}
	}
	return r
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case msg := <-r.messages:
		return msg, nil
	case <-r.closed:
		return kafka.Message{}, io.EOF
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeReader) Close() error {
	r.once.Do(func() { close(r.closed) })
	return nil
}

func newTestConnection(reader messageReader, handler Handler) *KafkaConnection {
	return &KafkaConnection{
		reader:  reader,
		topic:   "order_events",
		handler: handler,
		logger:  zap.NewNop(),
	}
}

func TestConnection_DeliversDecodedEvents(t *testing.T) {
	reader := newFakeReader(
		`{"orderId":"o1","status":"SHIPPED","occurredAt":"2024-01-03T00:00:00Z"}`,
		`not json`, // malformed events are skipped, not fatal
		`{"orderId":"o2","status":"DELIVERED","occurredAt":"2024-01-04T00:00:00Z"}`,
	)

	var mu sync.Mutex
	var got []OrderEvent
	done := make(chan struct{})
	conn := newTestConnection(reader, func(_ context.Context, event OrderEvent) {
		mu.Lock()
		got = append(got, event)
		if len(got) == 2 {
			close(done)
		}
		mu.Unlock()
	})

	go conn.Run(context.Background())
	defer func() { _ = conn.Disconnect() }()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("events were not delivered")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 2)
	assert.Equal(t, "o1", got[0].OrderID)
	assert.Equal(t, model.StatusShipped, got[0].Status)
	assert.Equal(t, "o2", got[1].OrderID)
}

func TestConnection_DisconnectStopsRunAndIsIdempotent(t *testing.T) {
	reader := newFakeReader()
	conn := newTestConnection(reader, func(context.Context, OrderEvent) {
		t.Fatal("no events expected")
	})

	ran := make(chan struct{})
	go func() {
		conn.Run(context.Background())
		close(ran)
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, conn.Disconnect())

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("Run did not exit after Disconnect")
	}

	require.NoError(t, conn.Disconnect())
}

func TestNoopConnection(t *testing.T) {
	var conn Connection = NoopConnection{}
	conn.Run(context.Background())
	assert.NoError(t, conn.Disconnect())
	assert.NoError(t, conn.Disconnect())
}
