// Package realtime fans committed slot changes out to connected clients.
package realtime

import (
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/CoderHarshaVardhan/playX/pkg/logger"
)

// Subscription is an active subject subscription.
type Subscription interface {
	Unsubscribe() error
}

// Broker is the pub/sub transport behind slot rooms.
type Broker interface {
	Publish(subject string, data []byte) error
	Subscribe(subject string, fn func(data []byte)) (Subscription, error)
}

// ConnectNATS dials NATS with reconnects enabled.
func ConnectNATS(url string) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name("playx"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.Timeout(5 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.L().Warn("nats disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.L().Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			logger.L().Info("nats connection closed")
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return nc, nil
}

// NATSBroker shares slot rooms across API instances.
type NATSBroker struct {
	nc *nats.Conn
}

func NewNATSBroker(nc *nats.Conn) *NATSBroker {
	return &NATSBroker{nc: nc}
}

func (b *NATSBroker) Publish(subject string, data []byte) error {
	return b.nc.Publish(subject, data)
}

func (b *NATSBroker) Subscribe(subject string, fn func([]byte)) (Subscription, error) {
	sub, err := b.nc.Subscribe(subject, func(m *nats.Msg) { fn(m.Data) })
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", subject, err)
	}
	return sub, nil
}

// MemoryBroker delivers within a single process. Handlers run synchronously
// on the publishing goroutine.
type MemoryBroker struct {
	mu   sync.RWMutex
	next uint64
	subs map[string]map[uint64]func([]byte)
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: make(map[string]map[uint64]func([]byte))}
}

func (b *MemoryBroker) Publish(subject string, data []byte) error {
	b.mu.RLock()
	handlers := make([]func([]byte), 0, len(b.subs[subject]))
	for _, fn := range b.subs[subject] {
		handlers = append(handlers, fn)
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(data)
	}
	return nil
}

func (b *MemoryBroker) Subscribe(subject string, fn func([]byte)) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	if b.subs[subject] == nil {
		b.subs[subject] = make(map[uint64]func([]byte))
	}
	b.subs[subject][b.next] = fn
	return &memorySub{b: b, subject: subject, id: b.next}, nil
}

func (b *MemoryBroker) subscribers(subject string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[subject])
}

type memorySub struct {
	b       *MemoryBroker
	subject string
	id      uint64
}

func (s *memorySub) Unsubscribe() error {
	s.b.mu.Lock()
	defer s.b.mu.Unlock()
	delete(s.b.subs[s.subject], s.id)
	if len(s.b.subs[s.subject]) == 0 {
		delete(s.b.subs, s.subject)
	}
	return nil
}
