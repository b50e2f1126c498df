package natsstan

import (
	"context"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	stan "github.com/nats-io/stan.go"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/domain"
)

const (
	queueGroup     = "storefront-workers"
	handlerTimeout = 5 * time.Second
	ackWait        = 10 * time.Second
)

// Subscriber — читатель ленты товаров из NATS Streaming.
type Subscriber struct {
	ClusterID string
	ClientID  string
	URL       string
	Subject   string
	Durable   string
	Log       *zap.Logger
}

func (s *Subscriber) Subscribe(ctx context.Context, handler func(ctx context.Context, raw []byte) error) error {
	clientID := s.ClientID
	if clientID == "" {
		clientID = fmt.Sprintf("storefront-svc-%d", time.Now().UnixNano())
	}
	sc, err := stan.Connect(s.ClusterID, clientID, stan.NatsURL(s.URL))
	if err != nil {
		return errors.Wrap(err, "stan connect")
	}
	go func() {
		<-ctx.Done()
		sc.Close()
	}()
	_, err = sc.QueueSubscribe(s.Subject, queueGroup, func(m *stan.Msg) {
		if !deliver(m.Data, handler, s.Log) {
			return
		}
		if err := m.Ack(); err != nil {
			s.Log.Warn("ack failed", zap.Uint64("seq", m.Sequence), zap.Error(err))
		}
	}, stan.DurableName(s.Durable), stan.SetManualAckMode(), stan.AckWait(ackWait), stan.DeliverAllAvailable())
	if err != nil {
		sc.Close()
		return errors.Wrapf(err, "subscribe %s", s.Subject)
	}
	s.Log.Info("subscribed to product feed", zap.String("subject", s.Subject), zap.String("durable", s.Durable))
	return nil
}

// deliver передаёт сообщение обработчику и сообщает, нужно ли подтверждение.
// Невалидные сообщения подтверждаются: повторная доставка их не исправит.
func deliver(raw []byte, handler func(ctx context.Context, raw []byte) error, log *zap.Logger) bool {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()
	err := handler(ctx, raw)
	switch {
	case err == nil:
		return true
	case errors.Is(err, domain.ErrValidation):
		log.Warn("drop invalid product message", zap.Error(err), zap.ByteString("payload", raw))
		return true
	default:
		// не подтверждаем, даём сообщению переотправиться
		log.Error("handler error", zap.Error(err))
		return false
	}
}

var _ domain.MessageSubscriber = (*Subscriber)(nil)
