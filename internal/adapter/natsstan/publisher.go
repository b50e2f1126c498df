package natsstan

import (
	"github.com/go-faster/errors"
	stan "github.com/nats-io/stan.go"
)

// Publisher отправляет сообщения в ленту товаров.
type Publisher struct {
	conn    stan.Conn
	subject string
}

func Dial(clusterID, clientID, url, subject string) (*Publisher, error) {
	sc, err := stan.Connect(clusterID, clientID, stan.NatsURL(url))
	if err != nil {
		return nil, errors.Wrap(err, "stan connect")
	}
	return &Publisher{conn: sc, subject: subject}, nil
}

func (p *Publisher) Publish(raw []byte) error {
	return errors.Wrapf(p.conn.Publish(p.subject, raw), "publish to %s", p.subject)
}

func (p *Publisher) Close() error {
	return p.conn.Close()
}
