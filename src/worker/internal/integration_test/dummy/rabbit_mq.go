package dummy

import (
	"sync"

	"github.com/rabbitmq/amqp091-go"
	"github.com/veedubyou/stem-splitter-be/src/shared/lib/rabbitmq"
)

var _ rabbitmq.Publisher = &RabbitMQ{}
var _ amqp091.Acknowledger = &RabbitMQ{}

func NewRabbitMQ() *RabbitMQ {
	return &RabbitMQ{
		messages: make(chan amqp091.Delivery, 100),
	}
}

// RabbitMQ stands in for both ends of the queue: published messages come
// back out of Consume, and ack/nack bookkeeping is observable.
type RabbitMQ struct {
	Unavailable bool
	AckCounter  int
	NackCounter int

	messages  chan amqp091.Delivery
	closeOnce sync.Once
	mutex     sync.Mutex
}

func (r *RabbitMQ) Publish(msg amqp091.Publishing) error {
	if r.Unavailable {
		return NetworkFailure
	}

	r.messages <- amqp091.Delivery{
		Acknowledger: r,
		Type:         msg.Type,
		Body:         msg.Body,
	}

	return nil
}

func (r *RabbitMQ) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp091.Table) (<-chan amqp091.Delivery, error) {
	if r.Unavailable {
		return nil, NetworkFailure
	}

	return r.messages, nil
}

func (r *RabbitMQ) Close() error {
	r.closeOnce.Do(func() {
		close(r.messages)
	})

	return nil
}

func (r *RabbitMQ) Ack(tag uint64, multiple bool) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.AckCounter++
	return nil
}

func (r *RabbitMQ) Nack(tag uint64, multiple bool, requeue bool) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.NackCounter++
	return nil
}

func (r *RabbitMQ) Reject(tag uint64, requeue bool) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.NackCounter++
	return nil
}
