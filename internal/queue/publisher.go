package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	publishBuffer  = 256
	dialTimeout    = 2 * time.Second
	publishTimeout = 5 * time.Second
)

var (
	// ErrPublisherClosed is returned by Publish after Close.
	ErrPublisherClosed = errors.New("publisher closed")
	// ErrBufferFull is returned when events arrive faster than the broker
	// accepts them.
	ErrBufferFull = errors.New("publish buffer full")
)

// Publisher sends booking audit events to RabbitMQ.  Publish only enqueues;
// a single background goroutine owns the connection, opening it lazily and
// reopening it after a failure, so callers never wait on the broker.
type Publisher struct {
	url   string
	queue string
	log   *zap.Logger

	events    chan BookingEvent
	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once

	// owned by the loop goroutine
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher returns a Publisher for the booking.events queue and starts
// its delivery goroutine.  Close stops it.
func NewPublisher(url string, log *zap.Logger) *Publisher {
	return newPublisher(url, log, publishBuffer)
}

func newPublisher(url string, log *zap.Logger, buffer int) *Publisher {
	p := &Publisher{
		url:     url,
		queue:   BookingEventsQueue,
		log:     log,
		events:  make(chan BookingEvent, buffer),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go p.loop()
	return p
}

// Publish hands ev to the delivery goroutine.  It never blocks: when the
// buffer is full the event is dropped and ErrBufferFull returned.
func (p *Publisher) Publish(_ context.Context, ev BookingEvent) error {
	select {
	case <-p.done:
		return ErrPublisherClosed
	default:
	}
	select {
	case p.events <- ev:
		return nil
	default:
		p.log.Warn("audit event buffer full", zap.String("event_type", ev.Type), zap.String("event_id", ev.EventID))
		return ErrBufferFull
	}
}

func (p *Publisher) loop() {
	defer close(p.stopped)
	defer p.reset()
	for {
		select {
		case ev := <-p.events:
			_ = p.send(ev)
		case <-p.done:
			p.flush()
			return
		}
	}
}

// flush delivers what is still buffered.  After the first failure the rest
// is dropped so shutdown is bounded by a single dial.
func (p *Publisher) flush() {
	dropped := 0
	for {
		select {
		case ev := <-p.events:
			if dropped > 0 {
				dropped++
				continue
			}
			if err := p.send(ev); err != nil {
				dropped++
			}
		default:
			if dropped > 0 {
				p.log.Warn("audit events dropped on shutdown", zap.Int("count", dropped))
			}
			return
		}
	}
}

// send marshals ev and routes it through the default exchange to the
// events queue.  Messages are persistent.
func (p *Publisher) send(ev BookingEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Error("audit event marshal failed", zap.String("event_type", ev.Type), zap.Error(err))
		return err
	}

	ch, err := p.channel()
	if err != nil {
		p.log.Warn("rabbitmq unavailable", zap.String("event_type", ev.Type), zap.Error(err))
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.EventID,
		Type:         ev.Type,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
		p.reset()
		p.log.Warn("rabbitmq publish failed", zap.String("event_type", ev.Type), zap.Error(err))
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}

// channel returns an open channel, dialing and declaring the queue when
// needed.
func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()

	conn, err := amqp.DialConfig(p.url, amqp.Config{Dial: amqp.DefaultDial(dialTimeout)})
	if err != nil {
		return nil, fmt.Errorf("dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("channel open: %w", err)
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("queue declare: %w", err)
	}
	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

// Close stops the delivery goroutine after it has tried to flush the
// buffer, then releases the broker connection.
func (p *Publisher) Close() error {
	p.closeOnce.Do(func() { close(p.done) })
	<-p.stopped
	return nil
}
