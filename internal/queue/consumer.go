package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// AuditConsumer drains the booking.events queue and appends one line per
// event to an audit log file.
type AuditConsumer struct {
	url   string
	queue string
	path  string
	log   *zap.Logger

	mu sync.Mutex // serialises file appends
}

// NewAuditConsumer returns a consumer writing to path.
func NewAuditConsumer(url, path string, log *zap.Logger) *AuditConsumer {
	return &AuditConsumer{url: url, queue: BookingEventsQueue, path: path, log: log}
}

// Run connects to RabbitMQ and consumes until ctx is cancelled.  Dial
// failures are retried with exponential backoff capped at 30s and a closed
// delivery channel triggers a reconnect, so the HTTP server keeps running
// while the broker is away.
func (c *AuditConsumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.log.Warn("audit consumer: dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.log.Warn("audit consumer: consume loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *AuditConsumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.log.Warn("audit consumer: set QoS failed", zap.Error(err))
	}
	if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.Handle(d.Body); err != nil {
				c.log.Error("audit consumer: handle message failed", zap.Error(err))
				_ = d.Nack(false, false) // reject without requeue to avoid a poison loop
				continue
			}
			_ = d.Ack(false)
		}
	}
}

// Handle decodes one event and appends it to the audit file, creating the
// parent directory if needed.
func (c *AuditConsumer) Handle(body []byte) error {
	var ev BookingEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Type == "" {
		return errors.New("event without type")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(c.path), err)
	}
	f, err := os.OpenFile(c.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatAuditLine(ev)); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

// FormatAuditLine renders ev as a single human-readable line ending in \n.
func FormatAuditLine(ev BookingEvent) string {
	switch ev.Type {
	case EventBookingCreated:
		return fmt.Sprintf("[%s] Booking created | booking_id=%d | room_id=%d | start=%s | end=%s | booked_by=%q | event_id=%s\n",
			ev.OccurredAt, ev.BookingID, ev.RoomID, ev.StartTime, ev.EndTime, ev.BookedBy, ev.EventID)
	case EventBookingDeleted:
		return fmt.Sprintf("[%s] Booking deleted | booking_id=%d | event_id=%s\n",
			ev.OccurredAt, ev.BookingID, ev.EventID)
	default:
		return fmt.Sprintf("[%s] %s | booking_id=%d | event_id=%s\n",
			ev.OccurredAt, ev.Type, ev.BookingID, ev.EventID)
	}
}
