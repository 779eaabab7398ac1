// Package nats carries document batches over NATS JetStream. Delivery is
// at-least-once with explicit acknowledgment: a message is acked only after
// the handler has committed, so a crashed or failed pass is redelivered.
package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/ahmedafzal98/Document-Extraction/internal/core/domain"
	"github.com/ahmedafzal98/Document-Extraction/internal/infrastructure/resilience"
)

type Queue struct {
	conn     *nats.Conn
	js       nats.JetStreamContext
	stream   string
	subject  string
	durable  string
	executor *resilience.Executor
}

type Options struct {
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	FetchWait            time.Duration
	AckWait              time.Duration
	MaxDeliver           int
	RetryOnFailedConnect *bool
	ResilienceExecutor   *resilience.Executor
}

func New(url, stream, subject, durable string) (*Queue, error) {
	return NewWithOptions(url, stream, subject, durable, Options{})
}

func NewWithOptions(url, stream, subject, durable string, options Options) (*Queue, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	retryOnFailedConnect := true
	if options.RetryOnFailedConnect != nil {
		retryOnFailedConnect = *options.RetryOnFailedConnect
	}

	conn, err := nats.Connect(
		url,
		nats.Name("document-extraction"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(retryOnFailedConnect),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			slog.Warn("nats_disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			slog.Info("nats_reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("jetstream context: %w", err)
	}

	q := &Queue{
		conn:     conn,
		js:       js,
		stream:   stream,
		subject:  subject,
		durable:  durable,
		executor: options.ResilienceExecutor,
	}
	if err := q.ensureStream(options); err != nil {
		conn.Close()
		return nil, err
	}
	return q, nil
}

func (q *Queue) ensureStream(options Options) error {
	_, err := q.js.StreamInfo(q.stream)
	if err == nil {
		return nil
	}
	if !errors.Is(err, nats.ErrStreamNotFound) {
		return fmt.Errorf("stream info: %w", err)
	}

	ackWait := options.AckWait
	if ackWait <= 0 {
		ackWait = 10 * time.Minute
	}
	maxDeliver := options.MaxDeliver
	if maxDeliver <= 0 {
		maxDeliver = 5
	}

	if _, err := q.js.AddStream(&nats.StreamConfig{
		Name:      q.stream,
		Subjects:  []string{q.subject},
		Retention: nats.WorkQueuePolicy,
	}); err != nil {
		return fmt.Errorf("add stream: %w", err)
	}
	if _, err := q.js.AddConsumer(q.stream, &nats.ConsumerConfig{
		Durable:    q.durable,
		AckPolicy:  nats.AckExplicitPolicy,
		AckWait:    ackWait,
		MaxDeliver: maxDeliver,
	}); err != nil {
		return fmt.Errorf("add consumer: %w", err)
	}
	return nil
}

func (q *Queue) Close() {
	if q.conn != nil {
		q.conn.Close()
	}
}

func (q *Queue) PublishDocumentBatch(ctx context.Context, batch domain.DocumentBatch) error {
	data, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("marshal document batch: %w", err)
	}

	call := func(callCtx context.Context) error {
		if _, err := q.js.Publish(q.subject, data, nats.Context(callCtx)); err != nil {
			return fmt.Errorf("jetstream publish: %w", err)
		}
		return nil
	}

	if q.executor != nil {
		err = q.executor.Execute(ctx, "nats.publish", call, classifyNATSError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return wrapTemporaryIfNeeded(err)
	}
	return nil
}

// SubscribeDocumentBatches pulls messages one at a time and processes each
// synchronously to completion before acknowledging. On context cancellation
// it stops fetching, lets the in-flight message finish and returns.
func (q *Queue) SubscribeDocumentBatches(ctx context.Context, handler func(context.Context, domain.DocumentBatch) error) error {
	sub, err := q.js.PullSubscribe(q.subject, q.durable, nats.Bind(q.stream, q.durable))
	if err != nil {
		return fmt.Errorf("jetstream pull subscribe: %w", err)
	}

	fetchWait := 5 * time.Second
	for {
		if ctx.Err() != nil {
			return nil
		}

		msgs, err := sub.Fetch(1, nats.MaxWait(fetchWait))
		if err != nil {
			if errors.Is(err, nats.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			if errors.Is(err, context.Canceled) {
				return nil
			}
			slog.Error("queue_fetch_failed", "error", err)
			continue
		}

		for _, msg := range msgs {
			q.handleMessage(ctx, msg, handler)
		}
	}
}

// handleMessage acks only after the handler succeeds, or when the failure is
// terminal and redelivery could never help. Transient failures are nacked
// for redelivery. A single bad message never stops the listener.
func (q *Queue) handleMessage(ctx context.Context, msg *nats.Msg, handler func(context.Context, domain.DocumentBatch) error) {
	var batch domain.DocumentBatch
	if err := json.Unmarshal(msg.Data, &batch); err != nil {
		slog.Error("queue_message_malformed", "error", err)
		if err := msg.Term(); err != nil {
			slog.Error("queue_term_failed", "error", err)
		}
		return
	}

	err := handler(ctx, batch)
	switch {
	case err == nil:
		q.ack(msg)
	case domain.IsTerminal(err):
		slog.Warn("queue_message_terminal_failure", "error", err)
		q.ack(msg)
	default:
		slog.Error("queue_message_failed", "error", err)
		if err := msg.Nak(); err != nil {
			slog.Error("queue_nak_failed", "error", err)
		}
	}
}

func (q *Queue) ack(msg *nats.Msg) {
	// AckSync bounds the acknowledgment round trip; an unconfirmed ack means
	// redelivery, which downstream persistence tolerates.
	ackCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := msg.AckSync(nats.Context(ackCtx)); err != nil {
		slog.Error("queue_ack_failed", "error", err)
	}
}
