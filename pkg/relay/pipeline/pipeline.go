package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/ib-77/relay/pkg/relay"
	"github.com/ib-77/relay/pkg/relay/channel"
	"github.com/ib-77/relay/pkg/relay/core"
)

const consumerName = "consumer"

// Producer is the sending side handed to each producer function. It can
// only send payloads; Stop is reserved to the pipeline.
type Producer[T any] struct {
	name string
	id   uuid.UUID
	tx   *channel.Sender[relay.Message[T]]
	sent atomic.Int64
}

func (p *Producer[T]) Name() string {
	return p.name
}

func (p *Producer[T]) Id() uuid.UUID {
	return p.id
}

// Send enqueues body as a payload. relay.ErrDisconnected means the
// consumer is gone; it is not retried.
func (p *Producer[T]) Send(ctx context.Context, body T) error {
	if err := p.tx.Send(ctx, relay.Payload(body)); err != nil {
		return err
	}
	p.sent.Add(1)
	return nil
}

// Outcome describes how one producer or the consumer ended.
type Outcome struct {
	Name     string
	Id       uuid.UUID
	Sent     int64
	Duration time.Duration
	Err      error
}

// Report is the result of a joined pipeline.
type Report struct {
	State     State
	Reason    Reason
	Processed int64
	Producers []Outcome
}

// Pipeline connects any number of producers to one consumer through a
// channel of relay.Message[T].
type Pipeline[T any] struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    config
	tx     *channel.Sender[relay.Message[T]]

	consumer     *Consumer[T]
	consumerDone chan struct{}
	reason       Reason
	consumerErr  error

	wg       sync.WaitGroup
	mu       sync.Mutex
	outcomes []Outcome
	errs     []error

	closed atomic.Bool
	once   sync.Once
	report Report
	err    error
}

// New creates the channel and starts the consumer goroutine. Producers are
// added with Go and the whole pipeline is joined with Wait.
func New[T any](ctx context.Context, handle Handler[T], opts ...Option) *Pipeline[T] {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if !cfg.idleSet {
		cfg.idle = core.GetIdleTimeout(ctx, 0)
	}

	var (
		tx *channel.Sender[relay.Message[T]]
		rx *channel.Receiver[relay.Message[T]]
	)
	if cfg.capacity > 0 {
		tx, rx = channel.Bounded[relay.Message[T]](cfg.capacity)
	} else {
		tx, rx = channel.Unbounded[relay.Message[T]]()
	}

	producersCtx, cancel := context.WithCancel(ctx)
	p := &Pipeline[T]{
		ctx:          producersCtx,
		cancel:       cancel,
		cfg:          cfg,
		tx:           tx,
		consumer:     NewConsumer(rx, handle, cfg.idle),
		consumerDone: make(chan struct{}),
	}

	go func() {
		defer close(p.consumerDone)
		p.reason, p.consumerErr = p.consumer.Run(ctx)
	}()

	return p
}

// Consumer exposes the running consumer for observation.
func (p *Pipeline[T]) Consumer() *Consumer[T] {
	return p.consumer
}

// Go starts a producer on its own goroutine with a cloned sender handle.
// The handle is closed when fn returns. Panics if called after Wait.
func (p *Pipeline[T]) Go(name string, fn func(ctx context.Context, producer *Producer[T]) error) {
	if p.closed.Load() {
		panic("relay: Pipeline.Go called after Wait")
	}

	producer := &Producer[T]{
		name: name,
		id:   uuid.New(),
		tx:   p.tx.Clone(),
	}
	logger := core.Logger(p.ctx)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer producer.tx.Close()

		start := time.Now()
		err := core.Capture(func() error { return fn(p.ctx, producer) })
		outcome := Outcome{
			Name:     producer.name,
			Id:       producer.id,
			Sent:     producer.sent.Load(),
			Duration: time.Since(start),
		}

		if err != nil {
			outcome.Err = &relay.TaskError{Name: producer.name, Id: producer.id, Err: err}
			logger.Debug("producer failed", "name", producer.name, "err", err)
			if p.cfg.policy == FailFast {
				p.cancel()
			}
		}

		p.mu.Lock()
		p.outcomes = append(p.outcomes, outcome)
		if outcome.Err != nil {
			p.errs = append(p.errs, outcome.Err)
		}
		p.mu.Unlock()
	}()
}

// Wait joins every producer, then sends exactly one Stop and joins the
// consumer. Stop is therefore never sent ahead of a pending payload.
// Every producer error and a consumer failure are returned joined; later
// calls return the same result.
func (p *Pipeline[T]) Wait() (Report, error) {
	p.once.Do(func() {
		p.closed.Store(true)
		p.wg.Wait()

		// the consumer may already be gone (idle, failure): nothing to stop
		if err := p.tx.Send(context.Background(), relay.Stop[T]()); err != nil && !relay.IsDisconnected(err) {
			p.errs = append(p.errs, err)
		}
		p.tx.Close()
		<-p.consumerDone
		p.cancel()

		if p.consumerErr != nil {
			p.errs = append(p.errs, &relay.TaskError{Name: consumerName, Err: p.consumerErr})
		}

		p.report = Report{
			State:     p.consumer.State(),
			Reason:    p.reason,
			Processed: p.consumer.Processed(),
			Producers: p.outcomes,
		}
		p.err = errors.Join(p.errs...)
	})
	return p.report, p.err
}
