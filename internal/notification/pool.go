package notification

import (
	"context"
	"log/slog"
	"sync"
)

// worker takes one message at a time from its own channel, advertising that
// channel on the shared pool whenever it is idle.
type worker struct {
	id         int
	workerPool chan chan Message
	jobChannel chan Message
	logger     *slog.Logger
}

func newWorker(id int, workerPool chan chan Message, logger *slog.Logger) *worker {
	return &worker{
		id:         id,
		workerPool: workerPool,
		jobChannel: make(chan Message),
		logger:     logger,
	}
}

func (w *worker) start(ctx context.Context, wg *sync.WaitGroup, deliver func(context.Context, Message)) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case w.workerPool <- w.jobChannel:
			case <-ctx.Done():
				w.logger.Debug("delivery worker shutting down", "worker_id", w.id)
				return
			}

			select {
			case msg := <-w.jobChannel:
				deliver(ctx, msg)
			case <-ctx.Done():
				w.logger.Debug("delivery worker shutting down", "worker_id", w.id)
				return
			}
		}
	}()
}

// deliveryPool fans decoded messages out to a fixed set of workers.
type deliveryPool struct {
	workerPool chan chan Message
	maxWorkers int
	logger     *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newDeliveryPool(maxWorkers int, logger *slog.Logger) *deliveryPool {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	return &deliveryPool{
		workerPool: make(chan chan Message, maxWorkers),
		maxWorkers: maxWorkers,
		logger:     logger,
	}
}

func (p *deliveryPool) start(ctx context.Context, deliver func(context.Context, Message)) {
	ctx, p.cancel = context.WithCancel(ctx)
	for i := 0; i < p.maxWorkers; i++ {
		newWorker(i, p.workerPool, p.logger).start(ctx, &p.wg, deliver)
	}
	p.logger.Info("delivery pool started", "max_workers", p.maxWorkers)
}

// submit blocks until a worker is free or ctx is done.
func (p *deliveryPool) submit(ctx context.Context, msg Message) bool {
	select {
	case jobChannel := <-p.workerPool:
		select {
		case jobChannel <- msg:
			return true
		case <-ctx.Done():
			return false
		}
	case <-ctx.Done():
		return false
	}
}

func (p *deliveryPool) shutdown() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
	p.logger.Info("delivery pool shutdown complete")
}
