package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivanoskov/lead_bot/internal/model"
)

const (
	SinkStore    = "store"
	SinkNotifier = "notifier"
)

// SinkResult - итог одной попытки доставки лида
type SinkResult struct {
	Sink     string
	Err      error
	Duration time.Duration
}

func (r SinkResult) OK() bool { return r.Err == nil }

// deliver отправляет лид в хранилище и операторам параллельно.
// Ошибка одного получателя не влияет на другого.
func (e *Engine) deliver(ctx context.Context, lead model.Lead) []SinkResult {
	// отмена входящего контекста не должна терять лид, время ограничено sinkTimeout
	ctx = context.WithoutCancel(ctx)

	// без WithContext: ошибка одного получателя не отменяет другого
	results := make([]SinkResult, 2)
	var g errgroup.Group
	g.Go(func() error {
		results[0] = e.callSink(ctx, SinkStore, func(ctx context.Context) error {
			return e.store.AppendLead(ctx, lead)
		})
		return nil
	})
	g.Go(func() error {
		results[1] = e.callSink(ctx, SinkNotifier, func(ctx context.Context) error {
			return e.notifier.NotifyLead(ctx, lead)
		})
		return nil
	})
	_ = g.Wait()
	return results
}

// callSink ограничивает вызов таймаутом, даже если клиент не смотрит на ctx
func (e *Engine) callSink(ctx context.Context, name string, call func(context.Context) error) SinkResult {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, e.sinkTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if p := recover(); p != nil {
				done <- fmt.Errorf("panicked: %v", p)
			}
		}()
		done <- call(ctx)
	}()

	res := SinkResult{Sink: name}
	select {
	case err := <-done:
		if err != nil {
			res.Err = fmt.Errorf("%s: %w", name, err)
		}
	case <-ctx.Done():
		res.Err = fmt.Errorf("%s: %w", name, ctx.Err())
	}
	res.Duration = time.Since(start)
	return res
}
