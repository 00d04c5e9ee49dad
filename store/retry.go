package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff"
)

// Retry retries failed saves and loads of the wrapped store with
// exponential backoff.  ErrNotFound, ErrName and context errors are not
// retried.
type Retry struct {
	Store

	maxElapsed time.Duration
	maxRetries uint64
	logger     *slog.Logger
}

type RetryOption func(*Retry)

// RetryMaxElapsed bounds the total time spent on one operation.
func RetryMaxElapsed(d time.Duration) RetryOption {
	return func(r *Retry) { r.maxElapsed = d }
}

// RetryMax bounds the number of retries after the first attempt.
func RetryMax(n uint64) RetryOption {
	return func(r *Retry) { r.maxRetries = n }
}

func RetryLogger(logger *slog.Logger) RetryOption {
	return func(r *Retry) { r.logger = logger }
}

func NewRetry(s Store, opts ...RetryOption) *Retry {
	r := &Retry{Store: s, maxElapsed: 30 * time.Second, maxRetries: 5}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

func (r *Retry) policy(ctx context.Context) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	eb.InitialInterval = 50 * time.Millisecond
	eb.MaxElapsedTime = r.maxElapsed
	return backoff.WithContext(backoff.WithMaxRetries(eb, r.maxRetries), ctx)
}

func permanent(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrName) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// do runs f until it succeeds, fails permanently or the policy gives up,
// returning the last error of f.  When ctx ended the retries, its error is
// joined in.
func (r *Retry) do(ctx context.Context, what, name string, f func() error) error {
	op := func() error {
		err := f()
		if err != nil && permanent(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, d time.Duration) {
		r.logger.Warn("store retry", "op", what, "name", name, "error", err, "wait", d)
	}
	err := backoff.RetryNotify(op, r.policy(ctx), notify)
	if err != nil && ctx.Err() != nil && !errors.Is(err, ctx.Err()) {
		return errors.Join(ctx.Err(), err)
	}
	return err
}

func (r *Retry) Save(ctx context.Context, name string, data []byte) error {
	return r.do(ctx, "save", name, func() error {
		return r.Store.Save(ctx, name, data)
	})
}

func (r *Retry) Load(ctx context.Context, name string) ([]byte, error) {
	var res []byte
	err := r.do(ctx, "load", name, func() error {
		d, err := r.Store.Load(ctx, name)
		if err != nil {
			return err
		}
		res = d
		return nil
	})
	return res, err
}
