package service

import (
	"context"

	"golang.org/x/sync/singleflight"
)

// ListCache caches a full listing. A nil list from Get is a miss.
type ListCache[T any] interface {
	Get(ctx context.Context) ([]T, error)
	Set(ctx context.Context, list []T) error
	Invalidate(ctx context.Context) error
}

// cachedList serves load through c, collapsing concurrent misses into one load.
// The shared load outlives a cancelled caller, so other waiters still get its result.
// With no cache configured it calls load directly.
func cachedList[T any](ctx context.Context, sf *singleflight.Group, key string, c ListCache[T], load func(context.Context) ([]T, error)) ([]T, error) {
	if c == nil {
		return load(ctx)
	}
	ch := sf.DoChan(key, func() (interface{}, error) {
		ctx := context.WithoutCancel(ctx)
		if list, err := c.Get(ctx); err == nil && list != nil {
			return list, nil
		}
		list, err := load(ctx)
		if err != nil {
			return nil, err
		}
		_ = c.Set(ctx, list)
		return list, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]T), nil
	}
}

func invalidate[T any](ctx context.Context, c ListCache[T]) {
	if c != nil {
		_ = c.Invalidate(ctx)
	}
}
