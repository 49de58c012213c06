package app

import (
	"context"
	"testing"

	"github.com/iov-one/quickex/errors"
	"github.com/iov-one/quickex/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	var (
		ctx  = context.Background()
		info = weavetest.BlockInfo(t, 3, now)
		r    = NewRouter()
		good = &weavetest.Handler{}
		bad  = &weavetest.Handler{DeliverErr: errors.ErrState}
	)
	r.Handle("good", good)
	r.Handle("bad/path", bad)

	// invalid registrations panic
	assert.Panics(t, func() { r.Handle("good", good) })
	assert.Panics(t, func() { r.Handle("l:7", good) })
	assert.Panics(t, func() { r.Handle("", good) })

	assert.Equal(t, []string{"bad/path", "good"}, r.Paths())

	_, err := r.Check(ctx, info, nil, txTo("good"))
	require.NoError(t, err)
	_, err = r.Deliver(ctx, info, nil, txTo("good"))
	require.NoError(t, err)
	assert.Equal(t, 2, good.CallCount())

	_, err = r.Deliver(ctx, info, nil, txTo("bad/path"))
	assert.True(t, errors.ErrState.Is(err))
	assert.Equal(t, 1, bad.CallCount())

	_, err = r.Deliver(ctx, info, nil, txTo("missing"))
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = r.Check(ctx, info, nil, txTo("missing"))
	assert.True(t, errors.ErrNotFound.Is(err))
	assert.Equal(t, 2, good.CallCount())

	_, err = r.Deliver(ctx, info, nil, &weavetest.Tx{Err: errors.ErrMsg})
	assert.True(t, errors.ErrMsg.Is(err))
}

func txTo(path string) *weavetest.Tx {
	return &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: path}}
}

func TestRouterPathsAreSorted(t *testing.T) {
	r := NewRouter()
	for _, p := range []string{"escrow/withdraw", "cash/send", "sigs/bump", "escrow/deposit", "a"} {
		r.Handle(p, &weavetest.Handler{})
	}
	want := []string{"a", "cash/send", "escrow/deposit", "escrow/withdraw", "sigs/bump"}
	// map iteration order varies between calls
	for i := 0; i < 20; i++ {
		assert.Equal(t, want, r.Paths())
	}
}
