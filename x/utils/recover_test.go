package utils

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/errors"
	"github.com/iov-one/quickex/store"
	"github.com/iov-one/quickex/weavetest"
)

func TestRecovery(t *testing.T) {
	var h panicHandler
	r := NewRecovery()

	ctx := context.Background()
	info := weavetest.BlockInfo(t, 1, time.Now())
	s := store.MemStore()

	// Panic handler panics. Test the test tool.
	assert.Panics(t, func() { _, _ = h.Check(ctx, info, s, nil) })
	assert.Panics(t, func() { _, _ = h.Deliver(ctx, info, s, nil) })

	// Recovery wrapped handler returns an error.
	_, err := r.Check(ctx, info, s, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))

	_, err = r.Deliver(ctx, info, s, nil, h)
	assert.True(t, errors.ErrPanic.Is(err))
}

type panicHandler struct{}

var _ quickex.Handler = panicHandler{}

func (p panicHandler) Check(ctx context.Context, info quickex.BlockInfo, store quickex.KVStore, tx quickex.Tx) (*quickex.CheckResult, error) {
	panic("check panic")
}

func (p panicHandler) Deliver(ctx context.Context, info quickex.BlockInfo, store quickex.KVStore, tx quickex.Tx) (*quickex.DeliverResult, error) {
	panic("deliver panic")
}
