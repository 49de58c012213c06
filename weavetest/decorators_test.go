package weavetest

import (
	"context"
	"testing"

	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/errors"
)

func TestSuccessfulDecorator(t *testing.T) {
	var (
		d Decorator
		h Handler
	)
	ctx := context.Background()

	_, _ = d.Check(ctx, quickex.BlockInfo{}, nil, nil, &h)
	assertHCounts(t, &h, 1, 0)

	_, _ = d.Deliver(ctx, quickex.BlockInfo{}, nil, nil, &h)
	assertHCounts(t, &h, 1, 1)
}

func TestDecoratorWithError(t *testing.T) {
	d := Decorator{
		CheckErr:   errors.ErrUnauthorized,
		DeliverErr: errors.ErrNotFound,
	}
	ctx := context.Background()

	// When using an error returning decorator, handler is never called.
	// Otherwise using nil would panic.
	var handler quickex.Handler

	_, err := d.Check(ctx, quickex.BlockInfo{}, nil, nil, handler)
	if want := errors.ErrUnauthorized; !want.Is(err) {
		t.Errorf("want %q, got %q", want, err)
	}

	_, err = d.Deliver(ctx, quickex.BlockInfo{}, nil, nil, handler)
	if want := errors.ErrNotFound; !want.Is(err) {
		t.Errorf("want %q, got %q", want, err)
	}
}

func TestDecorate(t *testing.T) {
	var (
		d Decorator
		h Handler
	)
	ctx := context.Background()
	hn := Decorate(&h, &d)

	_, _ = hn.Check(ctx, quickex.BlockInfo{}, nil, nil)
	_, _ = hn.Deliver(ctx, quickex.BlockInfo{}, nil, nil)

	assertHCounts(t, &h, 1, 1)
	if got := d.CallCount(); got != 2 {
		t.Fatalf("want 2 decorator calls, got %d", got)
	}
	if d.CheckCallCount() != 1 || d.DeliverCallCount() != 1 {
		t.Fatalf("unexpected decorator counts: %d/%d", d.CheckCallCount(), d.DeliverCallCount())
	}
}
