package weavetest

import (
	"context"

	"github.com/iov-one/quickex"
)

// Decorator is a mock implementation of the quickex.Decorator interface.
//
// Set CheckErr or DeliverErr to force error response for corresponding method.
// If error attributes are not set then wrapped handler method is called and
// its result returned.
// Each method call is counted. Regardless of the method call result the
// counter is incremented.
type Decorator struct {
	checkCall int
	// CheckErr if set is returned by the Check method before calling
	// the wrapped handler.
	CheckErr error

	deliverCall int
	// DeliverErr if set is returned by the Deliver method before calling
	// the wrapped handler.
	DeliverErr error
}

var _ quickex.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx context.Context, info quickex.BlockInfo, db quickex.KVStore, tx quickex.Tx, next quickex.Checker) (*quickex.CheckResult, error) {
	d.checkCall++

	if d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, info, db, tx)
}

func (d *Decorator) Deliver(ctx context.Context, info quickex.BlockInfo, db quickex.KVStore, tx quickex.Tx, next quickex.Deliverer) (*quickex.DeliverResult, error) {
	d.deliverCall++

	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, info, db, tx)
}

func (d *Decorator) CheckCallCount() int {
	return d.checkCall
}

func (d *Decorator) DeliverCallCount() int {
	return d.deliverCall
}

func (d *Decorator) CallCount() int {
	return d.checkCall + d.deliverCall
}

// Decorate returns a handler that passes every call through given decorator.
func Decorate(h quickex.Handler, d quickex.Decorator) quickex.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn quickex.Handler
	dc quickex.Decorator
}

var _ quickex.Handler = (*decoratedHandler)(nil)

func (d *decoratedHandler) Check(ctx context.Context, info quickex.BlockInfo, db quickex.KVStore, tx quickex.Tx) (*quickex.CheckResult, error) {
	return d.dc.Check(ctx, info, db, tx, d.hn)
}

func (d *decoratedHandler) Deliver(ctx context.Context, info quickex.BlockInfo, db quickex.KVStore, tx quickex.Tx) (*quickex.DeliverResult, error) {
	return d.dc.Deliver(ctx, info, db, tx, d.hn)
}
