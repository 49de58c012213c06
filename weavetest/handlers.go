package weavetest

import (
	"context"

	"github.com/iov-one/quickex"
)

// Handler is a mock implementation of the quickex.Handler interface.
//
// It returns configured results and counts calls. When WriteKey is set,
// every call writes WriteKey/WriteValue to the store before returning, which
// allows testing of rollback behaviour.
type Handler struct {
	checkCall   int
	CheckResult quickex.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult quickex.DeliverResult
	DeliverErr    error

	WriteKey   []byte
	WriteValue []byte
}

var _ quickex.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx context.Context, info quickex.BlockInfo, db quickex.KVStore, tx quickex.Tx) (*quickex.CheckResult, error) {
	h.checkCall++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx context.Context, info quickex.BlockInfo, db quickex.KVStore, tx quickex.Tx) (*quickex.DeliverResult, error) {
	h.deliverCall++
	if err := h.write(db); err != nil {
		return nil, err
	}
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) write(db quickex.KVStore) error {
	if h.WriteKey == nil {
		return nil
	}
	return db.Set(h.WriteKey, h.WriteValue)
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
