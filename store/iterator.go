package store

import (
	"bytes"

	"github.com/google/btree"
	"github.com/iov-one/quickex/errors"
)

// collectItems returns a snapshot of all btree items within [start, end),
// ordered as requested. nil boundaries are open.
func collectItems(bt *btree.BTree, start, end []byte, reverse bool) []keyer {
	var items []keyer
	collect := func(item btree.Item) bool {
		items = append(items, item.(keyer))
		return true
	}
	switch {
	case start == nil && end == nil:
		bt.Ascend(collect)
	case start == nil:
		bt.AscendLessThan(bkey{end}, collect)
	case end == nil:
		bt.AscendGreaterOrEqual(bkey{start}, collect)
	default:
		bt.AscendRange(bkey{start}, bkey{end}, collect)
	}
	if reverse {
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
	}
	return items
}

// mergeIterator combines the cached items of a cache wrap with the
// iterator of its parent store. Cached items shadow parent values with the
// same key and deleted items hide them.
type mergeIterator struct {
	items   []keyer
	parent  Iterator
	reverse bool

	// one item look ahead of the parent iterator
	pKey, pValue []byte
	pDone        bool
	pErr         error
}

var _ Iterator = (*mergeIterator)(nil)

func newMergeIterator(items []keyer, parent Iterator, reverse bool) *mergeIterator {
	it := &mergeIterator{
		items:   items,
		parent:  parent,
		reverse: reverse,
	}
	it.advanceParent()
	return it
}

func (m *mergeIterator) advanceParent() {
	k, v, err := m.parent.Next()
	switch {
	case err == nil:
		m.pKey, m.pValue = k, v
	case errors.ErrIteratorDone.Is(err):
		m.pKey, m.pValue, m.pDone = nil, nil, true
	default:
		m.pErr = err
	}
}

// before returns true if a should be returned before b, given the
// iteration order.
func (m *mergeIterator) before(a, b []byte) bool {
	if m.reverse {
		return bytes.Compare(a, b) > 0
	}
	return bytes.Compare(a, b) < 0
}

func (m *mergeIterator) Next() (key, value []byte, err error) {
	for {
		if m.pErr != nil {
			return nil, nil, m.pErr
		}
		if len(m.items) == 0 {
			if m.pDone {
				return nil, nil, errors.ErrIteratorDone
			}
			key, value = m.pKey, m.pValue
			m.advanceParent()
			return key, value, nil
		}

		item := m.items[0]
		if !m.pDone && m.before(m.pKey, item.Key()) {
			key, value = m.pKey, m.pValue
			m.advanceParent()
			return key, value, nil
		}

		// Cached item wins. Drop the shadowed parent entry.
		m.items = m.items[1:]
		if !m.pDone && bytes.Equal(m.pKey, item.Key()) {
			m.advanceParent()
		}
		if set, ok := item.(setItem); ok {
			return set.key, set.value, nil
		}
		// deleted item, continue with the next one
	}
}

func (m *mergeIterator) Release() {
	m.parent.Release()
	m.items = nil
}
