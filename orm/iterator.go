package orm

import (
	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/errors"
)

// ModelIterator decodes models stored in a bucket while iterating over them.
type ModelIterator struct {
	it     quickex.Iterator
	bucket *modelBucket
}

// Next loads the next model into given destination and returns its key,
// without the bucket prefix. It returns ErrIteratorDone once all models were
// consumed.
func (m *ModelIterator) Next(dest Model) ([]byte, error) {
	key, value, err := m.it.Next()
	if err != nil {
		return nil, err
	}
	if err := m.bucket.checkType(dest); err != nil {
		return nil, err
	}
	if err := quickex.Unmarshal(value, dest); err != nil {
		return nil, errors.Wrapf(err, "%s %X", m.bucket.name, key)
	}
	return key[len(m.bucket.prefix):], nil
}

// Release releases the underlying database iterator.
func (m *ModelIterator) Release() {
	m.it.Release()
}
