package orm

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	proto.Message
	Validate() error
}

// ModelBucket is a prefixed subspace of the database that stores models of a
// single type.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db quickex.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key value exists. It
	// returns ErrNotFound if no entity can be found.
	Has(db quickex.ReadOnlyKVStore, key []byte) error

	// Put saves given model in the database. Any existing entity stored
	// under the same key is overwritten.
	Put(db quickex.KVStore, key []byte, m Model) error

	// Create saves given model in the database only if no entity is
	// stored under given key yet. It returns ErrDuplicate otherwise.
	Create(db quickex.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db quickex.KVStore, key []byte) error

	// Scan returns an iterator over all stored models, ordered by key.
	// Use prefix to narrow the result down to keys starting with it.
	Scan(db quickex.ReadOnlyKVStore, prefix []byte, reverse bool) (*ModelIterator, error)

	// DBKey returns the full key used to store an entity in the database.
	DBKey(key []byte) []byte
}

// NewModelBucket returns a ModelBucket instance that stores models of the
// same type as given one under the "<name>:" prefix.
func NewModelBucket(name string, m Model) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("illegal bucket: %s", name))
	}
	t := reflect.TypeOf(m)
	if t.Kind() != reflect.Ptr {
		panic(fmt.Sprintf("model must be a pointer, got %T", m))
	}
	return &modelBucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		model:  t,
	}
}

type modelBucket struct {
	name   string
	prefix []byte
	model  reflect.Type
}

var _ ModelBucket = (*modelBucket)(nil)

// DBKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consequetive calls to overwrite the same byte array.
func (mb *modelBucket) DBKey(key []byte) []byte {
	l := len(mb.prefix)
	out := make([]byte, l+len(key))
	copy(out, mb.prefix)
	copy(out[l:], key)
	return out
}

func (mb *modelBucket) One(db quickex.ReadOnlyKVStore, key []byte, dest Model) error {
	if err := mb.checkType(dest); err != nil {
		return err
	}
	raw, err := db.Get(mb.DBKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot get from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	if err := quickex.Unmarshal(raw, dest); err != nil {
		return errors.Wrapf(err, "%s %X", mb.name, key)
	}
	return nil
}

func (mb *modelBucket) Has(db quickex.ReadOnlyKVStore, key []byte) error {
	ok, err := db.Has(mb.DBKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot query the database")
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	return nil
}

func (mb *modelBucket) Put(db quickex.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if err := mb.checkType(m); err != nil {
		return err
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := quickex.Marshal(m)
	if err != nil {
		return err
	}
	if err := db.Set(mb.DBKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Create(db quickex.KVStore, key []byte, m Model) error {
	switch err := mb.Has(db, key); {
	case err == nil:
		return errors.Wrapf(errors.ErrDuplicate, "%s %X", mb.name, key)
	case !errors.ErrNotFound.Is(err):
		return err
	}
	return mb.Put(db, key, m)
}

func (mb *modelBucket) Delete(db quickex.KVStore, key []byte) error {
	if err := mb.Has(db, key); err != nil {
		return err
	}
	if err := db.Delete(mb.DBKey(key)); err != nil {
		return errors.Wrap(err, "cannot delete from the database")
	}
	return nil
}

func (mb *modelBucket) Scan(db quickex.ReadOnlyKVStore, prefix []byte, reverse bool) (*ModelIterator, error) {
	start := mb.DBKey(prefix)
	end := prefixRangeEnd(start)
	var (
		it  quickex.Iterator
		err error
	)
	if reverse {
		it, err = db.ReverseIterator(start, end)
	} else {
		it, err = db.Iterator(start, end)
	}
	if err != nil {
		return nil, errors.Wrap(err, "cannot create iterator")
	}
	return &ModelIterator{
		it:     it,
		bucket: mb,
	}, nil
}

func (mb *modelBucket) checkType(m Model) error {
	if m == nil || reflect.TypeOf(m) != mb.model {
		return errors.Wrapf(errors.ErrType, "%s bucket cannot use %T", mb.name, m)
	}
	return nil
}

// prefixRangeEnd returns the smallest key that is greater than all keys
// starting with given prefix, or nil if there is no such key.
func prefixRangeEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}
