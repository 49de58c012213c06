package migration

import (
	"reflect"

	"github.com/iov-one/quickex"
	"github.com/iov-one/quickex/errors"
)

// Migratable is implemented by all schema versioned entities.
type Migratable interface {
	GetMetadata() *quickex.Metadata
	Validate() error
}

// Migrator is a function that migrates an entity from version
// requiredVersion-1 to the version it was registered for.
type Migrator func(db quickex.ReadOnlyKVStore, m Migratable) error

// NoModification is a migration function that migrates data that requires no
// change.
func NoModification(db quickex.ReadOnlyKVStore, m Migratable) error {
	return nil
}

func newRegister() *register {
	return &register{
		handlers: make(map[payloadVersion]Migrator),
	}
}

type register struct {
	handlers map[payloadVersion]Migrator
}

// payloadVersion references an entity type at a given schema version.
type payloadVersion struct {
	payload reflect.Type
	version uint32
}

func structType(m Migratable) (reflect.Type, error) {
	tp := reflect.TypeOf(m)
	for tp != nil && tp.Kind() == reflect.Ptr {
		tp = tp.Elem()
	}
	if tp == nil || tp.Kind() != reflect.Struct {
		return nil, errors.Wrapf(errors.ErrType, "only struct can be migrated, got %T", m)
	}
	return tp, nil
}

func (r *register) MustRegister(migrationTo uint32, m Migratable, fn Migrator) {
	if err := r.Register(migrationTo, m, fn); err != nil {
		panic(err)
	}
}

// Register adds a migration to given version. Migrations must be registered
// in order, without gaps, starting with version 1.
func (r *register) Register(migrationTo uint32, m Migratable, fn Migrator) error {
	if migrationTo < 1 {
		return errors.Wrap(errors.ErrInput, "migration version must be at least 1")
	}
	tp, err := structType(m)
	if err != nil {
		return err
	}
	if migrationTo > 1 {
		if _, ok := r.handlers[payloadVersion{payload: tp, version: migrationTo - 1}]; !ok {
			return errors.Wrapf(errors.ErrInput, "missing %d version migration", migrationTo-1)
		}
	}
	pv := payloadVersion{payload: tp, version: migrationTo}
	if _, ok := r.handlers[pv]; ok {
		return errors.Wrapf(errors.ErrDuplicate, "already registered: %s.%s:%d", tp.PkgPath(), tp.Name(), migrationTo)
	}
	r.handlers[pv] = fn
	return nil
}

func (r *register) Apply(db quickex.ReadOnlyKVStore, m Migratable, migrateTo uint32) error {
	if migrateTo < 1 {
		return errors.Wrap(errors.ErrInput, "minimal allowed version is 1")
	}
	tp, err := structType(m)
	if err != nil {
		return err
	}
	meta := m.GetMetadata()
	if err := meta.Validate(); err != nil {
		return errors.Wrap(err, "cannot migrate")
	}
	if meta.Schema > migrateTo {
		return errors.Wrapf(errors.ErrSchema, "schema %d is newer than supported %d", meta.Schema, migrateTo)
	}

	for v := meta.Schema + 1; v <= migrateTo; v++ {
		migrate, ok := r.handlers[payloadVersion{payload: tp, version: v}]
		if !ok {
			return errors.Wrapf(errors.ErrSchema, "migration to version %d missing", v)
		}
		if err := migrate(db, m); err != nil {
			return errors.Wrapf(err, "migration to version %d", v)
		}
		meta.Schema = v
	}

	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "validation")
	}
	return nil
}

// reg is the register used at runtime. Register is declared as a separate
// type so that it can be tested without the global state.
var reg = newRegister()

// MustRegister adds a migration to the global register. Use it in package
// init functions only.
func MustRegister(migrationTo uint32, m Migratable, fn Migrator) {
	reg.MustRegister(migrationTo, m, fn)
}

// Apply updates an entity by applying all missing migrations up to given
// version. Changes are applied in place, so when this function fails some of
// the migrations might already be applied.
//
// Validation is called only on the final version of the entity.
func Apply(db quickex.ReadOnlyKVStore, m Migratable, migrateTo uint32) error {
	return reg.Apply(db, m, migrateTo)
}
