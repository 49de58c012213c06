/*
Package migration upgrades schema versioned entities to the current version
of their encoding.

Every persisted model carries metadata with the schema version it was
written with. A package that changes the encoding of a model registers a
migration function for every version, starting with 1:

	func init() {
		migration.MustRegister(1, &MyModel{}, migration.NoModification)
		migration.MustRegister(2, &MyModel{}, migrateMyModelTo2)
	}

Models loaded from the store are then passed through Apply, which runs all
missing migrations in order and validates the result.
*/
package migration
