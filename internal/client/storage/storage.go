// Package storage is the persistence facade used by the shopkeeper services.
//
// Every write goes to a primary record store (one row per record, with
// secondary email/phone indexes) and is mirrored as one JSON document per
// logical value into a flat key-value fallback. Storage failures are logged
// and swallowed at this boundary.
package storage

import "context"

// KeyValueStore is the capability shared by the fallback adapters and the
// per-collection view of the primary store.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Row is one stored record as seen by the primary adapter.
type Row struct {
	ID    string
	Email string
	Phone string
	Data  []byte
}

// RecordStore is the primary adapter: named collections of rows keyed by id.
type RecordStore interface {
	Put(ctx context.Context, collection string, row Row) error
	Get(ctx context.Context, collection, id string) (Row, error)
	GetAll(ctx context.Context, collection string) ([]Row, error)
	FindByIndex(ctx context.Context, collection, email, phone string) ([]Row, error)
	Delete(ctx context.Context, collection, id string) error
	Clear(ctx context.Context, collection string) error
	Replace(ctx context.Context, collection string, rows []Row) error
}

// Record is a value with a stable primary key.
type Record interface {
	RecordID() string
}

// Indexed is implemented by records carrying secondary index values.
type Indexed interface {
	RecordIndex() (email, phone string)
}

// RecordSet is a logical value made of many records, such as the whole user
// collection.
type RecordSet interface {
	Records() []Record
}
