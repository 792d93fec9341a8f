package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/dmitrijs2005/shopkeeper/internal/metrics"
)

// Facade writes to the primary record store and mirrors every logical value
// into the flat fallback. Writes never return errors; failures are logged and
// counted in metrics.StorageFailures.
type Facade struct {
	primary  RecordStore
	fallback KeyValueStore
	log      logging.Logger
}

// NewFacade builds a facade. primary may be nil when no record store is
// configured; fallback is required.
func NewFacade(primary RecordStore, fallback KeyValueStore, log logging.Logger) *Facade {
	if log == nil {
		log = logging.Discard()
	}
	return &Facade{
		primary:  primary,
		fallback: fallback,
		log:      log.With("component", "storage"),
	}
}

// Available reports whether a primary store is configured.
func (f *Facade) Available() bool {
	return f.primary != nil
}

// Save writes value (a Record or a RecordSet) to the primary, one record at a
// time, then mirrors the whole value to the fallback under flatKey.
func (f *Facade) Save(ctx context.Context, collection, flatKey string, value any) {
	if f.Available() {
		rows, err := toRows(value)
		if err != nil {
			f.fail(ctx, metrics.BackendPrimary, "encode", collection, flatKey, err)
		}
		for _, r := range rows {
			if err := f.primary.Put(ctx, collection, r); err != nil {
				f.fail(ctx, metrics.BackendPrimary, "put", collection, r.ID, err)
			}
		}
	} else {
		f.log.Debug(ctx, "primary store not configured, skipping", "collection", collection)
	}

	f.mirror(ctx, collection, flatKey, value)
}

// Replace swaps the whole primary collection for value in one transaction,
// then mirrors it like Save. Used where records can disappear.
func (f *Facade) Replace(ctx context.Context, collection, flatKey string, value any) {
	if f.Available() {
		rows, err := toRows(value)
		if err != nil {
			f.fail(ctx, metrics.BackendPrimary, "encode", collection, flatKey, err)
		} else if err := f.primary.Replace(ctx, collection, rows); err != nil {
			f.fail(ctx, metrics.BackendPrimary, "replace", collection, flatKey, err)
		}
	}

	f.mirror(ctx, collection, flatKey, value)
}

// SaveFlat writes value to the fallback only.
func (f *Facade) SaveFlat(ctx context.Context, flatKey string, value any) {
	f.mirror(ctx, "", flatKey, value)
}

func (f *Facade) mirror(ctx context.Context, collection, flatKey string, value any) {
	b, err := json.Marshal(value)
	if err != nil {
		f.fail(ctx, metrics.BackendFallback, "encode", collection, flatKey, err)
		return
	}
	if err := f.fallback.Put(ctx, flatKey, b); err != nil {
		f.fail(ctx, metrics.BackendFallback, "put", collection, flatKey, err)
	}
}

// Remove deletes flatKey from the fallback. Primary rows are kept.
func (f *Facade) Remove(ctx context.Context, collection, flatKey string) {
	if err := f.fallback.Delete(ctx, flatKey); err != nil {
		f.fail(ctx, metrics.BackendFallback, "delete", collection, flatKey, err)
	}
}

// Load decodes one primary record into dest.
func (f *Facade) Load(ctx context.Context, collection, id string, dest any) error {
	if !f.Available() {
		return common.ErrPrimaryUnavailable
	}

	row, err := f.primary.Get(ctx, collection, id)
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorNotFound
	}
	if err != nil {
		return f.degraded(ctx, "get", collection, err)
	}

	if err := json.Unmarshal(row.Data, dest); err != nil {
		return f.degraded(ctx, "decode", collection, err)
	}
	return nil
}

// LoadAll decodes every record of a collection into dest, a pointer to a
// slice.
func (f *Facade) LoadAll(ctx context.Context, collection string, dest any) error {
	if !f.Available() {
		return common.ErrPrimaryUnavailable
	}

	rows, err := f.primary.GetAll(ctx, collection)
	if err != nil {
		return f.degraded(ctx, "get_all", collection, err)
	}
	return f.decodeRows(ctx, collection, rows, dest)
}

// Find decodes records whose email or phone index matches into dest.
func (f *Facade) Find(ctx context.Context, collection, email, phone string, dest any) error {
	if !f.Available() {
		return common.ErrPrimaryUnavailable
	}

	rows, err := f.primary.FindByIndex(ctx, collection, email, phone)
	if err != nil {
		return f.degraded(ctx, "find", collection, err)
	}
	return f.decodeRows(ctx, collection, rows, dest)
}

// LoadFlat decodes the fallback value under flatKey into dest.
func (f *Facade) LoadFlat(ctx context.Context, flatKey string, dest any) error {
	b, err := f.fallback.Get(ctx, flatKey)
	if errors.Is(err, common.ErrorNotFound) {
		return common.ErrorNotFound
	}
	if err != nil {
		f.fail(ctx, metrics.BackendFallback, "get", "", flatKey, err)
		return fmt.Errorf("%w: %w", common.ErrStorageDegraded, err)
	}

	if err := json.Unmarshal(b, dest); err != nil {
		f.fail(ctx, metrics.BackendFallback, "decode", "", flatKey, err)
		return fmt.Errorf("%w: %w", common.ErrStorageDegraded, err)
	}
	return nil
}

func (f *Facade) decodeRows(ctx context.Context, collection string, rows []Row, dest any) error {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, r := range rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(r.Data)
	}
	buf.WriteByte(']')

	if err := json.Unmarshal(buf.Bytes(), dest); err != nil {
		return f.degraded(ctx, "decode", collection, err)
	}
	return nil
}

func (f *Facade) degraded(ctx context.Context, op, collection string, err error) error {
	f.fail(ctx, metrics.BackendPrimary, op, collection, "", err)
	return fmt.Errorf("%w: %w", common.ErrStorageDegraded, err)
}

func (f *Facade) fail(ctx context.Context, backend, op, collection, key string, err error) {
	metrics.StorageFailures.WithLabelValues(backend, op).Inc()
	f.log.Warn(ctx, "storage operation failed",
		"backend", backend,
		"op", op,
		"collection", collection,
		"key", key,
		"error", err,
	)
}

func toRows(value any) ([]Row, error) {
	var recs []Record
	switch v := value.(type) {
	case RecordSet:
		recs = v.Records()
	case Record:
		recs = []Record{v}
	default:
		return nil, fmt.Errorf("value of type %T is not a record", value)
	}

	rows := make([]Row, 0, len(recs))
	for _, rec := range recs {
		data, err := json.Marshal(rec)
		if err != nil {
			return nil, err
		}
		row := Row{ID: rec.RecordID(), Data: data}
		if idx, ok := rec.(Indexed); ok {
			row.Email, row.Phone = idx.RecordIndex()
		}
		rows = append(rows, row)
	}
	return rows, nil
}
