package storage_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/client/models"
	"github.com/dmitrijs2005/shopkeeper/internal/client/storage"
	"github.com/dmitrijs2005/shopkeeper/internal/client/storage/fallback"
	"github.com/dmitrijs2005/shopkeeper/internal/client/storage/primary"
	"github.com/dmitrijs2005/shopkeeper/internal/common"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/dmitrijs2005/shopkeeper/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingKV struct {
	err error
}

func (f failingKV) Get(context.Context, string) ([]byte, error) { return nil, f.err }
func (f failingKV) Put(context.Context, string, []byte) error   { return f.err }
func (f failingKV) Delete(context.Context, string) error        { return f.err }

func newPrimary(t *testing.T) *primary.Store {
	t.Helper()
	s, err := primary.Open(context.Background(), primary.DriverSQLite, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newFallback(t *testing.T, quota int) *fallback.FileStore {
	t.Helper()
	s, err := fallback.NewFileStore(filepath.Join(t.TempDir(), "flat.json"), quota)
	require.NoError(t, err)
	return s
}

func sampleUsers() models.Users {
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return models.Users{
		{ID: "u1", Name: "Alice", Email: "alice@example.com", Phone: "+111", PasswordHash: "h1", CreatedAt: created, Orders: []models.Order{}},
		{ID: "u2", Name: "Bob", Email: "bob@example.com", Phone: "+222", PasswordHash: "h2", CreatedAt: created, Orders: []models.Order{}},
	}
}

func TestFacade_SaveMirrorsToBothBackends(t *testing.T) {
	ctx := context.Background()
	f := storage.NewFacade(newPrimary(t), newFallback(t, 0), logging.Discard())
	users := sampleUsers()

	f.Save(ctx, common.CollectionUsers, common.FlatKeyUsers, users)

	var fromPrimary models.Users
	require.NoError(t, f.LoadAll(ctx, common.CollectionUsers, &fromPrimary))
	assert.Equal(t, users, fromPrimary)

	var fromFlat models.Users
	require.NoError(t, f.LoadFlat(ctx, common.FlatKeyUsers, &fromFlat))
	assert.Equal(t, users, fromFlat)

	var one models.User
	require.NoError(t, f.Load(ctx, common.CollectionUsers, "u2", &one))
	assert.Equal(t, users[1], one)
}

func TestFacade_SaveSingleRecord(t *testing.T) {
	ctx := context.Background()
	f := storage.NewFacade(newPrimary(t), newFallback(t, 0), nil)

	u := sampleUsers()[0]
	f.Save(ctx, common.CollectionUsers, "lastUser", u)

	var got models.User
	require.NoError(t, f.Load(ctx, common.CollectionUsers, u.ID, &got))
	assert.Equal(t, u, got)
}

func TestFacade_LoadMissing(t *testing.T) {
	ctx := context.Background()
	f := storage.NewFacade(newPrimary(t), newFallback(t, 0), nil)

	var u models.User
	assert.ErrorIs(t, f.Load(ctx, common.CollectionUsers, "nope", &u), common.ErrorNotFound)
	assert.ErrorIs(t, f.LoadFlat(ctx, common.FlatKeyUsers, &u), common.ErrorNotFound)

	var all models.Users
	require.NoError(t, f.LoadAll(ctx, common.CollectionUsers, &all))
	assert.Empty(t, all)
}

func TestFacade_NoPrimaryFallbackRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := storage.NewFacade(nil, newFallback(t, 0), nil)
	assert.False(t, f.Available())

	users := sampleUsers()
	f.Save(ctx, common.CollectionUsers, common.FlatKeyUsers, users)

	var all models.Users
	assert.ErrorIs(t, f.LoadAll(ctx, common.CollectionUsers, &all), common.ErrPrimaryUnavailable)
	assert.ErrorIs(t, f.Find(ctx, common.CollectionOrders, "a", "b", &all), common.ErrPrimaryUnavailable)

	require.NoError(t, f.LoadFlat(ctx, common.FlatKeyUsers, &all))
	assert.Equal(t, users, all)
}

func TestFacade_PrimaryFailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	p := newPrimary(t)
	require.NoError(t, p.Close())

	f := storage.NewFacade(p, newFallback(t, 0), nil)
	before := testutil.ToFloat64(metrics.StorageFailures.WithLabelValues(metrics.BackendPrimary, "put"))

	users := sampleUsers()
	f.Save(ctx, common.CollectionUsers, common.FlatKeyUsers, users)

	after := testutil.ToFloat64(metrics.StorageFailures.WithLabelValues(metrics.BackendPrimary, "put"))
	assert.Equal(t, before+2, after, "one failure per record")

	var all models.Users
	err := f.LoadAll(ctx, common.CollectionUsers, &all)
	assert.ErrorIs(t, err, common.ErrStorageDegraded)

	require.NoError(t, f.LoadFlat(ctx, common.FlatKeyUsers, &all))
	assert.Equal(t, users, all)
}

func TestFacade_FallbackQuotaIsSwallowed(t *testing.T) {
	ctx := context.Background()
	f := storage.NewFacade(newPrimary(t), newFallback(t, 16), nil)

	users := sampleUsers()
	f.Save(ctx, common.CollectionUsers, common.FlatKeyUsers, users)

	var flat models.Users
	assert.ErrorIs(t, f.LoadFlat(ctx, common.FlatKeyUsers, &flat), common.ErrorNotFound)

	var all models.Users
	require.NoError(t, f.LoadAll(ctx, common.CollectionUsers, &all))
	assert.Len(t, all, 2)
}

func TestFacade_FallbackErrorsDegraded(t *testing.T) {
	ctx := context.Background()
	f := storage.NewFacade(nil, failingKV{err: errors.New("disk gone")}, nil)

	f.Save(ctx, common.CollectionUsers, common.FlatKeyUsers, sampleUsers())
	f.Remove(ctx, common.CollectionUsers, common.FlatKeyCurrentUser)

	var all models.Users
	assert.ErrorIs(t, f.LoadFlat(ctx, common.FlatKeyUsers, &all), common.ErrStorageDegraded)
}

func TestFacade_RemoveKeepsPrimaryRows(t *testing.T) {
	ctx := context.Background()
	f := storage.NewFacade(newPrimary(t), newFallback(t, 0), nil)

	users := sampleUsers()
	f.Save(ctx, common.CollectionUsers, common.FlatKeyUsers, users)
	f.SaveFlat(ctx, common.FlatKeyCurrentUser, models.SessionPointer{ID: "u1"})

	var ptr models.SessionPointer
	require.NoError(t, f.LoadFlat(ctx, common.FlatKeyCurrentUser, &ptr))
	assert.Equal(t, "u1", ptr.ID)

	f.Remove(ctx, common.CollectionUsers, common.FlatKeyCurrentUser)

	assert.ErrorIs(t, f.LoadFlat(ctx, common.FlatKeyCurrentUser, &ptr), common.ErrorNotFound)

	var all models.Users
	require.NoError(t, f.LoadAll(ctx, common.CollectionUsers, &all))
	assert.Len(t, all, 2)
}

func TestFacade_Find(t *testing.T) {
	ctx := context.Background()
	f := storage.NewFacade(newPrimary(t), newFallback(t, 0), nil)

	orders := models.Orders{
		{ID: "o1", Customer: models.Customer{Email: "alice@example.com", Phone: "+999"}, Status: models.StatusPending},
		{ID: "o2", Customer: models.Customer{Email: "x@example.com", Phone: "+111"}, Status: models.StatusShipped},
		{ID: "o3", Customer: models.Customer{Email: "bob@example.com", Phone: "+222"}, Status: models.StatusPending},
	}
	f.Save(ctx, common.CollectionOrders, common.FlatKeyOrders, orders)

	var got models.Orders
	require.NoError(t, f.Find(ctx, common.CollectionOrders, "alice@example.com", "+111", &got))
	require.Len(t, got, 2)
	assert.Equal(t, "o1", got[0].ID)
	assert.Equal(t, "o2", got[1].ID)
}

func TestFacade_ReplaceDropsMissingRecords(t *testing.T) {
	ctx := context.Background()
	f := storage.NewFacade(newPrimary(t), newFallback(t, 0), nil)

	f.Replace(ctx, common.CollectionCart, common.FlatKeyCart, models.Cart{
		{ID: "p1", ProductID: "p1", Quantity: 1},
		{ID: "p2", ProductID: "p2", Quantity: 1},
	})
	f.Replace(ctx, common.CollectionCart, common.FlatKeyCart, models.Cart{
		{ID: "p2", ProductID: "p2", Quantity: 3},
	})

	var cart models.Cart
	require.NoError(t, f.LoadAll(ctx, common.CollectionCart, &cart))
	require.Len(t, cart, 1)
	assert.Equal(t, 3, cart[0].Quantity)

	var flat models.Cart
	require.NoError(t, f.LoadFlat(ctx, common.FlatKeyCart, &flat))
	assert.Equal(t, cart, flat)
}

func TestFacade_SaveNonRecordSkipsPrimary(t *testing.T) {
	ctx := context.Background()
	f := storage.NewFacade(newPrimary(t), newFallback(t, 0), nil)
	before := testutil.ToFloat64(metrics.StorageFailures.WithLabelValues(metrics.BackendPrimary, "encode"))

	f.Save(ctx, common.CollectionAnalytics, "visits", map[string]int{"home": 3})

	after := testutil.ToFloat64(metrics.StorageFailures.WithLabelValues(metrics.BackendPrimary, "encode"))
	assert.Equal(t, before+1, after)

	var got map[string]int
	require.NoError(t, f.LoadFlat(ctx, "visits", &got))
	assert.Equal(t, 3, got["home"])
}
