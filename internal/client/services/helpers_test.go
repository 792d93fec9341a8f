package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/client/storage"
	"github.com/dmitrijs2005/shopkeeper/internal/client/storage/fallback"
	"github.com/dmitrijs2005/shopkeeper/internal/client/storage/primary"
	"github.com/dmitrijs2005/shopkeeper/internal/cryptox"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/dmitrijs2005/shopkeeper/internal/ratelimit"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	primary  *primary.Store
	flatPath string
	facade   *storage.Facade
}

// newTestEnv wires a real facade over in-memory sqlite and a temp JSON file.
// withPrimary=false leaves the facade without a record store.
func newTestEnv(t *testing.T, withPrimary bool) *testEnv {
	t.Helper()

	env := &testEnv{flatPath: filepath.Join(t.TempDir(), "flat.json")}

	var rs storage.RecordStore
	if withPrimary {
		p, err := primary.Open(context.Background(), primary.DriverSQLite, ":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { _ = p.Close() })
		env.primary = p
		rs = p
	}

	env.facade = env.reopenFacade(t, rs)
	return env
}

// reopenFacade simulates a restart by re-reading the flat file.
func (e *testEnv) reopenFacade(t *testing.T, rs storage.RecordStore) *storage.Facade {
	t.Helper()
	fb, err := fallback.NewFileStore(e.flatPath, 0)
	require.NoError(t, err)
	return storage.NewFacade(rs, fb, logging.Discard())
}

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)}
}

var testHasher = cryptox.NewHasher("test-salt")

func newAccounts(t *testing.T, store Persister, clk *fakeClock) AccountService {
	t.Helper()
	svc := NewAccountService(store, AccountConfig{
		Hasher:  testHasher,
		Limiter: ratelimit.New(15 * time.Minute).WithClock(clk.now),
		Now:     clk.now,
	})
	require.NoError(t, svc.Init(context.Background()))
	return svc
}

func jeanInput() SignUpInput {
	return SignUpInput{Name: "Jean", Email: "jean@x.com", Phone: "+250788000000", Password: "secret1"}
}
