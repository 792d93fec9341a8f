package cli

import (
	"context"
	"io"

	"github.com/dmitrijs2005/shopkeeper/internal/client/config"
	"github.com/dmitrijs2005/shopkeeper/internal/client/storage"
	"github.com/dmitrijs2005/shopkeeper/internal/client/storage/fallback"
	"github.com/dmitrijs2005/shopkeeper/internal/client/storage/primary"
	"github.com/dmitrijs2005/shopkeeper/internal/filex"
	"github.com/dmitrijs2005/shopkeeper/internal/logging"
	"github.com/redis/go-redis/v9"
)

type stores struct {
	primary  storage.RecordStore
	fallback storage.KeyValueStore
	closers  []io.Closer
}

// openStores prepares the data dir and opens both backends. A primary that
// cannot be opened is logged and left out; a redis fallback that cannot be
// reached is replaced by the file fallback. Only a file fallback failure is
// fatal.
func openStores(ctx context.Context, c *config.Config, log logging.Logger) (*stores, error) {
	dir, err := filex.EnsureDir(c.DataDir)
	if err != nil {
		return nil, err
	}
	c.DataDir = dir

	st := &stores{}

	if c.PrimaryDriver != config.PrimaryNone {
		p, err := primary.Open(ctx, c.PrimaryDriver, c.DSN())
		if err != nil {
			log.Warn(ctx, "primary store unavailable, continuing on fallback only",
				"driver", c.PrimaryDriver, "error", err)
		} else {
			st.primary = p
			st.closers = append(st.closers, p)
		}
	}

	if c.FallbackDriver == config.FallbackRedis {
		r, err := fallback.NewRedisStore(ctx, &redis.Options{Addr: c.RedisAddr}, c.FallbackQuota)
		if err == nil {
			st.fallback = r
			st.closers = append(st.closers, r)
			return st, nil
		}
		log.Warn(ctx, "redis fallback unavailable, using file", "addr", c.RedisAddr, "error", err)
	}

	f, err := fallback.NewFileStore(c.FallbackPath(), c.FallbackQuota)
	if err != nil {
		for _, cl := range st.closers {
			_ = cl.Close()
		}
		return nil, err
	}
	st.fallback = f
	return st, nil
}
