// Package app wires configuration to concrete storage backends and builds
// the registry and workspace the front ends share.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"coachboard/internal/config"
	"coachboard/internal/registry"
	"coachboard/internal/store"
	"coachboard/internal/store/redisstore"
	"coachboard/internal/store/s3store"
	"coachboard/internal/store/sqlstore"
	"coachboard/internal/workspace"
)

type App struct {
	Config    *config.Config
	Registry  *registry.Registry
	Workspace *workspace.Workspace
	// SaveErrors receives background save failures. Only the most recent
	// unread one is kept.
	SaveErrors <-chan error

	log     zerolog.Logger
	closers []func() error
}

// Open connects the configured stores and loads saved boards. A store that
// cannot be reached is an error. Saved data that cannot be read is logged
// and the workspace starts with one empty board.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	a := &App{Config: cfg, log: log}

	kv, blobs, err := a.openStores(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	saveErrs := make(chan error, 1)
	a.SaveErrors = saveErrs
	a.Registry = registry.New(registry.Options{
		Limits: cfg.Limits(),
		KV:     kv,
		Blobs:  blobs,
		Log:    log,
		OnSaveError: func(err error) {
			select {
			case saveErrs <- err:
			default:
			}
		},
	})
	a.Workspace = workspace.New(workspace.Options{
		Registry:  a.Registry,
		MinScale:  cfg.View.MinScale,
		MaxScale:  cfg.View.MaxScale,
		Tolerance: cfg.Hit.Tolerance,
		Log:       log,
	})
	if err := a.Workspace.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("could not load saved boards, starting fresh")
	}

	log.Debug().
		Str("store", cfg.Store.Driver).
		Str("blob", cfg.Blob.Driver).
		Int("boards", len(a.Registry.Boards())).
		Msg("workspace opened")
	return a, nil
}

func (a *App) openStores(ctx context.Context) (store.KV, store.Blobs, error) {
	cfg := a.Config

	var (
		kv    store.KV
		blobs store.Blobs
	)
	switch cfg.Store.Driver {
	case "memory":
		mem := store.NewMemory()
		kv, blobs = mem, mem.BlobStore()
	case "", "sqlite", "postgres":
		dsn := cfg.Store.DSN
		if dsn == "" && cfg.Store.Driver != "postgres" {
			path, err := cfg.DataPath("coachboard.db")
			if err != nil {
				return nil, nil, err
			}
			dsn = path
		}
		s, err := sqlstore.Open(cfg.Store.Driver, dsn, a.log)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, s.Close)
		kv, blobs = s, s.Blobs()
	case "redis":
		s, err := redisstore.Dial(ctx, cfg.Redis.Addr, cfg.Redis.DB)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, s.Close)
		kv, blobs = s, s.Blobs()
	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	switch cfg.Blob.Driver {
	case "", "store":
	case "memory":
		blobs = store.NewMemory().BlobStore()
	case "s3":
		s, err := s3store.Connect(ctx, s3store.Options{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Prefix:    "media/",
		})
		if err != nil {
			return nil, nil, err
		}
		blobs = s
	default:
		return nil, nil, fmt.Errorf("unknown blob driver %q", cfg.Blob.Driver)
	}
	return kv, blobs, nil
}

// Close waits for pending saves and releases the stores.
func (a *App) Close() error {
	if a.Registry != nil {
		a.Registry.Flush()
	}
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		errs = append(errs, a.closers[i]())
	}
	a.closers = nil
	return errors.Join(errs...)
}
