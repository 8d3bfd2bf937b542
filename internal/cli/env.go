package cli

import (
	"context"
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/client"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/localcache"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/recipes"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/seed"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/session"
)

// env is the application root of one command: the local cache, the backend
// client, the session and the layers built on them.
type env struct {
	cache    *localcache.SQLiteCache
	client   *client.Client
	session  *session.Session
	access   *recipes.Access
	migrator *seed.Migrator

	// restoreErr is set when a stored session could not be checked, so the
	// identity is unknown rather than absent.
	restoreErr error
}

func openEnv(ctx context.Context, opts *RootOptions) (*env, error) {
	cache, err := localcache.Open(ctx, opts.CachePath)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "cannot open local cache", err)
	}
	if err := seed.SeedLocal(ctx, cache, time.Now()); err != nil {
		slog.Warn("failed to seed local recipes", "error", err)
	}

	cl := client.New(opts.APIURL, opts.Timeout, cache)
	sess := session.New(cl)
	restoreErr := cl.Restore(ctx)
	if restoreErr != nil {
		slog.Warn("failed to restore session", "error", restoreErr)
	}
	if _, err := sess.Wait(ctx); err != nil {
		sess.Close()
		_ = cache.Close()
		return nil, err
	}

	return &env{
		cache:    cache,
		client:   cl,
		session:  sess,
		access:   recipes.NewAccess(cl),
		migrator: seed.NewMigrator(cache, cl),

		restoreErr: restoreErr,
	}, nil
}

func (e *env) close() {
	e.session.Close()
	if err := e.cache.Close(); err != nil {
		slog.Warn("failed to close local cache", "error", err)
	}
}

// identity returns the signed-in identity, nil when nobody is signed in, or
// an error when a stored session could not be checked.
func (e *env) identity() (*session.Identity, error) {
	if id := e.session.Current(); id != nil {
		return id, nil
	}
	if e.restoreErr != nil {
		code := ExitFailure
		if apperr.Retryable(e.restoreErr) {
			code = ExitCommandError
		}
		return nil, WrapExitError(code, apperr.AuthMessage(e.restoreErr), e.restoreErr)
	}
	return nil, nil
}

// requireIdentity returns the signed-in identity or an exit error telling
// the user to sign in.
func (e *env) requireIdentity(action string) (*session.Identity, error) {
	id, err := e.identity()
	if err != nil {
		return nil, err
	}
	if id == nil {
		return nil, NewExitError(ExitFailure, "you must be signed in to "+action+" (run `cuisineo login`)")
	}
	return id, nil
}
