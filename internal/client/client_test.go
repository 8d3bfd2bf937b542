package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/config"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/database"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/localcache"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/recipes"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/routes"
	"github.com/ahmetcoskunkizilkaya/cuisineo/internal/session"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	return newBackendPaged(t, 100)
}

func newBackendPaged(t *testing.T, pageSize int) *httptest.Server {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), database.GormConfig(logger.Silent))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		JWTSecret:         "test-secret",
		JWTAccessExpiry:   15 * time.Minute,
		JWTRefreshExpiry:  time.Hour,
		RecipeListMaximum: pageSize,
		CORSOrigins:       "*",
		RateLimit:         1000,
		AuthRateLimit:     1000,
	}
	srv := httptest.NewServer(adaptor.FiberApp(routes.NewApp(cfg, db, sqlDB.Ping)))
	t.Cleanup(srv.Close)
	return srv
}

func newCache(t *testing.T) *localcache.SQLiteCache {
	t.Helper()
	c, err := localcache.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func signedUp(t *testing.T, srv *httptest.Server, email string) *Client {
	t.Helper()
	c := New(srv.URL, 5*time.Second, newCache(t))
	require.NoError(t, c.Restore(context.Background()))
	require.NoError(t, c.SignUp(context.Background(), email, "secret"))
	return c
}

func soupe() recipes.Fields {
	return recipes.Fields{
		Name:        "Soupe à l'oignon",
		Category:    recipes.CategoryEntree,
		Ingredients: []string{"oignons", "bouillon", "gruyère"},
		Steps:       "Caraméliser les oignons, mouiller, gratiner.",
	}
}

func TestSessionRestoreAcrossClients(t *testing.T) {
	ctx := context.Background()
	srv := newBackend(t)
	cache := newCache(t)

	first := New(srv.URL, 5*time.Second, cache)
	sess := session.New(first)
	defer sess.Close()
	require.NoError(t, first.Restore(ctx))
	id, err := sess.Wait(ctx)
	require.NoError(t, err)
	assert.Nil(t, id)

	require.NoError(t, sess.SignUp(ctx, "chef@example.com", "secret"))
	require.NotNil(t, sess.Current())
	assert.Equal(t, "chef@example.com", sess.Current().Email)

	// A later process with the same cache resumes the session.
	second := New(srv.URL, 5*time.Second, cache)
	require.NoError(t, second.Restore(ctx))
	resumed := session.New(second)
	defer resumed.Close()
	id, err = resumed.Wait(ctx)
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.Equal(t, sess.Current().UID, id.UID)

	require.NoError(t, resumed.SignOut(ctx))
	assert.Nil(t, resumed.Current())
	raw, err := cache.Get(ctx, localcache.KeySession)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestRestoreDropsRevokedToken(t *testing.T) {
	ctx := context.Background()
	srv := newBackend(t)
	cache := newCache(t)
	require.NoError(t, cache.Set(ctx, localcache.KeySession, []byte("bogus")))

	c := New(srv.URL, 5*time.Second, cache)
	require.NoError(t, c.Restore(ctx))

	var seen []*session.Identity
	c.OnChange(func(id *session.Identity) { seen = append(seen, id) })
	require.Len(t, seen, 1)
	assert.Nil(t, seen[0])

	raw, err := cache.Get(ctx, localcache.KeySession)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestGatewayReasons(t *testing.T) {
	ctx := context.Background()
	srv := newBackend(t)
	signedUp(t, srv, "chef@example.com")

	c := New(srv.URL, 5*time.Second, newCache(t))
	assert.ErrorIs(t, c.SignUp(ctx, "chef@example.com", "secret"), apperr.ErrEmailTaken)
	assert.ErrorIs(t, c.SignUp(ctx, "new@example.com", "123"), apperr.ErrWeakPassword)
	assert.ErrorIs(t, c.SignUp(ctx, "no-at-sign", "secret"), apperr.ErrInvalidEmail)
	assert.ErrorIs(t, c.SignIn(ctx, "chef@example.com", "wrong!"), apperr.ErrInvalidCredentials)
	assert.NoError(t, c.SignIn(ctx, "chef@example.com", "secret"))
}

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	srv := newBackend(t)
	alice := signedUp(t, srv, "alice@example.com")

	created, err := alice.Insert(ctx, soupe())
	require.NoError(t, err)

	got, err := alice.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, soupe(), got.Fields())

	_, err = alice.Get(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	probe, err := alice.List(ctx, recipes.Query{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, probe, 1)

	bad := soupe()
	bad.Steps = ""
	_, err = alice.Insert(ctx, bad)
	ve, ok := apperr.AsValidation(err)
	require.True(t, ok)
	assert.NotEmpty(t, ve.Field("steps"))
}

func TestListFollowsEveryPage(t *testing.T) {
	ctx := context.Background()
	srv := newBackendPaged(t, 2)
	alice := signedUp(t, srv, "alice@example.com")

	batch := make([]recipes.Fields, 5)
	for i := range batch {
		batch[i] = soupe()
	}
	_, err := alice.InsertBatch(ctx, batch)
	require.NoError(t, err)
	_, err = alice.Insert(ctx, soupe())
	require.NoError(t, err)

	all, err := recipes.NewAccess(alice).ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 6)
	ids := make(map[string]bool)
	for _, r := range all {
		ids[r.ID] = true
	}
	assert.Len(t, ids, 6)

	page, err := alice.List(ctx, recipes.Query{Limit: 5})
	require.NoError(t, err)
	assert.Len(t, page, 2, "an explicit limit is capped to one page")
}

func TestForeignDeleteIsUnauthorized(t *testing.T) {
	ctx := context.Background()
	srv := newBackend(t)
	alice := signedUp(t, srv, "alice@example.com")
	bob := signedUp(t, srv, "bob@example.com")

	created, err := alice.Insert(ctx, soupe())
	require.NoError(t, err)

	access := recipes.NewAccess(bob)
	assert.ErrorIs(t, access.DeleteByID(ctx, created.ID), apperr.ErrUnauthorized)

	_, found, err := access.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, found)

	require.NoError(t, recipes.NewAccess(alice).DeleteByID(ctx, created.ID))
	require.NoError(t, recipes.NewAccess(alice).DeleteByID(ctx, created.ID))
}

func TestWritesWithoutSessionAreUnauthorized(t *testing.T) {
	srv := newBackend(t)
	c := New(srv.URL, 5*time.Second, newCache(t))

	_, err := c.Insert(context.Background(), soupe())
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	assert.ErrorIs(t, c.Delete(context.Background(), "x"), apperr.ErrUnauthorized)
}

func TestTransportFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	c := New(srv.URL, time.Second, newCache(t))

	_, err := c.List(context.Background(), recipes.Query{})
	assert.ErrorIs(t, err, apperr.ErrStoreUnavailable)
	assert.ErrorIs(t, c.SignIn(context.Background(), "a@example.com", "secret"), apperr.ErrGatewayUnavailable)

	srv.Close()
	_, err = c.Get(context.Background(), "x")
	assert.ErrorIs(t, err, apperr.ErrStoreUnavailable)
	assert.True(t, IsTransport(err))
}
