// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"houstonpro/internal/cache"
	"houstonpro/internal/config"
	"houstonpro/internal/database"
	"houstonpro/internal/middleware"
	"houstonpro/internal/models"
	"houstonpro/internal/render"
	"houstonpro/internal/session"
	"houstonpro/internal/store"
)

// fakeObjects implements ObjectStore in memory.
type fakeObjects struct {
	mu      sync.Mutex
	objects map[string][]byte
	failPut bool
}

func newFakeObjects() *fakeObjects {
	return &fakeObjects{objects: map[string][]byte{}}
}

func (f *fakeObjects) Upload(_ context.Context, key, _ string, body io.Reader, _ int64) error {
	if f.failPut {
		return io.ErrUnexpectedEOF
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(body); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = buf.Bytes()
	return nil
}

func (f *fakeObjects) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeObjects) FileURL(key string) string {
	return "https://cdn.test/" + key
}

func (f *fakeObjects) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

var migrateOnce sync.Once

// testDB connects with the server's POSTGRES_* settings and migrates once
// per test binary.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		t.Skipf("postgres not available: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	var migrateErr error
	migrateOnce.Do(func() { migrateErr = database.Migrate(db) })
	if migrateErr != nil {
		t.Fatalf("migrate: %v", migrateErr)
	}
	return db
}

// testValkeyClient returns a Redis client for handler tests on DB 15.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	client := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.ValkeyHost, cfg.ValkeyPort),
		Password: cfg.ValkeyPassword,
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		// Clean up test session and cache keys.
		for _, pattern := range []string{"session:*", "profile:*"} {
			keys, _ := client.Keys(ctx, pattern).Result()
			if len(keys) > 0 {
				client.Del(ctx, keys...)
			}
		}
		client.Close()
	})

	return client
}

// testEnv holds all dependencies for handler integration tests.
type testEnv struct {
	DB          *sql.DB
	Valkey      *redis.Client
	Renderer    *render.Renderer
	Sessions    *session.Store
	Users       *store.UserStore
	Contractors *store.ContractorStore
	Categories  *store.CategoryStore
	Leads       *store.LeadStore
	Reviews     *store.ReviewStore
	Gallery     *store.GalleryStore
	Templates   *store.TemplateStore
	PageCache   *cache.PageCache
	Objects     *fakeObjects
	Public      *Public
	Auth        *Auth
	Dashboard   *Dashboard
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testDB(t)
	vk := testValkeyClient(t)

	renderer, err := render.New(true, "Houston Texas Pro")
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	env := &testEnv{
		DB:          db,
		Valkey:      vk,
		Renderer:    renderer,
		Sessions:    session.NewStore(vk, false),
		Users:       store.NewUserStore(db),
		Contractors: store.NewContractorStore(db),
		Categories:  store.NewCategoryStore(db),
		Leads:       store.NewLeadStore(db),
		Reviews:     store.NewReviewStore(db),
		Gallery:     store.NewGalleryStore(db),
		Templates:   store.NewTemplateStore(db),
		PageCache:   cache.NewPageCache(vk, time.Minute),
		Objects:     newFakeObjects(),
	}

	env.Public = NewPublic(renderer, env.Contractors, env.Categories, env.Reviews,
		env.Gallery, env.Templates, env.Leads, env.PageCache)
	env.Auth = NewAuth(renderer, env.Sessions, env.Users, env.Contractors, env.Categories)
	env.Dashboard = NewDashboard(renderer, env.Sessions, env.Users, env.Contractors,
		env.Categories, env.Leads, env.Reviews, env.Gallery, env.Templates,
		env.Objects, env.PageCache, "https://houstontexaspro.test", "Houston Texas Pro")

	return env
}

// categoryID looks up a seeded category by slug.
func categoryID(t *testing.T, db *sql.DB, slug string) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	if err := db.QueryRow("SELECT id FROM categories WHERE slug = $1", slug).Scan(&id); err != nil {
		t.Fatalf("category %s: %v (run seed first)", slug, err)
	}
	return id
}

// createTestContractor registers a throwaway contractor on the given tier.
// The owning user and everything that cascades from it are removed when
// the test finishes.
func createTestContractor(t *testing.T, env *testEnv, tier models.Tier, categorySlugs ...string) *models.Contractor {
	t.Helper()

	suffix := uuid.NewString()[:8]
	email := "handler-test-" + suffix + "@handler-test.local"
	t.Cleanup(func() {
		env.DB.Exec("DELETE FROM users WHERE email = $1", email)
	})

	ids := make([]uuid.UUID, len(categorySlugs))
	for i, s := range categorySlugs {
		ids[i] = categoryID(t, env.DB, s)
	}

	c, err := env.Contractors.Register(store.Registration{
		Email:        email,
		Password:     "testpass123",
		FullName:     "Handler Test",
		BusinessName: "Handler Test " + suffix,
		Description:  "Integration test contractor.",
		Phone:        "(713) 555-0100",
		ZipCode:      "77002",
		ServiceArea:  []string{"Katy", "Cypress"},
		CategoryIDs:  ids,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if tier != models.TierFree {
		if err := env.Contractors.SetTier(c.Slug, tier); err != nil {
			t.Fatalf("SetTier: %v", err)
		}
		c.Tier = tier
	}
	return c
}

// loginAs creates a real Valkey session for the contractor's owner and
// returns the cookie plus the session data. Handlers that write flash
// messages need the cookie on the request.
func loginAs(t *testing.T, env *testEnv, c *models.Contractor) (*http.Cookie, *session.Data) {
	t.Helper()

	data := &session.Data{
		UserID:       c.UserID,
		ContractorID: &c.ID,
		Email:        c.Email,
		FullName:     "Handler Test",
		Role:         string(models.RoleContractor),
		TwoFADone:    true,
	}
	rec := httptest.NewRecorder()
	if _, err := env.Sessions.Create(context.Background(), rec, data); err != nil {
		t.Fatalf("session create: %v", err)
	}
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == session.CookieName {
			return ck, data
		}
	}
	t.Fatal("session cookie not set")
	return nil, nil
}

// asContractor attaches the session cookie and context data to r.
func asContractor(r *http.Request, cookie *http.Cookie, sess *session.Data) *http.Request {
	r.AddCookie(cookie)
	return r.WithContext(ctxWithSession(r.Context(), sess))
}

// ctxWithSession adds session data to a context using the middleware key.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, middleware.SessionKey, data)
}

// testSession creates a session.Data for testing.
func testSession(userID uuid.UUID, email, role string, twoFADone bool) *session.Data {
	return &session.Data{
		UserID:    userID,
		Email:     email,
		FullName:  "Test User",
		Role:      role,
		TwoFADone: twoFADone,
	}
}

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// withChiURLParamAndSession adds both chi URL param and session to a request.
func withChiURLParamAndSession(r *http.Request, key, value string, sess *session.Data) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, rctx)
	ctx = context.WithValue(ctx, middleware.SessionKey, sess)
	return r.WithContext(ctx)
}

// flashOf reads the pending flash message of the session behind cookie.
func flashOf(t *testing.T, env *testEnv, cookie *http.Cookie) string {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(cookie)
	data, err := env.Sessions.Get(context.Background(), r)
	if err != nil || data == nil {
		t.Fatalf("session get: %v (data=%v)", err, data)
	}
	return data.Flash
}
