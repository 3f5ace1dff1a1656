package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"furniture/admin/internal/client"
	"furniture/admin/internal/config"
	"furniture/admin/internal/service"
	"furniture/admin/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCatalog serves just enough of the catalog API for the commands
type fakeCatalog struct {
	mu         sync.Mutex
	categories []map[string]any
	deleted    []string
}

func (f *fakeCatalog) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if r.Header.Get("Authorization") != "Basic OTg3NjU0MzIxMDpzZWNyZXQ=" {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Authentication required"})
		return
	}

	switch {
	case r.Method == http.MethodPost && r.URL.Path == "/users/login":
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user": map[string]any{"id": 1, "name": "Admin", "phone": "9876543210"},
		})
	case r.Method == http.MethodGet && r.URL.Path == "/categories":
		_ = json.NewEncoder(w).Encode(f.categories)
	case r.Method == http.MethodDelete && strings.HasPrefix(r.URL.Path, "/categories/"):
		f.deleted = append(f.deleted, r.URL.Path+"?"+r.URL.RawQuery)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "deleted"})
	default:
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Not found"})
	}
}

func newTestApp(t *testing.T, input string) (*App, *bytes.Buffer, *fakeCatalog) {
	t.Helper()

	catalog := &fakeCatalog{categories: []map[string]any{
		{"id": 1, "name": "Sofas", "parentId": nil, "comment": "Living room"},
		{"id": 2, "name": "3 Seater", "parentId": 1},
		{"id": 3, "name": "Beds", "parentId": nil},
	}}
	srv := httptest.NewServer(catalog)
	t.Cleanup(srv.Close)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	api := client.NewAdminAPI(config.APIConfig{BaseURL: srv.URL, Timeout: 5})
	svc := service.NewService(api, session.NewRedisStore(rdb, "test", time.Hour), nil)

	out := &bytes.Buffer{}
	app := New(svc, nil, 1, session.Credentials{}, strings.NewReader(input), out)
	return app, out, catalog
}

func TestApp_RequiresLogin(t *testing.T) {
	app, _, _ := newTestApp(t, "")

	err := app.Run(context.Background(), []string{"categories"})
	require.Error(t, err)
	assert.ErrorIs(t, err, session.ErrNoSession)
}

func TestApp_LoginAndListCategories(t *testing.T) {
	app, out, _ := newTestApp(t, "")
	ctx := context.Background()

	require.NoError(t, app.Run(ctx, []string{"login", "--phone", "9876543210", "--password", "secret"}))
	assert.Contains(t, out.String(), "Logged in as Admin")

	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"categories", "list"}))
	assert.Contains(t, out.String(), "Sofas")
	assert.Contains(t, out.String(), "Living room")
	assert.NotContains(t, out.String(), "3 Seater")

	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"subcategories"}))
	assert.Contains(t, out.String(), "3 Seater")

	out.Reset()
	require.NoError(t, app.Run(ctx, []string{"tree", "--sort"}))
	assert.Equal(t, "Beds (3)\nSofas (1)\n  └── 3 Seater (2)\n", out.String())
}

func TestApp_LoginPromptsForMissingValues(t *testing.T) {
	app, out, _ := newTestApp(t, "9876543210\nsecret\n")

	require.NoError(t, app.Run(context.Background(), []string{"login"}))
	assert.Contains(t, out.String(), "Phone: ")
	assert.Contains(t, out.String(), "Logged in as Admin")
}

func TestApp_LoginRejected(t *testing.T) {
	app, _, _ := newTestApp(t, "")

	err := app.Run(context.Background(), []string{"login", "--phone", "1", "--password", "wrong"})
	require.Error(t, err)
	assert.Equal(t, "invalid phone or password", err.Error())
}

func TestApp_DeleteCategoryAsksBeforeCascade(t *testing.T) {
	app, out, catalog := newTestApp(t, "n\ny\n")
	ctx := context.Background()
	require.NoError(t, app.Run(ctx, []string{"login", "--phone", "9876543210", "--password", "secret"}))

	require.NoError(t, app.Run(ctx, []string{"categories", "delete", "1"}))
	assert.Contains(t, out.String(), "Nothing deleted")
	assert.Empty(t, catalog.deleted)

	require.NoError(t, app.Run(ctx, []string{"categories", "delete", "1"}))
	assert.Equal(t, []string{"/categories/1?deleteChildren=true"}, catalog.deleted)
}

func TestApp_DeleteLeafCategory(t *testing.T) {
	app, _, catalog := newTestApp(t, "")
	ctx := context.Background()
	require.NoError(t, app.Run(ctx, []string{"login", "--phone", "9876543210", "--password", "secret"}))

	require.NoError(t, app.Run(ctx, []string{"categories", "delete", "3"}))
	assert.Equal(t, []string{"/categories/3?"}, catalog.deleted)
}

func TestApp_UnknownCommand(t *testing.T) {
	app, out, _ := newTestApp(t, "")

	assert.Error(t, app.Run(context.Background(), []string{"orders"}))
	assert.Contains(t, out.String(), "Usage:")
}

func TestApp_AuditDisabled(t *testing.T) {
	app, _, _ := newTestApp(t, "")

	err := app.Run(context.Background(), []string{"audit", "recent"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}

func TestStockValue(t *testing.T) {
	form := service.NewProductForm()
	v := newStockValue(&form.StockStatus)

	require.NoError(t, v.Set("low stock"))
	assert.Equal(t, "Low Stock", v.String())
	assert.Error(t, v.Set("plenty"))
}

func TestWithout(t *testing.T) {
	assert.Equal(t, []string{"a", "c"}, without([]string{"a", "b", "c"}, []string{" b "}))
}
