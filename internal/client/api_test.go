package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"furniture/admin/internal/config"
	"furniture/admin/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52}

func newTestClient(t *testing.T, handler http.HandlerFunc) (AdminAPI, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	api := NewAdminAPI(config.APIConfig{
		BaseURL:  srv.URL,
		Timeout:  5,
		Cooldown: 60,
	})
	return api, srv
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestListCategories_DecodesMixedIDs(t *testing.T) {
	api, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/categories", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `[
			{"id": 1, "name": "Sofas", "parentId": null, "comment": "living room"},
			{"id": "2", "name": "3 Seater", "parentId": 1}
		]`)
	})

	categories, err := api.ListCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)

	assert.Equal(t, domain.ID("1"), categories[0].ID)
	assert.True(t, categories[0].IsRoot())
	assert.Equal(t, "living room", categories[0].CommentText())
	assert.Equal(t, domain.ID("1"), categories[1].Parent())
}

func TestSend_SetsBasicAuthorization(t *testing.T) {
	var got string
	api, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		writeJSON(w, http.StatusOK, []domain.User{})
	})

	api.SetToken("OTg3NjU0MzIxMDpzZWNyZXQ=")
	_, err := api.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Basic OTg3NjU0MzIxMDpzZWNyZXQ=", got)
}

func TestSend_UnauthorizedClearsToken(t *testing.T) {
	api, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
	})

	api.SetToken("token")
	_, err := api.ListProducts(context.Background())
	require.Error(t, err)

	assert.True(t, IsUnauthorized(err))
	assert.False(t, api.HasToken())

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "Invalid credentials", apiErr.Message)
}

func TestSend_HTMLErrorBody(t *testing.T) {
	api, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `<!DOCTYPE html><html><head><title>Error</title></head>
			<body><pre>Cannot GET /api/products/42</pre></body></html>`)
	})

	_, err := api.GetProduct(context.Background(), "42")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "Cannot GET /api/products/42")
}

func TestSend_TooManyRequestsOpensCircuitBreaker(t *testing.T) {
	var calls atomic.Int32
	api, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "slow down"})
	})

	_, err := api.ListUsers(context.Background())
	require.Error(t, err)

	_, err = api.ListUsers(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCircuitOpen))
	assert.Equal(t, int32(1), calls.Load())
}

func TestDeleteCategory_CascadeQuery(t *testing.T) {
	var queries []string
	api, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/categories/7", r.URL.Path)
		queries = append(queries, r.URL.RawQuery)
		writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
	})

	require.NoError(t, api.DeleteCategory(context.Background(), "7", false))
	require.NoError(t, api.DeleteCategory(context.Background(), "7", true))
	assert.Equal(t, []string{"", "deleteChildren=true"}, queries)
}

func TestCreateCategory_SendsNullParent(t *testing.T) {
	var body map[string]any
	api, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, http.StatusCreated, map[string]any{"id": 9, "name": "Beds", "parentId": nil})
	})

	created, err := api.CreateCategory(context.Background(), domain.CategoryInput{Name: "Beds"})
	require.NoError(t, err)
	assert.Equal(t, domain.ID("9"), created.ID)

	parent, ok := body["parentId"]
	assert.True(t, ok)
	assert.Nil(t, parent)
	assert.Equal(t, "Beds", body["name"])
}

func TestSetProductStatus(t *testing.T) {
	api, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/products/3/status", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "inactive", body["status"])
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})

	require.NoError(t, api.SetProductStatus(context.Background(), "3", domain.ProductStatusInactive))
}

func TestCreateProduct_Multipart(t *testing.T) {
	api, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "Chesterfield", r.FormValue("name"))
		assert.Equal(t, []string{"2", "5"}, r.MultipartForm.Value["categoryIds"])
		assert.Empty(t, r.MultipartForm.Value["existingImageUrls"])

		files := r.MultipartForm.File["images"]
		require.Len(t, files, 1)
		assert.Equal(t, "sofa.png", files[0].Filename)
		assert.Equal(t, "image/png", files[0].Header.Get("Content-Type"))

		writeJSON(w, http.StatusCreated, map[string]any{"id": 11, "name": "Chesterfield", "originalPrice": "1200.00"})
	})

	product, err := api.CreateProduct(context.Background(), &ProductPayload{
		Fields:      map[string]string{"name": "Chesterfield"},
		CategoryIDs: []domain.ID{"2", "5"},
		Images:      []Image{{FileName: "../tmp/sofa.png", Data: pngHeader}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ID("11"), product.ID)
	assert.InDelta(t, 1200.0, product.OriginalPrice.Float(), 0.001)
}

func TestUpdateProduct_KeepsExistingImages(t *testing.T) {
	api, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/products/11", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, `["https://cdn/a.jpg"]`, r.FormValue("existingImageUrls"))
		writeJSON(w, http.StatusOK, map[string]any{"id": 11})
	})

	_, err := api.UpdateProduct(context.Background(), "11", &ProductPayload{
		Fields:            map[string]string{"name": "Chesterfield"},
		CategoryIDs:       []domain.ID{"2"},
		ExistingImageURLs: []string{"https://cdn/a.jpg"},
		KeepImages:        true,
	})
	require.NoError(t, err)
}

func TestCreateProduct_RejectsNonImage(t *testing.T) {
	var calls atomic.Int32
	api, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})

	_, err := api.CreateProduct(context.Background(), &ProductPayload{
		Fields: map[string]string{"name": "x"},
		Images: []Image{{FileName: "notes.txt", Data: []byte("plain text")}},
	})
	require.Error(t, err)
	assert.Equal(t, int32(0), calls.Load())
}

func TestLogin(t *testing.T) {
	api, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/login", r.URL.Path)
		assert.Equal(t, "Basic dG9rZW4=", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{
			"message": "Login successful",
			"user":    map[string]any{"id": 1, "name": "Admin", "phone": "9876543210"},
		})
	})

	api.SetToken("dG9rZW4=")
	resp, err := api.Login(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Admin", resp.User.Name)
	assert.Equal(t, domain.ID("1"), resp.User.ID)
}

func TestUpdateUser_OmitsPassword(t *testing.T) {
	var body map[string]any
	api, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, http.StatusOK, map[string]any{"id": 4, "name": "Ravi", "phone": "1"})
	})

	_, err := api.UpdateUser(context.Background(), "4", domain.UserInput{Name: "Ravi", Phone: "1", Password: "secret"})
	require.NoError(t, err)
	_, hasPassword := body["password"]
	assert.False(t, hasPassword)
}

func TestBodyMessage(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		want        string
	}{
		{"empty", "text/plain", "", ""},
		{"plain text", "text/plain", "Bad   Gateway\n", "Bad Gateway"},
		{"html h1", "text/html", "<html><body><h1>502 Bad Gateway</h1></body></html>", "502 Bad Gateway"},
		{"html without type", "", "<html><head><title>Service Unavailable</title></head></html>", "Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, bodyMessage(tt.contentType, tt.body))
		})
	}
}

func TestTruncate_KeepsRunesWhole(t *testing.T) {
	msg := strings.Repeat("₹", 250)

	got := truncate(msg, 200)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("₹", 200)+"...", got)

	assert.Equal(t, "short ₹", truncate("short ₹", 200))
	assert.True(t, utf8.ValidString(bodyMessage("text/plain", strings.Repeat("é", 300))))
}

func TestSafeFileName(t *testing.T) {
	assert.Equal(t, "a.png", safeFileName("dir/sub/a.png"))
	assert.Equal(t, "b.jpg", safeFileName(`C:\pics\b.jpg`))
	assert.Equal(t, "image", safeFileName("  "))
}
