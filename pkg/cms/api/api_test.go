package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightpages/brightpages/pkg/cms"
	memoryrepo "github.com/brightpages/brightpages/pkg/cms/repo/memory"
	memorystorage "github.com/brightpages/brightpages/pkg/cms/storage/memory"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "swordfish"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	svc, err := cms.New(
		cms.WithRepository(memoryrepo.New()),
		cms.WithBlobStore(memorystorage.New()),
	)
	require.NoError(t, err)

	return NewRouter(RouterConfig{
		Service: svc,
		Auth: AuthConfig{
			AdminEmail:    testAdminEmail,
			AdminPassword: testAdminPassword,
			TokenSecret:   "test-secret",
		},
		AllowedOrigins: []string{"http://localhost:5173"},
	})
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func loginToken(t *testing.T, router http.Handler) string {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    testAdminEmail,
		"password": testAdminPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code, "login failed: %s", rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	decodeBody(t, rec, &resp)
	assert.Equal(t, "healthy", resp["status"])
}

func TestLogin(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    testAdminEmail,
		"password": testAdminPassword,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message string `json:"message"`
		Token   string `json:"token"`
		User    struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	decodeBody(t, rec, &resp)
	assert.Equal(t, "Login successful", resp.Message)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, testAdminEmail, resp.User.Email)
}

func TestLoginRejections(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    testAdminEmail,
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var resp struct {
		Error string `json:"error"`
	}
	decodeBody(t, rec, &resp)
	assert.NotEmpty(t, resp.Error)

	rec = doJSON(t, router, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": testAdminEmail,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestVerify(t *testing.T) {
	router := newTestRouter(t)
	token := loginToken(t, router)

	rec := doJSON(t, router, http.MethodGet, "/api/auth/verify", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Valid bool `json:"valid"`
		User  struct {
			Email string `json:"email"`
		} `json:"user"`
	}
	decodeBody(t, rec, &resp)
	assert.True(t, resp.Valid)
	assert.Equal(t, testAdminEmail, resp.User.Email)

	rec = doJSON(t, router, http.MethodGet, "/api/auth/verify", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedEndpointsRequireToken(t *testing.T) {
	router := newTestRouter(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/blogs"},
		{http.MethodPut, "/api/blogs/00000000-0000-0000-0000-000000000000"},
		{http.MethodDelete, "/api/blogs/00000000-0000-0000-0000-000000000000"},
		{http.MethodPost, "/api/upload"},
		{http.MethodGet, "/api/contacts"},
		{http.MethodGet, "/api/admin/dashboard"},
		{http.MethodGet, "/api/admin/messages"},
	}
	for _, p := range paths {
		rec := doJSON(t, router, p.method, p.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", p.method, p.path)

		var resp struct {
			Error string `json:"error"`
		}
		decodeBody(t, rec, &resp)
		assert.NotEmpty(t, resp.Error, "%s %s", p.method, p.path)
	}
}

func TestBlogLifecycle(t *testing.T) {
	router := newTestRouter(t)
	token := loginToken(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/blogs", token, map[string]string{
		"title":   "Hello, World!",
		"content": "First post.",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created cms.Post
	decodeBody(t, rec, &created)
	assert.Equal(t, "hello-world", created.Slug)

	// Public read by slug.
	rec = doJSON(t, router, http.MethodGet, "/api/blogs/hello-world", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Public read by id.
	rec = doJSON(t, router, http.MethodGet, "/api/blogs/"+created.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Public list.
	rec = doJSON(t, router, http.MethodGet, "/api/blogs", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var posts []cms.Post
	decodeBody(t, rec, &posts)
	assert.Len(t, posts, 1)

	// Partial update.
	rec = doJSON(t, router, http.MethodPut, "/api/blogs/"+created.ID.String(), token, map[string]string{
		"content": "Revised.",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var updated cms.Post
	decodeBody(t, rec, &updated)
	assert.Equal(t, "Revised.", updated.Content)
	assert.Equal(t, "hello-world", updated.Slug)

	// Delete, then the slug is gone.
	rec = doJSON(t, router, http.MethodDelete, "/api/blogs/"+created.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var msg struct {
		Message string `json:"message"`
	}
	decodeBody(t, rec, &msg)
	assert.Equal(t, "Blog deleted successfully", msg.Message)

	rec = doJSON(t, router, http.MethodGet, "/api/blogs/hello-world", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBlogNotFoundAndMalformedIDs(t *testing.T) {
	router := newTestRouter(t)
	token := loginToken(t, router)

	rec := doJSON(t, router, http.MethodGet, "/api/blogs/no-such-slug", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// A malformed id on update or delete degrades to 404, never 500.
	rec = doJSON(t, router, http.MethodPut, "/api/blogs/not-a-uuid", token, map[string]string{"content": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/blogs/not-a-uuid", token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBlogValidation(t *testing.T) {
	router := newTestRouter(t)
	token := loginToken(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/blogs", token, map[string]string{
		"content": "body without a title",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error string `json:"error"`
	}
	decodeBody(t, rec, &resp)
	assert.Contains(t, resp.Error, "title")
}

func multipartImage(t *testing.T, field, filename, contentType string, data []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func TestUploadLifecycle(t *testing.T) {
	router := newTestRouter(t)
	token := loginToken(t, router)
	payload := []byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00}

	body, contentType := multipartImage(t, "image", "banner.png", "image/png", payload)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		URL string `json:"url"`
	}
	decodeBody(t, rec, &resp)
	require.NotEmpty(t, resp.URL)

	// The returned URL serves the exact bytes back, publicly.
	rec = doJSON(t, router, http.MethodGet, resp.URL, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, payload, rec.Body.Bytes())
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestUploadRejections(t *testing.T) {
	router := newTestRouter(t)
	token := loginToken(t, router)

	// Wrong field name reads as an empty upload.
	body, contentType := multipartImage(t, "file", "banner.png", "image/png", []byte("data"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Non-image extension is rejected.
	body, contentType = multipartImage(t, "image", "notes.txt", "text/plain", []byte("data"))
	req = httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadGetUnknownHandle(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/upload/never-stored.png", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestContactFlow(t *testing.T) {
	router := newTestRouter(t)
	token := loginToken(t, router)

	// Submission is public.
	rec := doJSON(t, router, http.MethodPost, "/api/contacts", "", map[string]string{
		"name":    "Ada",
		"email":   "ada@example.com",
		"message": "Hello there",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created cms.ContactMessage
	decodeBody(t, rec, &created)

	rec = doJSON(t, router, http.MethodPost, "/api/contacts", "", map[string]string{
		"name": "Incomplete",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The inbox is admin-only.
	rec = doJSON(t, router, http.MethodGet, "/api/contacts", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var msgs []cms.ContactMessage
	decodeBody(t, rec, &msgs)
	assert.Len(t, msgs, 1)

	rec = doJSON(t, router, http.MethodPost, "/api/contacts/"+created.ID.String()+"/reply", token, map[string]string{
		"content": "Thanks for writing",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/contacts/"+created.ID.String(), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/contacts/"+created.ID.String(), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminDashboard(t *testing.T) {
	router := newTestRouter(t)
	token := loginToken(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/blogs", token, map[string]string{
		"title": "Counted", "content": "body",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/contacts", "", map[string]string{
		"name": "N", "email": "n@example.com", "message": "m",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/admin/dashboard", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats cms.DashboardStats
	decodeBody(t, rec, &stats)
	assert.Equal(t, int64(1), stats.BlogsTotal)
	assert.Equal(t, int64(1), stats.MessagesTotal)

	rec = doJSON(t, router, http.MethodGet, "/api/admin/messages", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var msgs []cms.ContactMessage
	decodeBody(t, rec, &msgs)
	require.Len(t, msgs, 1)

	rec = doJSON(t, router, http.MethodDelete, "/api/admin/messages/"+msgs[0].ID.String(), token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
