package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/inkpress/go-blog-server/auth"
	"github.com/inkpress/go-blog-server/blob"
	"github.com/inkpress/go-blog-server/internal/config"
	"github.com/inkpress/go-blog-server/posts"
	fakepostrepo "github.com/inkpress/go-blog-server/posts/repofake"
	"github.com/inkpress/go-blog-server/server"
	"github.com/inkpress/go-blog-server/token"
	fakeuserrepo "github.com/inkpress/go-blog-server/users/repofake"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestServer(t *testing.T) *server.Server {
	t.Helper()
	t.Setenv("ENV", "test")

	userRepo := fakeuserrepo.NewFakeUserRepo()
	postRepo := fakepostrepo.NewFakePostRepo(userRepo)

	diskStore, err := blob.NewDiskStore(t.TempDir())
	require.NoError(t, err)

	tokens := token.NewService(token.NewHMACSigner("test-secret"), time.Hour)

	authSvc, err := auth.NewService(userRepo, tokens, bcrypt.MinCost)
	require.NoError(t, err)

	postSvc, err := posts.NewService(postRepo, diskStore)
	require.NoError(t, err)

	srv, err := server.New(config.New(), authSvc, postSvc, tokens, server.WithUploadsDir(diskStore.Folder()))
	require.NoError(t, err)
	return srv
}

func doJSON(t *testing.T, srv http.Handler, method, path string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func doMultipart(t *testing.T, srv http.Handler, method, path string, fields map[string]string, fileName string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		part, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte("fake-image-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == server.SessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func registerUser(t *testing.T, srv http.Handler, username string) *http.Cookie {
	t.Helper()
	rec := doJSON(t, srv, http.MethodPost, "/register", map[string]string{
		"username": username,
		"password": "secret-pass",
	}, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return sessionCookie(t, rec)
}

func createPost(t *testing.T, srv http.Handler, title string, cookie *http.Cookie) *posts.Post {
	t.Helper()
	rec := doMultipart(t, srv, http.MethodPost, "/post", map[string]string{
		"title":   title,
		"summary": "a summary",
		"content": "some content",
	}, "cover.png", cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var created posts.Post
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	return &created
}

func TestRegisterEndpoint(t *testing.T) {
	t.Run("creates user with cookie and without hash", func(t *testing.T) {
		srv := newTestServer(t)

		rec := doJSON(t, srv, http.MethodPost, "/register", map[string]string{
			"username": "alice", "password": "secret-pass",
		}, nil)
		require.Equal(t, http.StatusCreated, rec.Code)

		var body struct {
			User struct {
				ID       string `json:"id"`
				Username string `json:"username"`
			} `json:"user"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.NotEmpty(t, body.User.ID)
		require.Equal(t, "alice", body.User.Username)
		require.NotContains(t, rec.Body.String(), "password", "hash must never be echoed")

		cookie := sessionCookie(t, rec)
		require.True(t, cookie.HttpOnly)
		require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	})

	t.Run("duplicate username", func(t *testing.T) {
		srv := newTestServer(t)
		registerUser(t, srv, "alice")

		rec := doJSON(t, srv, http.MethodPost, "/register", map[string]string{
			"username": "alice", "password": "other-pass",
		}, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "username already exists")
	})

	t.Run("validation failure", func(t *testing.T) {
		srv := newTestServer(t)
		rec := doJSON(t, srv, http.MethodPost, "/register", map[string]string{
			"username": "al", "password": "secret-pass",
		}, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestLoginEndpoint(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "alice")

	t.Run("valid credentials", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodPost, "/login", map[string]string{
			"username": "alice", "password": "secret-pass",
		}, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Login successful!")
		sessionCookie(t, rec)
	})

	t.Run("wrong password and unknown user look the same", func(t *testing.T) {
		wrong := doJSON(t, srv, http.MethodPost, "/login", map[string]string{
			"username": "alice", "password": "nope",
		}, nil)
		unknown := doJSON(t, srv, http.MethodPost, "/login", map[string]string{
			"username": "nobody", "password": "nope",
		}, nil)

		require.Equal(t, http.StatusBadRequest, wrong.Code)
		require.Equal(t, http.StatusBadRequest, unknown.Code)
		require.Equal(t, wrong.Body.String(), unknown.Body.String())
	})
}

func TestProfileEndpoint(t *testing.T) {
	srv := newTestServer(t)
	cookie := registerUser(t, srv, "alice")

	t.Run("with valid token", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/profile", nil, cookie)
		require.Equal(t, http.StatusOK, rec.Code)

		var claims token.Claims
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &claims))
		require.Equal(t, "alice", claims.Username)
		require.NotEmpty(t, claims.UserID)
	})

	t.Run("without token", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/profile", nil, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("with garbage token", func(t *testing.T) {
		rec := doJSON(t, srv, http.MethodGet, "/profile", nil, &http.Cookie{Name: server.SessionCookieName, Value: "garbage"})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestLogoutEndpoint(t *testing.T) {
	srv := newTestServer(t)
	registerUser(t, srv, "alice")

	rec := doJSON(t, srv, http.MethodPost, "/logout", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	cookie := sessionCookie(t, rec)
	require.Empty(t, cookie.Value)
	require.Negative(t, cookie.MaxAge)

	// A cleared session can no longer reach /profile.
	after := doJSON(t, srv, http.MethodGet, "/profile", nil, cookie)
	require.Equal(t, http.StatusUnauthorized, after.Code)

	// Logging out again is harmless.
	again := doJSON(t, srv, http.MethodPost, "/logout", nil, nil)
	require.Equal(t, http.StatusOK, again.Code)
}

func TestCreatePostEndpoint(t *testing.T) {
	t.Run("authenticated author", func(t *testing.T) {
		srv := newTestServer(t)
		cookie := registerUser(t, srv, "alice")

		created := createPost(t, srv, "First post", cookie)
		require.NotEmpty(t, created.ID)
		require.Equal(t, "First post", created.Title)
		require.True(t, strings.HasPrefix(created.Cover, "uploads/"), created.Cover)
	})

	t.Run("without token", func(t *testing.T) {
		srv := newTestServer(t)
		rec := doMultipart(t, srv, http.MethodPost, "/post", map[string]string{"title": "x"}, "cover.png", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("without cover upload", func(t *testing.T) {
		srv := newTestServer(t)
		cookie := registerUser(t, srv, "alice")
		rec := doMultipart(t, srv, http.MethodPost, "/post", map[string]string{"title": "x"}, "", cookie)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdatePostEndpoint(t *testing.T) {
	t.Run("author edits text and keeps cover", func(t *testing.T) {
		srv := newTestServer(t)
		cookie := registerUser(t, srv, "alice")
		created := createPost(t, srv, "First post", cookie)

		rec := doMultipart(t, srv, http.MethodPut, "/post/"+created.ID, map[string]string{
			"title": "Edited", "summary": "s2", "content": "c2",
		}, "", cookie)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var updated posts.Post
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		require.Equal(t, "Edited", updated.Title)
		require.Equal(t, created.Cover, updated.Cover)
	})

	t.Run("new upload replaces cover", func(t *testing.T) {
		srv := newTestServer(t)
		cookie := registerUser(t, srv, "alice")
		created := createPost(t, srv, "First post", cookie)

		rec := doMultipart(t, srv, http.MethodPut, "/post/"+created.ID, map[string]string{
			"title": "Edited",
		}, "new-cover.jpg", cookie)
		require.Equal(t, http.StatusOK, rec.Code)

		var updated posts.Post
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
		require.NotEqual(t, created.Cover, updated.Cover)
	})

	t.Run("non-author is forbidden", func(t *testing.T) {
		srv := newTestServer(t)
		aliceCookie := registerUser(t, srv, "alice")
		bobCookie := registerUser(t, srv, "bob")
		created := createPost(t, srv, "First post", aliceCookie)

		rec := doMultipart(t, srv, http.MethodPut, "/post/"+created.ID, map[string]string{
			"title": "Hijacked",
		}, "", bobCookie)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("missing token", func(t *testing.T) {
		srv := newTestServer(t)
		cookie := registerUser(t, srv, "alice")
		created := createPost(t, srv, "First post", cookie)

		rec := doMultipart(t, srv, http.MethodPut, "/post/"+created.ID, map[string]string{"title": "x"}, "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("unknown post", func(t *testing.T) {
		srv := newTestServer(t)
		cookie := registerUser(t, srv, "alice")

		rec := doMultipart(t, srv, http.MethodPut, "/post/missing-id", map[string]string{"title": "x"}, "", cookie)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListAndGetPosts(t *testing.T) {
	t.Run("list is newest first with public author", func(t *testing.T) {
		srv := newTestServer(t)
		cookie := registerUser(t, srv, "alice")
		for i := 1; i <= 3; i++ {
			createPost(t, srv, fmt.Sprintf("post-%d", i), cookie)
		}

		rec := doJSON(t, srv, http.MethodGet, "/post", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var listed []*posts.Post
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
		require.Len(t, listed, 3)
		require.Equal(t, "post-3", listed[0].Title)
		require.Equal(t, "alice", listed[0].Author.Username)
		require.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("empty store lists empty", func(t *testing.T) {
		srv := newTestServer(t)
		rec := doJSON(t, srv, http.MethodGet, "/post", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("get by id", func(t *testing.T) {
		srv := newTestServer(t)
		cookie := registerUser(t, srv, "alice")
		created := createPost(t, srv, "First post", cookie)

		rec := doJSON(t, srv, http.MethodGet, "/post/"+created.ID, nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var fetched posts.Post
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
		require.Equal(t, created.ID, fetched.ID)
		require.Equal(t, "alice", fetched.Author.Username)
	})

	t.Run("get unknown id", func(t *testing.T) {
		srv := newTestServer(t)
		rec := doJSON(t, srv, http.MethodGet, "/post/missing-id", nil, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestCorsPreflight(t *testing.T) {
	srv := newTestServer(t)
	t.Setenv("CORS_ORIGIN", "http://localhost:3000")

	req := httptest.NewRequest(http.MethodOptions, "/post", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}
