package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkittipat/feedloop/models"
)

func TestBearerHeaderFollowsSetToken(t *testing.T) {
	var gotAuth atomic.Value

	r := chi.NewRouter()
	r.Get("/api/users/me/", func(w http.ResponseWriter, req *http.Request) {
		gotAuth.Store(req.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(models.User{ID: 1, Role: models.RoleManager})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	client := New(srv.URL)

	client.SetToken("abc")
	_, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", gotAuth.Load())

	client.SetToken("xyz")
	_, err = client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer xyz", gotAuth.Load())

	client.SetToken("")
	_, err = client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", gotAuth.Load())
}

func TestRequestCarriesRequestID(t *testing.T) {
	var gotID atomic.Value

	r := chi.NewRouter()
	r.Get("/api/tags/", func(w http.ResponseWriter, req *http.Request) {
		gotID.Store(req.Header.Get("X-Request-ID"))
		json.NewEncoder(w).Encode([]string{})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.Tags(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, gotID.Load())
}

func TestLoginPostsForm(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/token", func(w http.ResponseWriter, req *http.Request) {
		require.NoError(t, req.ParseForm())
		assert.Equal(t, "application/x-www-form-urlencoded", req.Header.Get("Content-Type"))
		assert.Equal(t, "a@x.com", req.PostForm.Get("username"))
		assert.Equal(t, "secret", req.PostForm.Get("password"))
		json.NewEncoder(w).Encode(models.Token{AccessToken: "tok1", TokenType: "bearer"})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	client := New(srv.URL)
	token, err := client.Login(context.Background(), "a@x.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok1", token.AccessToken)
}

func TestUnauthorizedFiresCallbackAndMapsKind(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/feedback/", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	client := New(srv.URL)
	var fired atomic.Bool
	client.OnUnauthorized(func() { fired.Store(true) })

	_, err := client.Feedbacks(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindInvalidCredentials, KindOf(err))
	assert.True(t, fired.Load())
}

func TestForbiddenMapsToPermissionMessage(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/users/", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Not enough permissions"})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.Users(context.Background())
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindServerError, apiErr.Kind)
	assert.Contains(t, apiErr.Message, "permission")
}

func TestValidationDetailJoinsFieldMessages(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/users/", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":[{"loc":["body","email"],"msg":"invalid"}]}`))
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.Register(context.Background(), models.UserCreate{})
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindValidationError, apiErr.Kind)
	assert.Equal(t, "email: invalid", apiErr.Message)
}

func TestStringDetailBecomesServerError(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/feedback/{id}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Feedback not found"})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	client := New(srv.URL)
	_, err := client.Feedback(context.Background(), 99)
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindServerError, apiErr.Kind)
	assert.Equal(t, "Feedback not found", apiErr.Message)
}

func TestConnectionRefusedIsNetworkUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // nothing listens on this address anymore

	client := New(srv.URL)
	_, err := client.Tags(context.Background())
	require.Error(t, err)
	assert.Equal(t, KindNetworkUnreachable, KindOf(err))
}

func TestTimeoutIsServerError(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/tags/", func(w http.ResponseWriter, req *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode([]string{})
	})
	srv := httptest.NewServer(r)
	defer srv.Close()

	client := New(srv.URL, WithTimeout(20*time.Millisecond))
	_, err := client.Tags(context.Background())
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, KindServerError, apiErr.Kind)
	assert.Contains(t, apiErr.Message, "no response from server")
}
