package session

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkittipat/feedloop/api"
	"github.com/pkittipat/feedloop/models"
	"github.com/pkittipat/feedloop/store"
)

type fixture struct {
	t       *testing.T
	ctx     context.Context
	calls   atomic.Int32
	creds   store.CredentialStore
	client  *api.Client
	session *Store
}

// newFixture stands up an in-memory credential store and a fake backend, and
// wires a session store to both. Each test gets its own named memory
// database so state never leaks between tests.
func newFixture(t *testing.T, handler http.Handler) *fixture {
	f := &fixture{t: t, ctx: context.Background()}

	db, err := store.NewSQLiteDB(strings.ReplaceAll(t.Name(), "/", "_"),
		&store.SQLiteDBOption{Mode: "memory", Cache: "shared"})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())

	counted := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)
		handler.ServeHTTP(w, r)
	})
	srv := httptest.NewServer(counted)

	f.creds = store.NewSQLiteCredentialStore(db.DB)
	f.client = api.New(srv.URL)
	f.session = NewStore(f.client, f.creds, slog.New(slog.NewTextHandler(io.Discard, nil)))

	t.Cleanup(func() {
		srv.Close()
		db.Close()
	})
	return f
}

func (f *fixture) seedToken(token string) {
	require.NoError(f.t, f.creds.SaveToken(f.ctx, token))
}

func (f *fixture) persistedToken() string {
	token, err := f.creds.Token(f.ctx)
	require.NoError(f.t, err)
	return token
}

func profileHandler(wantToken string, user models.User) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/users/me/", func(w http.ResponseWriter, req *http.Request) {
		if req.Header.Get("Authorization") != "Bearer "+wantToken {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
			return
		}
		json.NewEncoder(w).Encode(user)
	})
	return r
}

func signedJWT(t *testing.T, exp time.Time) string {
	claims := jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return signed
}

func TestBootstrapWithoutTokenMakesNoNetworkCall(t *testing.T) {
	f := newFixture(t, chi.NewRouter())

	status := f.session.Bootstrap(f.ctx)

	assert.Equal(t, StatusUnauthenticated, status)
	assert.Equal(t, StatusUnauthenticated, f.session.Status())
	assert.Nil(t, f.session.User())
	assert.EqualValues(t, 0, f.calls.Load())
}

func TestBootstrapRestoresSession(t *testing.T) {
	f := newFixture(t, profileHandler("abc", models.User{ID: 1, Role: models.RoleManager, Email: "m@x.com"}))
	f.seedToken("abc")

	status := f.session.Bootstrap(f.ctx)

	assert.Equal(t, StatusAuthenticated, status)
	user := f.session.User()
	require.NotNil(t, user)
	assert.Equal(t, models.RoleManager, user.Role)
	assert.Equal(t, "abc", f.session.Token())
	assert.Equal(t, "abc", f.client.Token())
}

func TestBootstrapRejectedTokenIsCleared(t *testing.T) {
	f := newFixture(t, profileHandler("other", models.User{}))
	f.seedToken("abc")

	status := f.session.Bootstrap(f.ctx)

	assert.Equal(t, StatusUnauthenticated, status)
	assert.Empty(t, f.persistedToken())
	assert.Empty(t, f.client.Token())
	assert.Nil(t, f.session.User())
}

func TestBootstrapTransientFailureKeepsPersistedToken(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/users/me/", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	f := newFixture(t, r)
	f.seedToken("abc")

	status := f.session.Bootstrap(f.ctx)

	assert.Equal(t, StatusUnauthenticated, status)
	assert.Equal(t, "abc", f.persistedToken())
	assert.Empty(t, f.client.Token())
	assert.Nil(t, f.session.User())
}

func TestBootstrapExpiredTokenSkipsVerification(t *testing.T) {
	f := newFixture(t, chi.NewRouter())
	f.seedToken(signedJWT(t, time.Now().Add(-time.Hour)))

	status := f.session.Bootstrap(f.ctx)

	assert.Equal(t, StatusUnauthenticated, status)
	assert.Empty(t, f.persistedToken())
	assert.EqualValues(t, 0, f.calls.Load())
}

func TestBootstrapUnexpiredJWTStillVerifiesOnline(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/users/me/", func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(models.User{ID: 2, Role: models.RoleEmployee})
	})
	f := newFixture(t, r)
	f.seedToken(signedJWT(t, time.Now().Add(time.Hour)))

	status := f.session.Bootstrap(f.ctx)

	assert.Equal(t, StatusAuthenticated, status)
	assert.EqualValues(t, 1, f.calls.Load())
}

func loginHandler(password, issued string, user models.User) http.Handler {
	r := chi.NewRouter()
	r.Post("/token", func(w http.ResponseWriter, req *http.Request) {
		req.ParseForm()
		if req.PostForm.Get("password") != password {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect email or password"})
			return
		}
		json.NewEncoder(w).Encode(models.Token{AccessToken: issued, TokenType: "bearer"})
	})
	r.Get("/api/users/me/", func(w http.ResponseWriter, req *http.Request) {
		if req.Header.Get("Authorization") != "Bearer "+issued {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
			return
		}
		json.NewEncoder(w).Encode(user)
	})
	return r
}

func TestLoginBadCredentials(t *testing.T) {
	f := newFixture(t, loginHandler("right", "tok1", models.User{ID: 1}))
	f.session.Bootstrap(f.ctx)

	err := f.session.Login(f.ctx, "a@x.com", "wrong")

	require.Error(t, err)
	assert.Equal(t, api.KindInvalidCredentials, api.KindOf(err))
	assert.Equal(t, StatusUnauthenticated, f.session.Status())
	assert.Empty(t, f.persistedToken())
}

func TestLoginRoundTrip(t *testing.T) {
	f := newFixture(t, loginHandler("right", "tok1", models.User{ID: 1, Role: models.RoleEmployee, Email: "a@x.com"}))
	f.session.Bootstrap(f.ctx)

	require.NoError(t, f.session.Login(f.ctx, "a@x.com", "right"))

	assert.Equal(t, StatusAuthenticated, f.session.Status())
	assert.Equal(t, "tok1", f.session.Token())
	assert.Equal(t, "tok1", f.client.Token())
	assert.Equal(t, "tok1", f.persistedToken())
	user := f.session.User()
	require.NotNil(t, user)
	assert.Equal(t, "a@x.com", user.Email)

	// the cached profile mirrors the verified one
	cached, err := f.session.CachedProfile(f.ctx)
	require.NoError(t, err)
	require.NotNil(t, cached)
	assert.Equal(t, user.ID, cached.ID)
}

func TestLoginProfileFetchServerFailure(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/token", func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(models.Token{AccessToken: "tok1"})
	})
	r.Get("/api/users/me/", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	f := newFixture(t, r)
	f.session.Bootstrap(f.ctx)

	err := f.session.Login(f.ctx, "a@x.com", "right")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "authentication succeeded but fetching your profile failed")
	assert.Equal(t, StatusUnauthenticated, f.session.Status())
	assert.Empty(t, f.persistedToken())
	assert.Empty(t, f.client.Token())
}

func TestLoginProfileFetchAuthFailure(t *testing.T) {
	// the token endpoint hands out a token the profile endpoint rejects
	r := chi.NewRouter()
	r.Post("/token", func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(models.Token{AccessToken: "tok1"})
	})
	r.Get("/api/users/me/", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
	})
	f := newFixture(t, r)
	f.session.Bootstrap(f.ctx)

	err := f.session.Login(f.ctx, "a@x.com", "right")

	require.Error(t, err)
	assert.Equal(t, api.KindInvalidCredentials, api.KindOf(err))
	assert.Equal(t, StatusUnauthenticated, f.session.Status())
	assert.Empty(t, f.persistedToken())
}

func TestLoginMissingAccessToken(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/token", func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token_type": "bearer"})
	})
	f := newFixture(t, r)
	f.session.Bootstrap(f.ctx)

	err := f.session.Login(f.ctx, "a@x.com", "right")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no access token")
	assert.Equal(t, StatusUnauthenticated, f.session.Status())
}

func TestLogoutAlwaysClears(t *testing.T) {
	f := newFixture(t, loginHandler("right", "tok1", models.User{ID: 1}))
	f.session.Bootstrap(f.ctx)
	require.NoError(t, f.session.Login(f.ctx, "a@x.com", "right"))

	f.session.Logout(f.ctx)

	assert.Equal(t, StatusUnauthenticated, f.session.Status())
	assert.Empty(t, f.session.Token())
	assert.Nil(t, f.session.User())
	assert.Empty(t, f.persistedToken())
	assert.Empty(t, f.client.Token())

	// logging out twice is harmless
	f.session.Logout(f.ctx)
	assert.Equal(t, StatusUnauthenticated, f.session.Status())
}

func TestAnyEndpoint401InvalidatesSession(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/token", func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(models.Token{AccessToken: "tok1"})
	})
	r.Get("/api/users/me/", func(w http.ResponseWriter, req *http.Request) {
		json.NewEncoder(w).Encode(models.User{ID: 1, Role: models.RoleEmployee})
	})
	r.Get("/api/feedback/", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
	})
	f := newFixture(t, r)
	f.session.Bootstrap(f.ctx)
	require.NoError(t, f.session.Login(f.ctx, "a@x.com", "right"))
	require.Equal(t, StatusAuthenticated, f.session.Status())

	_, err := f.client.Feedbacks(f.ctx)

	require.Error(t, err)
	assert.Equal(t, StatusUnauthenticated, f.session.Status())
	assert.Empty(t, f.persistedToken())
	assert.Empty(t, f.client.Token())
}

func TestRegisterValidatesBeforeNetwork(t *testing.T) {
	f := newFixture(t, chi.NewRouter())

	_, err := f.session.Register(f.ctx, models.UserCreate{
		Email:    "not-an-email",
		FullName: "Jo",
		Role:     models.RoleEmployee,
		Password: "x",
	})

	require.Error(t, err)
	assert.Equal(t, api.KindValidationError, api.KindOf(err))
	assert.Contains(t, err.Error(), "email")
	assert.EqualValues(t, 0, f.calls.Load())
}

func TestRegisterDoesNotTouchSessionState(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/users/", func(w http.ResponseWriter, req *http.Request) {
		var payload models.UserCreate
		require.NoError(t, json.NewDecoder(req.Body).Decode(&payload))
		json.NewEncoder(w).Encode(models.User{ID: 7, Email: payload.Email, Role: payload.Role})
	})
	f := newFixture(t, r)
	f.session.Bootstrap(f.ctx)

	user, err := f.session.Register(f.ctx, models.UserCreate{
		Email:    "new@x.com",
		FullName: "New Person",
		Role:     models.RoleEmployee,
		Password: "secret",
	})

	require.NoError(t, err)
	assert.Equal(t, 7, user.ID)
	assert.Equal(t, StatusUnauthenticated, f.session.Status())
	assert.Empty(t, f.client.Token())
}

func TestOpaqueTokenFallsThroughToVerification(t *testing.T) {
	f := newFixture(t, profileHandler("opaque-token", models.User{ID: 3, Role: models.RoleEmployee}))
	f.seedToken("opaque-token")

	status := f.session.Bootstrap(f.ctx)

	assert.Equal(t, StatusAuthenticated, status)
	assert.EqualValues(t, 1, f.calls.Load())
}
