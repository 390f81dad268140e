package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2/memstore"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/llm-aggregator/internal/config"
	"github.com/mrlokans/llm-aggregator/internal/database"
	"github.com/mrlokans/llm-aggregator/internal/database/identities"
	"github.com/mrlokans/llm-aggregator/internal/entities"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testFrontendURL = "http://localhost:5173"

type testEnv struct {
	repo     *identities.Repository
	service  *Service
	sessions *SessionManager
	router   *gin.Engine
}

// setupTestEnv wires the auth stack over a temp sqlite file and an in-memory
// session store, with a guarded /protected route echoing the identity.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.NewSilentDatabase(config.Database{
		Driver: config.DatabaseDriverSQLite,
		URL:    filepath.Join(t.TempDir(), "auth.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := identities.NewRepository(db.DB)
	service := NewService(repo, newTestVerifier(t))

	store := memstore.New()
	t.Cleanup(store.StopCleanup)
	sessions := NewSessionManager(store, repo, config.Session{Lifetime: time.Hour})

	router := gin.New()
	router.Use(sessions.SessionLoadSave())
	guard := NewMiddleware(sessions).RequireIdentity()
	NewAuthController(service, sessions, testFrontendURL).RegisterRoutes(router, guard)
	router.GET("/protected", guard, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": GetIdentityID(c)})
	})

	return &testEnv{repo: repo, service: service, sessions: sessions, router: router}
}

func (e *testEnv) do(req *http.Request, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) signup(t *testing.T, username, password, email string) *httptest.ResponseRecorder {
	t.Helper()
	body := `{"username":"` + username + `","password":"` + password + `","email":"` + email + `"}`
	req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return e.do(req)
}

func (e *testEnv) login(t *testing.T, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req)
}

func sessionCookie(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == "session" {
			return c
		}
	}
	t.Fatalf("no session cookie in response, headers: %v", rr.Header())
	return nil
}

// fakeStore is an IdentityStore with injectable failures.
type fakeStore struct {
	identity  *entities.Identity
	findErr   error
	createErr error
	lookups   int
}

func (f *fakeStore) Create(_ context.Context, username, passwordHash, email string) (*entities.Identity, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.identity = &entities.Identity{ID: "fake-id", Username: username, PasswordHash: passwordHash, Email: email}
	return f.identity, nil
}

func (f *fakeStore) FindByUsername(_ context.Context, username string) (*entities.Identity, error) {
	f.lookups++
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.identity == nil || f.identity.Username != username {
		return nil, identities.ErrNotFound
	}
	return f.identity, nil
}

func (f *fakeStore) FindByID(_ context.Context, id string) (*entities.Identity, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if f.identity == nil || f.identity.ID != id {
		return nil, identities.ErrNotFound
	}
	return f.identity, nil
}

var errStoreDown = errors.New("store unavailable")
