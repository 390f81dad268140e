package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCSRFSecret = []byte("test-secret-key-32-bytes-long!!!")

func setupCSRFRouter(reached *bool) *gin.Engine {
	router := gin.New()
	router.Use(CSRFMiddleware(testCSRFSecret, false, []string{"http://localhost:5173"}))
	router.GET("/csrf-token", CSRFToken)
	router.POST("/submit", func(c *gin.Context) {
		*reached = true
		c.Status(http.StatusOK)
	})
	return router
}

func TestCSRFMiddleware_AllowsGET(t *testing.T) {
	var reached bool
	router := setupCSRFRouter(&reached)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/csrf-token", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.NotEmpty(t, body["token"])
}

func TestCSRFMiddleware_BlocksPOSTWithoutToken(t *testing.T) {
	var reached bool
	router := setupCSRFRouter(&reached)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/submit", nil))

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.JSONEq(t, `{"message":"CSRF token invalid or missing"}`, rr.Body.String())
	assert.False(t, reached, "handler must not run after a CSRF failure")
}

func TestCSRFMiddleware_AcceptsIssuedToken(t *testing.T) {
	var reached bool
	router := setupCSRFRouter(&reached)

	tokenResp := httptest.NewRecorder()
	router.ServeHTTP(tokenResp, httptest.NewRequest(http.MethodGet, "/csrf-token", nil))
	require.Equal(t, http.StatusOK, tokenResp.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(tokenResp.Body.Bytes(), &body))

	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.Header.Set(CSRFTokenHeader, body["token"])
	for _, c := range tokenResp.Result().Cookies() {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, reached)
}

func TestCSRFMiddleware_RejectsWrongToken(t *testing.T) {
	var reached bool
	router := setupCSRFRouter(&reached)

	tokenResp := httptest.NewRecorder()
	router.ServeHTTP(tokenResp, httptest.NewRequest(http.MethodGet, "/csrf-token", nil))

	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.Header.Set(CSRFTokenHeader, "bm90LXRoZS10b2tlbg==")
	for _, c := range tokenResp.Result().Cookies() {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.False(t, reached)
}

func TestGetCSRFToken_NoToken(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, GetCSRFToken(c))
}

func TestTrustedHosts(t *testing.T) {
	hosts := trustedHosts([]string{
		"http://localhost:3000",
		" https://app.example.com ",
		"",
		"bare-host:8080",
	})
	assert.Equal(t, []string{"localhost:3000", "app.example.com", "bare-host:8080"}, hosts)
}
