package entrypoint

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/llm-aggregator/internal/config"
)

func TestCSRFKey(t *testing.T) {
	t.Run("empty secret is generated", func(t *testing.T) {
		key, generated, err := csrfKey("")
		require.NoError(t, err)
		assert.True(t, generated)
		assert.Len(t, key, 32)
	})

	t.Run("hex secret is decoded", func(t *testing.T) {
		hexSecret := "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"
		key, generated, err := csrfKey(hexSecret)
		require.NoError(t, err)
		assert.False(t, generated)
		assert.Equal(t, byte(0x1f), key[31])
	})

	t.Run("passphrase is hashed to 32 bytes", func(t *testing.T) {
		a, _, err := csrfKey("correct horse battery staple")
		require.NoError(t, err)
		b, _, err := csrfKey("correct horse battery staple")
		require.NoError(t, err)
		assert.Len(t, a, 32)
		assert.Equal(t, a, b)
	})
}

func freePort(t *testing.T) int32 {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	require.NoError(t, l.Close())
	return int32(port)
}

func TestServe_GracefulShutdown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	cfg := &config.Config{
		HTTP:   config.HTTP{Host: "127.0.0.1", Port: freePort(t)},
		Global: config.Global{ShutdownTimeoutInSeconds: 1},
	}

	ctx, cancel := context.WithCancel(context.Background())
	shutdownCalled := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, router, cfg, func(context.Context) { close(shutdownCalled) })
	}()

	url := fmt.Sprintf("http://127.0.0.1:%d/", cfg.HTTP.Port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not shut down")
	}
	<-shutdownCalled
}

func TestServe_ListenError(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()

	cfg := &config.Config{
		HTTP:   config.HTTP{Host: "127.0.0.1", Port: int32(l.Addr().(*net.TCPAddr).Port)},
		Global: config.Global{ShutdownTimeoutInSeconds: 1},
	}

	err = Serve(context.Background(), gin.New(), cfg, nil)
	assert.ErrorContains(t, err, "listen")
}
