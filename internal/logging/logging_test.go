package logging

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/llm-aggregator/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestLogFormatter_Format(t *testing.T) {
	entry := &log.Entry{
		Logger:  log.StandardLogger(),
		Time:    time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC),
		Level:   log.WarnLevel,
		Message: "provider call failed\n",
		Data: log.Fields{
			"request_id": "a1b2c3d4",
			"provider":   "gemini",
			"ignored":    "x",
		},
	}

	out, err := (&LogFormatter{}).Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "[2025-01-02 15:04:05] [a1b2c3d4] [warn ] provider call failed provider=gemini\n", string(out))
}

func TestLogFormatter_NoRequestID(t *testing.T) {
	entry := &log.Entry{
		Logger:  log.StandardLogger(),
		Time:    time.Date(2025, 1, 2, 15, 4, 5, 0, time.UTC),
		Level:   log.InfoLevel,
		Message: "ready",
		Data:    log.Fields{},
	}

	out, err := (&LogFormatter{}).Format(entry)
	require.NoError(t, err)
	assert.Equal(t, "[2025-01-02 15:04:05] [--------] [info ] ready\n", string(out))
}

func TestSetupBaseLogger_RoutesGinOutput(t *testing.T) {
	SetupBaseLogger()
	SetupBaseLogger()

	require.NotNil(t, ginInfoWriter)
	require.NotNil(t, ginErrorWriter)
	assert.Equal(t, io.Writer(ginInfoWriter), gin.DefaultWriter)
	assert.Equal(t, io.Writer(ginErrorWriter), gin.DefaultErrorWriter)
	assert.IsType(t, &LogFormatter{}, log.StandardLogger().Formatter)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, log.InfoLevel, level)

	level, err = ParseLevel(" DEBUG ")
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, level)

	_, err = ParseLevel("chatty")
	assert.Error(t, err)
}

func TestConfigureLogOutput_File(t *testing.T) {
	t.Cleanup(func() {
		Close()
		log.SetLevel(log.InfoLevel)
	})

	path := filepath.Join(t.TempDir(), "logs", "server.log")
	require.NoError(t, ConfigureLogOutput(config.Logging{Level: "info", File: path}))

	log.Info("written to file")
	Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestConfigureLogOutput_InvalidLevel(t *testing.T) {
	err := ConfigureLogOutput(config.Logging{Level: "loud"})
	assert.ErrorContains(t, err, "invalid LOG_LEVEL")
}

func TestRequestIDContext(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))

	ctx := WithRequestID(context.Background(), "deadbeef")
	assert.Equal(t, "deadbeef", GetRequestID(ctx))
	assert.Equal(t, "deadbeef", FromContext(ctx).Data["request_id"])
	assert.NotContains(t, FromContext(context.Background()).Data, "request_id")

	id := GenerateRequestID()
	assert.Len(t, id, 8)
}

func TestGinLogrusLogger_TagsAPIRequests(t *testing.T) {
	SetupBaseLogger()
	var buf bytes.Buffer
	prevOut := log.StandardLogger().Out
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prevOut) })

	var seenID string
	engine := gin.New()
	engine.Use(GinLogrusLogger())
	engine.POST("/api/:service", func(c *gin.Context) {
		seenID = GetRequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/gemini?key=secret", nil))
	assert.Len(t, seenID, 8)
	assert.Contains(t, buf.String(), "/api/gemini")
	assert.Contains(t, buf.String(), seenID)
	assert.NotContains(t, buf.String(), "secret")

	buf.Reset()
	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, strings.Contains(buf.String(), "[--------]"))
}

func TestGinLogrusRecoveryRepanicsErrAbortHandler(t *testing.T) {
	engine := gin.New()
	engine.Use(GinLogrusRecovery())
	engine.GET("/abort", func(c *gin.Context) {
		panic(http.ErrAbortHandler)
	})

	defer func() {
		recovered := recover()
		require.NotNil(t, recovered)
		err, ok := recovered.(error)
		require.True(t, ok)
		assert.True(t, errors.Is(err, http.ErrAbortHandler))
	}()

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/abort", nil))
}

func TestGinLogrusRecoveryHandlesRegularPanic(t *testing.T) {
	engine := gin.New()
	engine.Use(GinLogrusRecovery())
	engine.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
}

func TestGinLogrusRecovery_TagsPanicWithRequestID(t *testing.T) {
	hook := logtest.NewGlobal()
	t.Cleanup(func() { log.StandardLogger().ReplaceHooks(make(log.LevelHooks)) })

	var requestID string
	engine := gin.New()
	engine.Use(GinLogrusLogger(), GinLogrusRecovery())
	engine.POST("/api/:service", func(c *gin.Context) {
		requestID = GetGinRequestID(c)
		panic("boom")
	})

	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/gemini", nil))
	require.Equal(t, http.StatusInternalServerError, recorder.Code)
	require.Len(t, requestID, 8)

	var recovered *log.Entry
	for _, entry := range hook.AllEntries() {
		if entry.Message == "recovered from panic" {
			recovered = entry
		}
	}
	require.NotNil(t, recovered)
	assert.Equal(t, requestID, recovered.Data["request_id"])
	assert.Equal(t, "/api/gemini", recovered.Data["path"])
}

func TestGetGinRequestID_Untracked(t *testing.T) {
	assert.Empty(t, GetGinRequestID(nil))

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, GetGinRequestID(c))

	SetGinRequestID(c, "cafebabe")
	assert.Equal(t, "cafebabe", GetGinRequestID(c))
}
