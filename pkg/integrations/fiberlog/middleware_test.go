package fiberlog_test

import (
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logward/logward-go/pkg/integrations/fiberlog"
	"github.com/logward/logward-go/pkg/logward"
	"github.com/logward/logward-go/pkg/sinks"
)

type capture struct {
	mu      sync.Mutex
	records []*logward.Record
}

func (c *capture) sink() logward.Sink {
	return sinks.Func(func(rec *logward.Record) error {
		c.mu.Lock()
		defer c.mu.Unlock()
		c.records = append(c.records, rec.Clone())
		return nil
	})
}

func (c *capture) all() []*logward.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]*logward.Record(nil), c.records...)
}

func newCaptureLogger() (*logward.Logger, *capture) {
	c := &capture{}
	manager := logward.NewSinkManager()
	manager.Add(c.sink(), logward.LevelDebug)
	return logward.New(logward.WithSinkManager(manager), logward.WithLevel(logward.LevelDebug)), c
}

func fieldValue(t *testing.T, rec *logward.Record, key string) any {
	t.Helper()
	v, ok := rec.Get(key)
	require.True(t, ok, "missing field %q", key)
	return v
}

func TestNew_CompletionRecord(t *testing.T) {
	log, c := newCaptureLogger()

	app := fiber.New()
	app.Use(fiberlog.New(log))
	app.Get("/health", func(fc *fiber.Ctx) error {
		return fc.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	records := c.all()
	require.Len(t, records, 1)
	completion := records[0]
	assert.Equal(t, logward.LevelInfo, completion.Level)
	assert.Equal(t, "GET", fieldValue(t, completion, "method"))
	assert.Equal(t, "/health", fieldValue(t, completion, "path"))
	assert.Equal(t, fiber.StatusOK, fieldValue(t, completion, "status"))
	assert.NotEmpty(t, fieldValue(t, completion, "request_id"))
}

func TestNew_AmbientContextInsideHandler(t *testing.T) {
	log, c := newCaptureLogger()

	app := fiber.New()
	app.Use(fiberlog.New(log))
	app.Get("/orders", func(fc *fiber.Ctx) error {
		_ = log.Info(fc.UserContext(), "listing orders")
		return fc.SendStatus(fiber.StatusOK)
	})

	req := httptest.NewRequest(fiber.MethodGet, "/orders", nil)
	req.Header.Set("X-Request-ID", "req-7")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	records := c.all()
	require.Len(t, records, 2)
	assert.Equal(t, "listing orders", records[0].Message)
	assert.Equal(t, "req-7", fieldValue(t, records[0], "request_id"))
	assert.Equal(t, "/orders", fieldValue(t, records[0], "path"))
}

func TestNew_FiberErrorStatus(t *testing.T) {
	log, c := newCaptureLogger()

	app := fiber.New()
	app.Use(fiberlog.New(log))
	app.Get("/missing", func(*fiber.Ctx) error {
		return fiber.ErrNotFound
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/missing", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	records := c.all()
	require.Len(t, records, 1)
	assert.Equal(t, logward.LevelWarn, records[0].Level)
	assert.Equal(t, fiber.StatusNotFound, fieldValue(t, records[0], "status"))
	require.NotNil(t, records[0])
	_, hasErr := records[0].Get("error")
	assert.True(t, hasErr)
}

func TestRecover_LogsPanic(t *testing.T) {
	log, c := newCaptureLogger()

	app := fiber.New()
	app.Use(fiberlog.Recover(log))
	app.Get("/boom", func(*fiber.Ctx) error {
		panic("kaboom")
	})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/boom", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	records := c.all()
	require.Len(t, records, 1)
	assert.Equal(t, logward.LevelError, records[0].Level)
	assert.Equal(t, "kaboom", fieldValue(t, records[0], "panic"))
}
