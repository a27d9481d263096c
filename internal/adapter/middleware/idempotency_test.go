package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIdempClient(t *testing.T) *redis.Client {
	t.Helper()
	srv := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: srv.Addr()})
}

type idempHarness struct {
	e     *echo.Echo
	calls int
}

func newIdempHarness(t *testing.T, rdb *redis.Client) *idempHarness {
	h := &idempHarness{e: echo.New()}
	// The auth middleware normally runs first; plant its context value the
	// same way.
	h.e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(userIDKey, strings.Repeat("a", 32))
			return next(c)
		}
	})
	grp := h.e.Group("", Idempotency(rdb, time.Hour))
	grp.POST("/payment", func(c echo.Context) error {
		h.calls++
		return c.JSON(http.StatusCreated, map[string]any{"call": h.calls})
	})
	return h
}

func (h *idempHarness) do(reqID, requestAt, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/payment", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if reqID != "" {
		req.Header.Set("Ax-Request-Id", reqID)
	}
	if requestAt != "" {
		req.Header.Set("Ax-Request-At", requestAt)
	}
	rec := httptest.NewRecorder()
	h.e.ServeHTTP(rec, req)
	return rec
}

func epochNow() string { return strconv.FormatInt(time.Now().Unix(), 10) }

func TestIdempotency_ReplaysRecordedResponse(t *testing.T) {
	h := newIdempHarness(t, newIdempClient(t))
	reqID := strings.Repeat("1", 32)

	first := h.do(reqID, epochNow(), `{"amount":50}`)
	require.Equal(t, http.StatusCreated, first.Code)

	second := h.do(reqID, epochNow(), `{"amount":50}`)
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String(), "replay, not re-execution")
	assert.Equal(t, 1, h.calls)
}

func TestIdempotency_DistinctRequestIDsExecuteIndependently(t *testing.T) {
	h := newIdempHarness(t, newIdempClient(t))

	h.do(strings.Repeat("1", 32), epochNow(), `{"amount":50}`)
	h.do(strings.Repeat("2", 32), epochNow(), `{"amount":50}`)
	assert.Equal(t, 2, h.calls)
}

func TestIdempotency_ReusedIDWithDifferentBody(t *testing.T) {
	h := newIdempHarness(t, newIdempClient(t))
	reqID := strings.Repeat("1", 32)

	h.do(reqID, epochNow(), `{"amount":50}`)
	rec := h.do(reqID, epochNow(), `{"amount":99}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 1, h.calls)
}

func TestIdempotency_HeaderValidation(t *testing.T) {
	tests := []struct {
		name      string
		reqID     string
		requestAt string
	}{
		{"missing request id", "", epochNow()},
		{"malformed request id", "not-an-id", epochNow()},
		{"missing request at", strings.Repeat("1", 32), ""},
		{"naive local timestamp", strings.Repeat("1", 32), "2026-03-01T10:00:00"},
		{
			"skewed request at",
			strings.Repeat("1", 32),
			strconv.FormatInt(time.Now().Add(-time.Hour).Unix(), 10),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newIdempHarness(t, newIdempClient(t))
			rec := h.do(tt.reqID, tt.requestAt, `{}`)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Zero(t, h.calls)
		})
	}
}

func TestIdempotency_AcceptsUUIDAndTimestampForms(t *testing.T) {
	forms := []string{
		epochNow(),
		fmt.Sprintf("%d", time.Now().UnixMilli()),
		time.Now().UTC().Format(time.RFC3339),
	}
	for i, at := range forms {
		h := newIdempHarness(t, newIdempClient(t))
		reqID := fmt.Sprintf("9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6%d", i%10)
		rec := h.do(reqID, at, `{}`)
		assert.Equal(t, http.StatusCreated, rec.Code, "form %q", at)
	}
}

func TestIdempotency_SkipsReads(t *testing.T) {
	rdb := newIdempClient(t)
	e := echo.New()
	calls := 0
	e.GET("/payment/loan/x", func(c echo.Context) error {
		calls++
		return c.NoContent(http.StatusOK)
	}, Idempotency(rdb, time.Hour))

	for range [2]int{} {
		req := httptest.NewRequest(http.MethodGet, "/payment/loan/x", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 2, calls)
}
