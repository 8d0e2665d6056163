package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/emberlink/emitkit/emitter"
)

func testRouter(em *emitter.Emitter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/events", listEventsHandler(em))
	r.POST("/events/trigger", triggerHandler(em))
	return r
}

func TestTriggerHandler_MissingEvent(t *testing.T) {
	em := emitter.New(nil)
	router := testRouter(em)

	for _, body := range []string{``, `{}`, `{"event": ""}`, `not json`} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/events/trigger", strings.NewReader(body))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
		assert.Contains(t, w.Body.String(), "'event'", "body %q", body)
	}
}

func TestTriggerHandler_DispatchesWithArgs(t *testing.T) {
	em := emitter.New(nil)

	var got []any
	calls := 0
	require.NoError(t, em.On("greet", func(_ emitter.Event, args ...any) {
		calls++
		got = args
	}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/events/trigger",
		strings.NewReader(`{"event": "greet", "args": ["world", 42]}`))
	testRouter(em).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", gjson.Get(w.Body.String(), "status").String())
	assert.Equal(t, int64(1), gjson.Get(w.Body.String(), "handlers").Int())

	assert.Equal(t, 1, calls)
	// gjson decodes JSON numbers as float64
	assert.Equal(t, []any{"world", float64(42)}, got)
}

func TestTriggerHandler_UnknownEventIsNoop(t *testing.T) {
	em := emitter.New(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/events/trigger",
		strings.NewReader(`{"event": "nobody-listens"}`))
	testRouter(em).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(0), gjson.Get(w.Body.String(), "handlers").Int())
}

func TestListEventsHandler(t *testing.T) {
	em := emitter.New(nil)
	registerDemoHandlers(em)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/events", nil)
	testRouter(em).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	events := gjson.Get(w.Body.String(), "events")
	require.True(t, events.Exists())
	assert.Equal(t, int64(1), events.Get("greet").Int())
	assert.Equal(t, int64(1), events.Get("announce").Int())
	assert.Equal(t, int64(2), events.Get("boom").Int())
}
