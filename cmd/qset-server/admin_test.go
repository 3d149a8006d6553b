package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func adminGet(t *testing.T, app *application, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	app.adminRoutes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestAdmin_Healthz(t *testing.T) {
	app := newTestApp(t)

	rec := adminGet(t, app, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok\n", rec.Body.String())
}

func TestAdmin_Metrics(t *testing.T) {
	app := newTestApp(t)
	run(app, "QS.SUM", "k", "1")

	rec := adminGet(t, app, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `qset_commands_total{command="QS.SUM"} 1`)
	require.Contains(t, rec.Body.String(), "qset_sets 1")
}

func TestAdmin_Sets(t *testing.T) {
	app := newTestApp(t)
	newTopTwo(t, app)
	run(app, "QS.SUM", "another", "1")

	rec := adminGet(t, app, "/sets")
	require.Equal(t, http.StatusOK, rec.Code)

	var keys []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &keys))
	require.Equal(t, []string{"another", "top"}, keys)

	rec = adminGet(t, app, "/sets/top")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var info setInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	require.Equal(t, "top", info.Key)
	require.EqualValues(t, "winsum", info.Mode)
	require.Equal(t, 2, info.Slot)
	require.Equal(t, uint32(3), info.Min)
	require.Equal(t, uint32(5), info.Max)
	require.Equal(t, 21, info.Footprint)

	rec = adminGet(t, app, "/sets/missing")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdmin_Top(t *testing.T) {
	app := newTestApp(t)
	newTopTwo(t, app)

	rec := adminGet(t, app, "/sets/top/top")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[{"key":3,"count":5},{"key":7,"count":3}]`, rec.Body.String())

	rec = adminGet(t, app, "/sets/top/top?k=1")
	require.JSONEq(t, `[{"key":3,"count":5}]`, rec.Body.String())

	rec = adminGet(t, app, "/sets/top/top?k=-1")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.True(t, strings.HasPrefix(rec.Body.String(), "k must be"))

	rec = adminGet(t, app, "/sets/missing/top")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdmin_MethodNotAllowed(t *testing.T) {
	app := newTestApp(t)

	rec := httptest.NewRecorder()
	app.adminRoutes().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))
	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
