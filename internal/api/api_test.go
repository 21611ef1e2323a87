package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/xctimer/internal/api"
	"github.com/mcoot/xctimer/internal/api/apierr"
	"github.com/mcoot/xctimer/internal/api/response"
	"github.com/mcoot/xctimer/internal/factory"
	"github.com/mcoot/xctimer/internal/model"
	"github.com/mcoot/xctimer/internal/services/sharing"
	"github.com/mcoot/xctimer/internal/testutil"
)

// testServer wraps the API router around a test app
type testServer struct {
	handler http.Handler
	app     *factory.TestApp
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	app := factory.NewTestApp()
	t.Cleanup(func() { _ = app.Close() })

	router := api.NewRouter(api.RouterConfig{
		Logger:      testutil.NopLogger(),
		Store:       app.Store,
		Navigator:   app.Navigator,
		Sharing:     app.Sharing,
		Scoring:     app.Scoring,
		Metrics:     app.Metrics,
		Hub:         app.Hub,
		Saves:       app.Persister,
		StorageType: app.StorageType,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	switch b := body.(type) {
	case nil:
		reqBody = bytes.NewBuffer(nil)
	case string:
		reqBody = bytes.NewBufferString(b)
	default:
		data, _ := json.Marshal(b)
		reqBody = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func assertErrorCode(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	assert.Equal(t, status, rr.Code)
	resp := decode[apierr.ErrorResponse](t, rr)
	assert.Equal(t, code, resp.Error.Code)
	assert.NotEmpty(t, resp.Error.Message)
}

func (ts *testServer) addRunner(t *testing.T, name, grade string) model.Runner {
	t.Helper()
	rr := ts.request(http.MethodPost, "/api/v1/session/runners", map[string]string{"name": name, "grade": grade})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	return decode[model.Runner](t, rr)
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	health := decode[response.Health](t, rr)
	assert.Equal(t, response.HealthOK, health.Status)
	assert.Equal(t, factory.StorageTypeMemory, health.Storage)
	require.NotNil(t, health.LastSaved)
	assert.True(t, ts.app.MockClock.Now().Equal(*health.LastSaved))

	// Each mutation moves the save time
	ts.app.MockClock.Advance(time.Minute)
	ts.addRunner(t, "Ana", "Junior")
	rr = ts.request(http.MethodGet, "/api/v1/health", nil)
	health = decode[response.Health](t, rr)
	require.NotNil(t, health.LastSaved)
	assert.True(t, ts.app.MockClock.Now().Equal(*health.LastSaved))
}

type unreachableStorage struct{}

func (unreachableStorage) LastSaved(context.Context) (time.Time, bool, error) {
	return time.Time{}, false, errors.New("dial tcp: connection refused")
}

func TestHealthCheckDegradedWhenStorageUnreachable(t *testing.T) {
	app := factory.NewTestApp()
	t.Cleanup(func() { _ = app.Close() })
	router := api.NewRouter(api.RouterConfig{
		Logger:      testutil.NopLogger(),
		Store:       app.Store,
		Navigator:   app.Navigator,
		Sharing:     app.Sharing,
		Scoring:     app.Scoring,
		Metrics:     app.Metrics,
		Hub:         app.Hub,
		Saves:       unreachableStorage{},
		StorageType: factory.StorageTypeRedis,
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	health := decode[response.Health](t, rr)
	assert.Equal(t, response.HealthDegraded, health.Status)
	assert.Equal(t, factory.StorageTypeRedis, health.Storage)
	assert.Nil(t, health.LastSaved)
}

func TestGetSession(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/session", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	s := decode[model.Session](t, rr)
	assert.Equal(t, model.DefaultSessionName, s.Name)
	assert.Equal(t, model.UnitKilometers, s.Unit)
	assert.Contains(t, rr.Body.String(), `"teams":[]`)
}

func TestTeamLifecycle(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/session/teams", map[string]string{"name": "Varsity", "color": "#f00"})
	require.Equal(t, http.StatusCreated, rr.Code)
	team := decode[model.Team](t, rr)
	assert.Equal(t, "Varsity", team.Name)

	rr = ts.request(http.MethodPost, "/api/v1/session/runners",
		map[string]string{"name": "Ana", "grade": "Senior", "teamId": team.ID})
	require.Equal(t, http.StatusCreated, rr.Code)
	runner := decode[model.Runner](t, rr)
	assert.Equal(t, team.ID, runner.TeamID)

	rr = ts.request(http.MethodDelete, "/api/v1/session/teams/"+team.ID, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	s := ts.app.Store.Snapshot()
	assert.Empty(t, s.Teams)
	require.Len(t, s.Runners, 1)
	assert.Equal(t, "", s.Runners[0].TeamID)
}

func TestAddTeamRequiresName(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/session/teams", map[string]string{"color": "#f00"})
	assertErrorCode(t, rr, http.StatusBadRequest, apierr.CodeInvalidRequest)

	rr = ts.request(http.MethodPost, "/api/v1/session/teams", "{not json")
	assertErrorCode(t, rr, http.StatusBadRequest, apierr.CodeInvalidRequest)
}

func TestAddRunnerInvalidGrade(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/api/v1/session/runners", map[string]string{"name": "Ana", "grade": "Graduate"})
	assertErrorCode(t, rr, http.StatusBadRequest, apierr.CodeInvalidGrade)
}

func TestRecordTimes(t *testing.T) {
	ts := newTestServer(t)
	ana := ts.addRunner(t, "Ana", "Junior")

	rr := ts.request(http.MethodPost, "/api/v1/session/times",
		map[string]any{"runnerId": ana.ID, "checkpoint": "1K", "time": "3:10", "raceName": "Girls Varsity"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	entry := decode[model.TimeEntry](t, rr)
	assert.Equal(t, "3:10", entry.Time)
	assert.Equal(t, ts.app.MockClock.Now().UnixMilli(), entry.Timestamp)

	// Seconds are formatted, and the same checkpoint is replaced
	rr = ts.request(http.MethodPost, "/api/v1/session/times",
		map[string]any{"runnerId": ana.ID, "checkpoint": "1K", "seconds": 185})
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "3:05", decode[model.TimeEntry](t, rr).Time)

	s := ts.app.Store.Snapshot()
	require.Len(t, s.Times, 1)
	assert.Equal(t, "3:05", s.Times[0].Time)
}

func TestRecordTimeValidation(t *testing.T) {
	ts := newTestServer(t)
	ana := ts.addRunner(t, "Ana", "Junior")

	tests := []struct {
		name   string
		body   map[string]any
		status int
		code   string
	}{
		{
			name:   "bad time format",
			body:   map[string]any{"runnerId": ana.ID, "checkpoint": "1K", "time": "3:75"},
			status: http.StatusBadRequest,
			code:   apierr.CodeInvalidTime,
		},
		{
			name:   "missing time",
			body:   map[string]any{"runnerId": ana.ID, "checkpoint": "1K"},
			status: http.StatusBadRequest,
			code:   apierr.CodeInvalidTime,
		},
		{
			name:   "checkpoint from other unit",
			body:   map[string]any{"runnerId": ana.ID, "checkpoint": "2M", "time": "10:00"},
			status: http.StatusBadRequest,
			code:   apierr.CodeInvalidCheckpoint,
		},
		{
			name:   "unknown runner",
			body:   map[string]any{"runnerId": "ghost", "checkpoint": "1K", "time": "3:00"},
			status: http.StatusNotFound,
			code:   apierr.CodeRunnerNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := ts.request(http.MethodPost, "/api/v1/session/times", tt.body)
			assertErrorCode(t, rr, tt.status, tt.code)
		})
	}
	assert.Empty(t, ts.app.Store.Snapshot().Times)
}

func TestRemoveRunnerCascades(t *testing.T) {
	ts := newTestServer(t)
	ana := ts.addRunner(t, "Ana", "Junior")
	rr := ts.request(http.MethodPost, "/api/v1/session/times",
		map[string]any{"runnerId": ana.ID, "checkpoint": "1K", "time": "3:10"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodDelete, "/api/v1/session/runners/"+ana.ID, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	s := ts.app.Store.Snapshot()
	assert.Empty(t, s.Runners)
	assert.Empty(t, s.Times)

	// Unknown IDs are not an error
	rr = ts.request(http.MethodDelete, "/api/v1/session/runners/ghost", nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
}

func TestUnitAndCheckpoints(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/session/checkpoints", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, []string{"1K", "2K", "3K", "4K", "5K"}, decode[response.Checkpoints](t, rr).Checkpoints)

	rr = ts.request(http.MethodPut, "/api/v1/session/unit", map[string]string{"unit": "miles"})
	require.Equal(t, http.StatusOK, rr.Code)
	cps := decode[response.Checkpoints](t, rr)
	assert.Equal(t, "miles", cps.Unit)
	assert.Equal(t, []string{"1M", "2M", "3M", "3.1M"}, cps.Checkpoints)

	rr = ts.request(http.MethodPut, "/api/v1/session/unit", map[string]string{"unit": "leagues"})
	assertErrorCode(t, rr, http.StatusBadRequest, apierr.CodeInvalidUnit)
}

func TestUnitLockedOnceTimesExist(t *testing.T) {
	ts := newTestServer(t)
	ana := ts.addRunner(t, "Ana", "Junior")
	rr := ts.request(http.MethodPost, "/api/v1/session/times",
		map[string]any{"runnerId": ana.ID, "checkpoint": "1K", "time": "3:10"})
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodPut, "/api/v1/session/unit", map[string]string{"unit": "miles"})
	assertErrorCode(t, rr, http.StatusConflict, apierr.CodeUnitLocked)

	// A partial import cannot switch the unit under existing times either
	rr = ts.request(http.MethodPatch, "/api/v1/session", map[string]string{"unit": "miles"})
	assertErrorCode(t, rr, http.StatusConflict, apierr.CodeUnitLocked)
	assert.Equal(t, model.UnitKilometers, ts.app.Store.Snapshot().Unit)
}

func TestImportPartialSession(t *testing.T) {
	ts := newTestServer(t)
	ts.addRunner(t, "Ana", "Junior")

	rr := ts.request(http.MethodPatch, "/api/v1/session", `{"name":"County Champs","teams":[{"id":"t1","name":"Blue","color":"#00f"}]}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	s := decode[model.Session](t, rr)
	assert.Equal(t, "County Champs", s.Name)
	assert.Equal(t, []model.Team{{ID: "t1", Name: "Blue", Color: "#00f"}}, s.Teams)
	assert.Len(t, s.Runners, 1)

	rr = ts.request(http.MethodPatch, "/api/v1/session", `{"unit":"furlongs"}`)
	assertErrorCode(t, rr, http.StatusBadRequest, apierr.CodeInvalidUnit)

	rr = ts.request(http.MethodPatch, "/api/v1/session", `[1,2]`)
	assertErrorCode(t, rr, http.StatusBadRequest, apierr.CodeInvalidRequest)
}

func TestReplaceSessionMigratesLegacyDocument(t *testing.T) {
	ts := newTestServer(t)

	legacy := `{"id":"legacy","name":"Old Meet","unit":"miles","created":5,"updated":6,
		"runners":[{"id":"r1","name":"Ana","age":16}],
		"times":[{"runnerId":"r1","checkpoint":"1M","time":"6:02","timestamp":7}]}`
	rr := ts.request(http.MethodPut, "/api/v1/session", legacy)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	s := ts.app.Store.Snapshot()
	assert.Equal(t, model.SessionID("legacy"), s.ID)
	assert.Equal(t, int64(6), s.Updated)
	require.Len(t, s.Runners, 1)
	assert.Equal(t, model.GradeSophomore, s.Runners[0].Grade)
	assert.NotNil(t, s.Teams)

	stored, err := ts.app.Persister.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, s, *stored)
}

func TestReplaceSessionRejectsBadDocuments(t *testing.T) {
	ts := newTestServer(t)
	before := ts.app.Store.Snapshot()

	rr := ts.request(http.MethodPut, "/api/v1/session", "{broken")
	assertErrorCode(t, rr, http.StatusBadRequest, apierr.CodeInvalidDocument)

	rr = ts.request(http.MethodPut, "/api/v1/session", `{"version":99}`)
	assertErrorCode(t, rr, http.StatusBadRequest, apierr.CodeInvalidDocument)

	rr = ts.request(http.MethodPut, "/api/v1/session", `{"version":2,"runners":[{"id":"r1","grade":"Alumni"}]}`)
	assertErrorCode(t, rr, http.StatusBadRequest, apierr.CodeInvalidGrade)

	assert.Equal(t, before, ts.app.Store.Snapshot())
}

func TestResetSession(t *testing.T) {
	ts := newTestServer(t)
	ts.addRunner(t, "Ana", "Junior")
	before := ts.app.Store.Snapshot()

	rr := ts.request(http.MethodPost, "/api/v1/session/reset", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	s := decode[model.Session](t, rr)
	assert.NotEqual(t, before.ID, s.ID)
	assert.Empty(t, s.Runners)
}

func TestExportDownload(t *testing.T) {
	ts := newTestServer(t)
	rr := ts.request(http.MethodPatch, "/api/v1/session", `{"name":"Fall  Classic"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/session/export", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename=xc-times-fall-classic.json`, rr.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rr.Body.String(), "{\n  \"id\""))

	var s model.Session
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &s))
	assert.Equal(t, ts.app.Store.Snapshot(), s)
}

func TestSharePayload(t *testing.T) {
	ts := newTestServer(t)
	ts.addRunner(t, "Ana", "Junior")
	ts.addRunner(t, "Ben", "Senior")

	rr := ts.request(http.MethodGet, "/api/v1/session/share", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	payload := decode[sharing.SharePayload](t, rr)
	assert.Equal(t, "New Session - Cross Country Times", payload.Title)
	assert.Equal(t, "Times for 2 runners", payload.Text)
	want, err := sharing.DataURI(ts.app.Store.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, want, payload.URL)
}

func TestQRCode(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/session/qr", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, strings.HasPrefix(decode[response.QRCode](t, rr).DataURI, "data:image/png;base64,"))

	rr = ts.request(http.MethodGet, "/api/v1/session/qr?format=png", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	img, err := png.Decode(rr.Body)
	require.NoError(t, err)
	assert.Equal(t, sharing.QRSize, img.Bounds().Dx())
}

func TestQRCodeTooLarge(t *testing.T) {
	ts := newTestServer(t)
	s := ts.app.Store.Snapshot()
	s.Name = strings.Repeat("n", 5000)
	require.NoError(t, ts.app.Store.Set(context.Background(), s))

	rr := ts.request(http.MethodGet, "/api/v1/session/qr", nil)
	assertErrorCode(t, rr, http.StatusUnprocessableEntity, apierr.CodeQRFailed)
}

func TestStandings(t *testing.T) {
	ts := newTestServer(t)
	ana := ts.addRunner(t, "Ana", "Junior")
	ben := ts.addRunner(t, "Ben", "Senior")
	for runner, time := range map[string]string{ana.ID: "6:40", ben.ID: "6:12"} {
		rr := ts.request(http.MethodPost, "/api/v1/session/times",
			map[string]any{"runnerId": runner, "checkpoint": "2K", "time": time})
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	rr := ts.request(http.MethodGet, "/api/v1/session/standings/2K", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	standings := decode[model.Standings](t, rr)
	assert.Equal(t, "2K", standings.Checkpoint)
	require.Len(t, standings.Runners, 2)
	assert.Equal(t, ben.ID, standings.Runners[0].RunnerID)
	assert.Equal(t, 1, standings.Runners[0].Place)
	assert.Equal(t, ana.ID, standings.Runners[1].RunnerID)

	rr = ts.request(http.MethodGet, "/api/v1/session/standings/3.1M", nil)
	assertErrorCode(t, rr, http.StatusBadRequest, apierr.CodeInvalidCheckpoint)
}

func TestScreenNavigation(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/screen", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "setup", decode[response.Screen](t, rr).Screen)

	rr = ts.request(http.MethodPut, "/api/v1/screen", map[string]string{"screen": "timing"})
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "timing", decode[response.Screen](t, rr).Screen)
	assert.Equal(t, model.ScreenTiming, ts.app.Navigator.Current())

	rr = ts.request(http.MethodPut, "/api/v1/screen", map[string]string{"screen": "results"})
	assertErrorCode(t, rr, http.StatusBadRequest, apierr.CodeInvalidScreen)
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/session", nil)
	req.Header.Set("Origin", "https://timer.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, "https://timer.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), http.MethodPatch)
}

func TestEventsStream(t *testing.T) {
	ts := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/events", nil).WithContext(ctx)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)

	assert.Equal(t, "text/event-stream", rr.Header().Get("Content-Type"))
	assert.Contains(t, rr.Body.String(), "event: connected")
}

func TestExportMetrics(t *testing.T) {
	ts := newTestServer(t)
	ts.request(http.MethodGet, "/api/v1/session/export", nil)
	ts.request(http.MethodGet, "/api/v1/session/share", nil)

	rr := httptest.NewRecorder()
	ts.app.Metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rr.Body.String()
	assert.Contains(t, body, `xctimer_exports_total{format="json"} 1`)
	assert.Contains(t, body, `xctimer_exports_total{format="share"} 1`)
	assert.Contains(t, body, `xctimer_session_mutations_total{op="load"} 1`)
}

func TestUnknownRoute(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/v1/lobbies", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
