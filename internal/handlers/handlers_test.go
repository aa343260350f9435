package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mirelio/api-console/internal/analytics"
	"github.com/mirelio/api-console/internal/auth"
	"github.com/mirelio/api-console/internal/charts"
	"github.com/mirelio/api-console/internal/fixture"
	"github.com/mirelio/api-console/internal/flags"
	"github.com/mirelio/api-console/internal/keys"
	"github.com/mirelio/api-console/internal/models"
	"github.com/mirelio/api-console/internal/store"
	"github.com/mirelio/api-console/pkg/ratelimit"
)

type testServer struct {
	srv     *httptest.Server
	token   string
	authSvc *auth.Service
	keySvc  *keys.Service
}

type serverOptions struct {
	faults      *FaultInjector
	rateLimit   int
	flagChartV2 bool
}

func newTestServer(t *testing.T, opts serverOptions) *testServer {
	t.Helper()

	fx, err := fixture.Load()
	require.NoError(t, err)

	st := store.NewMemoryStore()
	t.Cleanup(func() { st.Close() })

	noSleep := func(ctx context.Context, d time.Duration) error { return nil }
	keySvc, err := keys.NewService(context.Background(), st, keys.Delays{}, keys.WithSleeper(noSleep))
	require.NoError(t, err)

	authSvc := auth.NewService("test-secret", time.Hour, st)
	engine := analytics.NewEngineWithJitter(fx, func() float64 { return 0 })
	projector := analytics.NewProjector(fx, keySvc)
	registry := flags.NewRegistry(opts.flagChartV2, false)

	faults := opts.faults
	if faults == nil {
		faults = NewFaultInjector(false, 0)
	}
	perMinute := opts.rateLimit
	if perMinute == 0 {
		perMinute = 1000
	}

	r := NewRouter(Deps{
		Auth:      NewAuthHandler(authSvc),
		AuthSvc:   authSvc,
		Keys:      NewKeyHandler(keySvc),
		Usage:     NewUsageHandler(engine, charts.NewRenderer(), registry, faults),
		Dashboard: NewDashboardHandler(projector),
		Flags:     NewFlagHandler(registry),
		Docs:      NewDocsHandler(),
		Live:      NewLiveHandler(projector),
		Limiter:   ratelimit.NewLocalLimiter(perMinute),
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	token, err := authSvc.Login(context.Background())
	require.NoError(t, err)

	return &testServer{srv: srv, token: token.AccessToken, authSvc: authSvc, keySvc: keySvc}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, ts.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+ts.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	resp, err := http.Get(ts.srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	resp, err := http.Post(ts.srv.URL+"/api/v1/auth/login", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	token := decode[models.AuthToken](t, resp)
	assert.NotEmpty(t, token.AccessToken)
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, int64(3600), token.ExpiresIn)
	assert.Equal(t, "guest_user", token.User.ID)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	for _, path := range []string{
		"/api/v1/dashboard/metrics",
		"/api/v1/usage/chart",
		"/api/v1/keys/",
		"/api/v1/flags/",
	} {
		resp, err := http.Get(ts.srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "path %s", path)
	}
}

func TestRejectsMalformedToken(t *testing.T) {
	ts := newTestServer(t, serverOptions{})
	ts.token = "garbage"

	resp := ts.do(t, http.MethodGet, "/api/v1/dashboard/metrics", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestDocsArePublic(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	resp, err := http.Get(ts.srv.URL + "/api/v1/docs")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Get(ts.srv.URL + "/api/v1/docs/python")
	require.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)

	resp3, err := http.Get(ts.srv.URL + "/api/v1/docs/rust")
	require.NoError(t, err)
	resp3.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp3.StatusCode)
}

func TestSessionLifecycle(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	resp := ts.do(t, http.MethodGet, "/api/v1/auth/session", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	session := decode[models.AuthToken](t, resp)
	assert.Equal(t, "guest_user", session.User.ID)

	resp = ts.do(t, http.MethodPost, "/api/v1/auth/logout", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Token stays valid (stateless JWT) but the persisted session is gone.
	resp = ts.do(t, http.MethodGet, "/api/v1/auth/session", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestKeyLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	resp := ts.do(t, http.MethodPost, "/api/v1/keys/", map[string]string{"name": "Production"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[models.APIKey](t, resp)
	assert.Regexp(t, `^sk_live_`, created.Secret)

	resp = ts.do(t, http.MethodGet, "/api/v1/keys/"+created.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = ts.do(t, http.MethodPost, "/api/v1/keys/"+created.ID+"/regenerate", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	rotated := decode[models.APIKey](t, resp)
	assert.NotEqual(t, created.Secret, rotated.Secret)

	resp = ts.do(t, http.MethodPost, "/api/v1/keys/"+created.ID+"/revoke", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	revoked := decode[models.APIKey](t, resp)
	assert.Equal(t, models.KeyStatusRevoked, revoked.Status)

	resp = ts.do(t, http.MethodDelete, "/api/v1/keys/"+created.ID, nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = ts.do(t, http.MethodGet, "/api/v1/keys/"+created.ID, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateKeyValidation(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	resp := ts.do(t, http.MethodPost, "/api/v1/keys/", map[string]string{"name": "   "})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMutationRateLimit(t *testing.T) {
	ts := newTestServer(t, serverOptions{rateLimit: 1})

	resp := ts.do(t, http.MethodPost, "/api/v1/keys/", map[string]string{"name": "first"})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/api/v1/keys/", map[string]string{"name": "second"})
	resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	// Reads are not throttled.
	resp = ts.do(t, http.MethodGet, "/api/v1/keys/", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUsageChart(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	resp := ts.do(t, http.MethodGet, "/api/v1/usage/chart?range=7d", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[struct {
		Range  string              `json:"range"`
		Points []models.ChartPoint `json:"points"`
	}](t, resp)
	assert.Equal(t, "7d", body.Range)
	assert.Len(t, body.Points, 7)
}

func TestUsageChartDefaultsRange(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	resp := ts.do(t, http.MethodGet, "/api/v1/usage/chart", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[struct {
		Range  string              `json:"range"`
		Points []models.ChartPoint `json:"points"`
	}](t, resp)
	assert.Equal(t, "7d", body.Range)
	assert.Len(t, body.Points, 7)
}

func TestUsageSummary(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	resp := ts.do(t, http.MethodGet, "/api/v1/usage/summary?range=30d", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	summary := decode[models.UsageSummary](t, resp)
	assert.Greater(t, summary.TotalRequests, int64(0))
	assert.GreaterOrEqual(t, summary.TotalRequests, summary.TotalErrors)
	assert.GreaterOrEqual(t, summary.AverageLatency, int64(50))
}

func TestUsageFaultInjection(t *testing.T) {
	alwaysFail := NewFaultInjectorWithRoll(true, 1.0, func() float64 { return 0 })
	ts := newTestServer(t, serverOptions{faults: alwaysFail})

	resp := ts.do(t, http.MethodGet, "/api/v1/usage/chart", nil)
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	body := decode[struct {
		Error     string `json:"error"`
		Retryable bool   `json:"retryable"`
	}](t, resp)
	assert.True(t, body.Retryable)

	// Export bypasses the injector.
	resp = ts.do(t, http.MethodGet, "/api/v1/usage/export", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUsageBreakdown(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	resp := ts.do(t, http.MethodGet, "/api/v1/usage/breakdown/2025-08-15", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decode[struct {
		Date        string           `json:"date"`
		StatusCodes map[string]int64 `json:"status_codes"`
	}](t, resp)
	assert.Equal(t, "2025-08-15", body.Date)
	assert.Contains(t, body.StatusCodes, "200")

	resp = ts.do(t, http.MethodGet, "/api/v1/usage/breakdown/1999-01-01", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUsageExport(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	resp := ts.do(t, http.MethodGet, "/api/v1/usage/export?range=30d", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename="usage-data-30d.csv"`)

	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Date,Requests,Errors,Error Rate,Avg Latency")
}

func TestChartPNG(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	resp := ts.do(t, http.MethodGet, "/api/v1/usage/chart.png?range=7d", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))

	var buf bytes.Buffer
	_, err := buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte{0x89, 'P', 'N', 'G'}))
}

func TestDashboardMetrics(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	_, err := ts.keySvc.Create(context.Background(), "Production")
	require.NoError(t, err)

	resp := ts.do(t, http.MethodGet, "/api/v1/dashboard/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	metrics := decode[models.DashboardMetrics](t, resp)
	assert.Equal(t, 1, metrics.ActiveKeys)
	assert.NotEmpty(t, metrics.SuccessRate)
}

func TestFlagRoutes(t *testing.T) {
	ts := newTestServer(t, serverOptions{})

	resp := ts.do(t, http.MethodGet, "/api/v1/flags/", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snapshot := decode[[]flags.Flag](t, resp)
	require.Len(t, snapshot, 2)

	resp = ts.do(t, http.MethodPost, "/api/v1/flags/chartV2/toggle", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	toggled := decode[flags.Flag](t, resp)
	assert.True(t, toggled.Enabled)

	resp = ts.do(t, http.MethodPost, "/api/v1/flags/darkMode/toggle", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/api/v1/flags/reset", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	after := decode[[]flags.Flag](t, resp)
	for _, f := range after {
		assert.False(t, f.Enabled)
	}
}
