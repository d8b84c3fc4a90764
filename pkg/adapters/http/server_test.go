package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/fbxtools"
	"github.com/aretw0/fbxtools/internal/testutils"
	"github.com/aretw0/fbxtools/pkg/adapters/memory"
	"github.com/aretw0/fbxtools/pkg/domain"
	"github.com/aretw0/fbxtools/pkg/fbx"
	"github.com/aretw0/fbxtools/pkg/scene"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fixture struct {
	dir     string
	engine  *fbxtools.Engine
	streams *StreamManager
	handler http.Handler
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	dir := t.TempDir()
	testutils.WriteDocument(t, dir, "scene.fbx", testutils.SampleDocument(), fbx.FormatBinary)

	streams := NewStreamManager()
	engine := fbxtools.New(
		fbxtools.WithJournal(memory.NewJournal()),
		fbxtools.WithLifecycleHooks(streams.Hooks()),
	)
	opts = append([]Option{
		WithRoot(dir),
		WithStreams(streams),
		WithVersion(fbxtools.Version),
		WithMetricsHandler(promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})),
	}, opts...)
	handler, err := NewHandler(engine, opts...)
	require.NoError(t, err)
	return &fixture{dir: dir, engine: engine, streams: streams, handler: handler}
}

func (f *fixture) do(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rr := httptest.NewRecorder()
	f.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func TestLoadSpec(t *testing.T) {
	spec, err := LoadSpec()
	require.NoError(t, err)
	assert.NotNil(t, spec.Paths.Find("/clone"))
}

func TestGetHealth(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, "GET", "/health", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rr)["status"])
}

func TestGetInfo(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, "GET", "/info", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	resp := decode[map[string]string](t, rr)
	assert.Equal(t, "fbxtools-http", resp["app"])
	assert.NotEmpty(t, resp["version"])
	assert.Equal(t, "1.0.0", resp["api_version"])
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, "OPTIONS", "/clone", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestCloneNode(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, "POST", "/clone", `{"path":"scene.fbx","source":"Lod0","destination":"Lod1"}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	res := decode[domain.Result](t, rr)
	assert.Equal(t, domain.StatusOK, res.Status)
	assert.Equal(t, "Lod1", res.Clone)
	assert.Equal(t, "Lod1Mesh", res.Mesh)
	assert.Equal(t, []string{"Root"}, res.Parents)
	assert.Equal(t, filepath.Join(f.dir, "scene.fbx"), res.Output)

	// The same request again now collides with the clone.
	rr = f.do(t, "POST", "/clone", `{"path":"scene.fbx","source":"Lod0","destination":"Lod1"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, domain.StatusNotFound, decode[domain.Result](t, rr).Status)
}

func TestCloneNode_StatusCodes(t *testing.T) {
	tests := []struct {
		name string
		body string
		code int
	}{
		{"missing field", `{"path":"scene.fbx","source":"Lod0"}`, http.StatusBadRequest},
		{"unknown field", `{"path":"scene.fbx","source":"Lod0","destination":"X","force":true}`, http.StatusBadRequest},
		{"empty name", `{"path":"scene.fbx","source":"Lod0","destination":""}`, http.StatusBadRequest},
		{"same name", `{"path":"scene.fbx","source":"Lod0","destination":"Lod0"}`, http.StatusBadRequest},
		{"outside root", `{"path":"../scene.fbx","source":"Lod0","destination":"X"}`, http.StatusBadRequest},
		{"unknown source", `{"path":"scene.fbx","source":"Nope","destination":"X"}`, http.StatusNotFound},
		{"no mesh", `{"path":"scene.fbx","source":"Root","destination":"X"}`, http.StatusNotFound},
		{"missing file", `{"path":"missing.fbx","source":"Lod0","destination":"X"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			rr := f.do(t, "POST", "/clone", tt.body)
			assert.Equal(t, tt.code, rr.Code, rr.Body.String())
		})
	}
}

func TestListNodes(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, "GET", "/nodes?path=scene.fbx", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	info := decode[scene.Inspection](t, rr)
	node, ok := info.Node("Lod0")
	require.True(t, ok)
	assert.Equal(t, "Lod0Mesh", node.Mesh)

	rr = f.do(t, "GET", "/nodes", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestOperations(t *testing.T) {
	f := newFixture(t)

	rr := f.do(t, "GET", "/operations", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, decode[[]string](t, rr))

	rr = f.do(t, "POST", "/clone", `{"path":"scene.fbx","source":"Lod0","destination":"Lod1"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	id := decode[domain.Result](t, rr).ID

	rr = f.do(t, "GET", "/operations", "")
	assert.Equal(t, []string{id}, decode[[]string](t, rr))

	rr = f.do(t, "GET", "/operations/"+id, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Lod1", decode[domain.Result](t, rr).Clone)

	rr = f.do(t, "GET", "/operations/unknown", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestOpenAPIDocument(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, "GET", "/openapi.yaml", "")

	assert.Equal(t, http.StatusOK, rr.Code)
	doc := decode[map[string]any](t, rr)
	assert.Equal(t, "3.0.3", doc["openapi"])
	assert.Contains(t, doc["paths"], "/clone")
}

func TestSubscribeEvents_RejectsPathOutsideRoot(t *testing.T) {
	f := newFixture(t)
	rr := f.do(t, "GET", "/events?path=../scene.fbx", "")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Zero(t, f.streams.Subscribers())
}

func TestServerInterface_Unimplemented(t *testing.T) {
	h := Handler(Unimplemented{})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/operations/abc", nil))

	assert.Equal(t, http.StatusNotImplemented, rr.Code)
}

func TestSubscribeEvents(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newFixture(t)
	srv := httptest.NewServer(f.handler)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", srv.URL+"/events?path=scene.fbx", nil)
	require.NoError(t, err)
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	require.True(t, lines.Scan())
	assert.Equal(t, "event: ping", lines.Text())
	require.Eventually(t, func() bool { return f.streams.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	body := `{"path":"scene.fbx","source":"Lod0","destination":"Lod1"}`
	post, err := srv.Client().Post(srv.URL+"/clone", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	post.Body.Close()
	require.Equal(t, http.StatusOK, post.StatusCode)

	var res domain.Result
	for lines.Scan() {
		if data, ok := strings.CutPrefix(lines.Text(), "data: {"); ok {
			require.NoError(t, json.Unmarshal([]byte("{"+data), &res))
			break
		}
	}
	assert.Equal(t, "Lod1", res.Clone)

	cancel()
	resp.Body.Close()
	require.Eventually(t, func() bool { return f.streams.Subscribers() == 0 }, time.Second, 10*time.Millisecond)
	srv.Client().CloseIdleConnections()
}

func TestStreamManager(t *testing.T) {
	sm := NewStreamManager()
	all, unsubAll := sm.Subscribe("")
	one, unsubOne := sm.Subscribe("a.fbx")
	other, unsubOther := sm.Subscribe("b.fbx")
	defer unsubOther()
	assert.Equal(t, 3, sm.Subscribers())

	sm.Broadcast(&domain.Result{ID: "op-1", Request: domain.CloneRequest{Path: "a.fbx"}})

	assert.Contains(t, <-all, `"op-1"`)
	assert.Contains(t, <-one, `"op-1"`)
	assert.Empty(t, other)

	unsubAll()
	unsubAll()
	unsubOne()
	assert.Equal(t, 1, sm.Subscribers())
	_, open := <-all
	assert.False(t, open)
}
