package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"grid-planner/internal/api"
	"grid-planner/internal/service"
	"grid-planner/pathfind"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	return l
}

// newTestServer returns a router backed by a planner holding one open 3x3
// grid under the ID "default".
func newTestServer(t *testing.T) (http.Handler, *service.Planner) {
	t.Helper()
	log := testLogger()
	p := service.NewPlanner(log, service.Options{Workers: 2, MaxCells: 10000})

	g, err := pathfind.NewGrid(3, 3)
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Put("default", g); err != nil {
		t.Fatal(err)
	}

	h := api.NewRouter(&api.RouterDeps{
		Log:         log,
		Grids:       p,
		Routes:      p,
		CORSOrigins: []string{"http://localhost:3000"},
		Version:     "test",
	})
	return h, p
}

// doRequest performs an HTTP request against the handler and returns the recorder.
func doRequest(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, http.NoBody)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("invalid JSON %q: %v", w.Body.String(), err)
	}
}
