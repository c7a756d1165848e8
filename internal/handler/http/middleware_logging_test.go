package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

// makeRequest создаёт запрос с логгером в контексте, как это делает withTraceID.
func makeRequest(method, path string, buf *bytes.Buffer) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	l := zerolog.New(buf).With().Timestamp().Logger()
	return req.WithContext(l.WithContext(req.Context()))
}

func TestWithLogging_TableTest(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		path         string
		status       int
		body         string
		wantContains []string
	}{
		{
			name:   "pull page",
			method: http.MethodGet,
			path:   "/api/v1/tasks?scope=circle-1",
			status: http.StatusOK,
			body:   "[]",
			wantContains: []string{
				`"method":"GET"`,
				`"uri":"/api/v1/tasks?scope=circle-1"`,
				`"status":200`,
				`"size":2`,
				`"duration":`,
			},
		},
		{
			name:         "conflict",
			method:       http.MethodPatch,
			path:         "/api/v1/tasks/task-1",
			status:       http.StatusConflict,
			body:         `{"code":"SYNC_VERSION_MISMATCH"}`,
			wantContains: []string{`"method":"PATCH"`, `"status":409`, `"size":32`},
		},
		{
			name:         "empty body",
			method:       http.MethodDelete,
			path:         "/api/v1/tasks/task-1",
			status:       http.StatusNoContent,
			wantContains: []string{`"status":204`, `"size":0`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				if tt.body != "" {
					_, _ = w.Write([]byte(tt.body))
				}
			})

			rr := httptest.NewRecorder()
			newTestHandler().withLogging(next).ServeHTTP(rr, makeRequest(tt.method, tt.path, &buf))

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.body, rr.Body.String())
			for _, want := range tt.wantContains {
				assert.Contains(t, buf.String(), want)
			}
		})
	}
}

// ---- Неявный 200 при Write без WriteHeader ----

func TestWithLogging_ImplicitStatus(t *testing.T) {
	var buf bytes.Buffer
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	rr := httptest.NewRecorder()
	newTestHandler().withLogging(next).ServeHTTP(rr, makeRequest(http.MethodGet, "/api/version", &buf))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, buf.String(), `"status":200`)
}
