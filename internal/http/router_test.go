package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	httpH "github.com/yungbote/carbonmatch-backend/internal/http/handlers"
	httpMW "github.com/yungbote/carbonmatch-backend/internal/http/middleware"
	"github.com/yungbote/carbonmatch-backend/internal/pkg/logger"
)

func TestRouterServesHealthWithTraceHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	r := NewRouter(RouterConfig{
		Log:           log,
		ServiceName:   "carbonmatch-test",
		HealthHandler: httpH.NewHealthHandler(nil),
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("status=%d body=%q", rec.Code, rec.Body.String())
	}
	if rec.Header().Get(httpMW.HeaderRequestID) == "" || rec.Header().Get(httpMW.HeaderTraceID) == "" {
		t.Fatalf("missing trace headers: %v", rec.Header())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/best-match/process", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unwired route status=%d, want 404", rec.Code)
	}
}
