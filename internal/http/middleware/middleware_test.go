package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taxibook/internal/http/middleware"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(), middleware.Recovery())
	users := r.Group("/users/:uid", middleware.Session())
	users.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": middleware.CallerUID(c), "rid": middleware.GetRequestID(c)})
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return r
}

func serve(r *gin.Engine, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSession_AcceptsValidUID(t *testing.T) {
	r := newTestRouter()
	id := uuid.NewString()
	w := serve(r, "/users/"+id+"/whoami", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), id) {
		t.Errorf("expected uid %s in body, got %s", id, w.Body.String())
	}
}

func TestSession_RejectsInvalidUID(t *testing.T) {
	r := newTestRouter()
	for _, uid := range []string{"a.b", "semi;colon", strings.Repeat("x", 65)} {
		w := serve(r, "/users/"+uid+"/whoami", nil)
		if w.Code != http.StatusBadRequest {
			t.Errorf("uid %q: expected 400, got %d", uid, w.Code)
		}
	}
}

func TestRequestID_GeneratedAndEchoed(t *testing.T) {
	r := newTestRouter()

	w := serve(r, "/users/u1/whoami", nil)
	rid := w.Header().Get("X-Request-ID")
	if _, err := uuid.Parse(rid); err != nil {
		t.Errorf("expected generated uuid, got %q", rid)
	}

	w = serve(r, "/users/u1/whoami", map[string]string{"X-Request-ID": "abc-123"})
	if got := w.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("expected echoed request id, got %q", got)
	}
	if !strings.Contains(w.Body.String(), "abc-123") {
		t.Errorf("expected request id in context, got %s", w.Body.String())
	}
}

func TestRecovery_Returns500(t *testing.T) {
	r := newTestRouter()
	w := serve(r, "/panic", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
