package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTimeoutRouter(d time.Duration, handler gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(Logger())
	r.Use(Timeout(d))
	r.GET("/test", handler)
	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTimeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
		handler gin.HandlerFunc
		want    int
	}{
		{
			name:    "handler completes in time",
			timeout: 100 * time.Millisecond,
			handler: func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) },
			want:    http.StatusOK,
		},
		{
			name:    "handler exits without writing",
			timeout: 5 * time.Millisecond,
			handler: func(c *gin.Context) { <-c.Request.Context().Done() },
			want:    http.StatusServiceUnavailable,
		},
		{
			name:    "written response is kept",
			timeout: 5 * time.Millisecond,
			handler: func(c *gin.Context) {
				c.JSON(http.StatusCreated, gin.H{"done": true})
				time.Sleep(20 * time.Millisecond)
			},
			want: http.StatusCreated,
		},
		{
			name:    "client error passes through",
			timeout: 100 * time.Millisecond,
			handler: func(c *gin.Context) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "bad input"})
			},
			want: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTimeoutRouter(tt.timeout, tt.handler)
			w := serve(r, httptest.NewRequest(http.MethodGet, "/test?lat=1", nil))
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestTimeoutContextHasDeadline(t *testing.T) {
	r := newTimeoutRouter(500*time.Millisecond, func(c *gin.Context) {
		if _, ok := c.Request.Context().Deadline(); !ok {
			t.Error("context has no deadline; middleware did not set one")
		}
		c.Status(http.StatusOK)
	})

	serve(r, httptest.NewRequest(http.MethodGet, "/test", nil))
}

func TestTimeoutPreCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := newTimeoutRouter(100*time.Millisecond, func(c *gin.Context) {
		if c.Request.Context().Err() == nil {
			t.Error("expected cancelled context, got nil error")
		}
		c.Status(http.StatusOK)
	})

	serve(r, httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(ctx))
}
