package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func newRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Recovery(zerolog.Nop()), Logger(zerolog.Nop()))
	r.GET("/secure", AdminAuth(secret), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextAdminID))
	})
	r.GET("/boom", func(c *gin.Context) { panic("boom") })
	return r
}

func TestAdminAuth(t *testing.T) {
	r := newRouter("s3cret")

	valid, err := GenerateAdminToken("s3cret", "ops", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	expired, _ := GenerateAdminToken("s3cret", "ops", -time.Hour)
	foreign, _ := GenerateAdminToken("other", "ops", time.Hour)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"no header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized},
		{"valid", "Bearer " + valid, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/secure", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d (%s)", tt.status, w.Code, w.Body.String())
			}
			if tt.status == http.StatusOK && w.Body.String() != "ops" {
				t.Fatalf("expected subject ops, got %q", w.Body.String())
			}
		})
	}
}

func TestRecovery(t *testing.T) {
	r := newRouter("s3cret")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
