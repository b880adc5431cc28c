package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestOriginGuard(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(OriginGuard([]string{"https://app.example.com", "not a url"}))
	ok := func(c *gin.Context) { c.Status(http.StatusNoContent) }
	r.GET("/entries", ok)
	r.POST("/entries", ok)
	r.DELETE("/entries/:id", ok)

	tests := []struct {
		name    string
		method  string
		path    string
		origin  string
		referer string
		want    int
	}{
		{"safe method from anywhere", http.MethodGet, "/entries", "https://evil.example", "", http.StatusNoContent},
		{"no origin headers", http.MethodPost, "/entries", "", "", http.StatusNoContent},
		{"allowed origin", http.MethodPost, "/entries", "https://app.example.com", "", http.StatusNoContent},
		{"allowed origin with different case", http.MethodPost, "/entries", "HTTPS://APP.example.com", "", http.StatusNoContent},
		{"same host", http.MethodPost, "/entries", "http://api.test", "", http.StatusNoContent},
		{"foreign origin", http.MethodPost, "/entries", "https://evil.example", "", http.StatusForbidden},
		{"foreign referer", http.MethodDelete, "/entries/1", "", "https://evil.example/page", http.StatusForbidden},
		{"allowed referer", http.MethodDelete, "/entries/1", "", "https://app.example.com/entries/1/delete", http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "http://api.test"+tt.path, nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.referer != "" {
				req.Header.Set("Referer", tt.referer)
			}
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
