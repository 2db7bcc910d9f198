package middleware

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func swaggerRouter(cfg SwaggerConfig, jwt gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.GET("/swagger/*any", SwaggerProtection(cfg, jwt), func(c *gin.Context) {
		c.String(http.StatusOK, "docs")
	})
	return router
}

func swaggerFrom(router *gin.Engine, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSwaggerProtection(t *testing.T) {
	deny := func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	}
	allow := func(c *gin.Context) { c.Next() }

	tests := []struct {
		name       string
		cfg        SwaggerConfig
		jwt        gin.HandlerFunc
		remoteAddr string
		want       int
	}{
		{"disabled", SwaggerConfig{Enabled: false}, nil, "127.0.0.1:1", http.StatusNotFound},
		{"open", SwaggerConfig{Enabled: true}, nil, "203.0.113.9:1", http.StatusOK},
		{"allowed ip", SwaggerConfig{Enabled: true, AllowedIPs: []string{"127.0.0.1"}}, nil, "127.0.0.1:1", http.StatusOK},
		{"denied ip", SwaggerConfig{Enabled: true, AllowedIPs: []string{"127.0.0.1"}}, nil, "192.168.1.1:1", http.StatusForbidden},
		{"cidr", SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8"}}, nil, "10.20.30.40:1", http.StatusOK},
		{"auth rejected", SwaggerConfig{Enabled: true, RequireAuth: true}, deny, "127.0.0.1:1", http.StatusUnauthorized},
		{"auth accepted", SwaggerConfig{Enabled: true, RequireAuth: true}, allow, "127.0.0.1:1", http.StatusOK},
		{"ip checked before auth", SwaggerConfig{Enabled: true, RequireAuth: true, AllowedIPs: []string{"127.0.0.1"}}, allow, "192.168.1.1:1", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := swaggerFrom(swaggerRouter(tt.cfg, tt.jwt), tt.remoteAddr)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestAllowList(t *testing.T) {
	list := parseAllowList([]string{"192.168.1.1", " ::1 ", "10.0.0.0/8", "not-an-ip", "300.0.0.0/8"})

	assert.True(t, list.contains(net.ParseIP("192.168.1.1")))
	assert.True(t, list.contains(net.ParseIP("::1")))
	assert.True(t, list.contains(net.ParseIP("10.1.2.3")))
	assert.False(t, list.contains(net.ParseIP("11.0.0.5")))
	assert.False(t, list.contains(nil))
	assert.Len(t, list.ips, 2)
	assert.Len(t, list.nets, 1)
}
