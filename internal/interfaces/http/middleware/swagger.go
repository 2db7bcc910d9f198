package middleware

import (
	"net"
	"net/http"
	"strings"

	"github.com/fieldops/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// SwaggerConfig holds configuration for Swagger endpoint protection
type SwaggerConfig struct {
	Enabled     bool
	RequireAuth bool     // Require a valid JWT to read the docs
	AllowedIPs  []string // CIDR notation supported, empty = allow all
}

// SwaggerProtection guards the documentation routes.
// Disabled docs answer 404, an IP outside AllowedIPs gets 403, and with
// RequireAuth the JWT middleware must accept the request.
func SwaggerProtection(cfg SwaggerConfig, jwtMiddleware gin.HandlerFunc) gin.HandlerFunc {
	allowed := parseAllowList(cfg.AllowedIPs)

	return func(c *gin.Context) {
		if !cfg.Enabled {
			abortWithError(c, http.StatusNotFound, dto.ErrCodeNotFound, "API documentation is not available")
			return
		}

		if len(cfg.AllowedIPs) > 0 && !allowed.contains(net.ParseIP(c.ClientIP())) {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Access to API documentation is restricted")
			return
		}

		if cfg.RequireAuth && jwtMiddleware != nil {
			jwtMiddleware(c)
			if c.IsAborted() {
				return
			}
		}

		c.Next()
	}
}

type allowList struct {
	ips  []net.IP
	nets []*net.IPNet
}

// parseAllowList skips entries that are neither an IP nor a CIDR
func parseAllowList(entries []string) allowList {
	var list allowList
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if strings.Contains(entry, "/") {
			if _, network, err := net.ParseCIDR(entry); err == nil {
				list.nets = append(list.nets, network)
			}
			continue
		}
		if ip := net.ParseIP(entry); ip != nil {
			list.ips = append(list.ips, ip)
		}
	}
	return list
}

func (l allowList) contains(ip net.IP) bool {
	if ip == nil {
		return false
	}
	for _, allowed := range l.ips {
		if allowed.Equal(ip) {
			return true
		}
	}
	for _, network := range l.nets {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
