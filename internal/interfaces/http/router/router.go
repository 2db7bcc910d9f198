package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts registrars under a versioned API prefix
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds registrars to be mounted by Setup
func (r *Router) Register(registrars ...RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrars...)
	return r
}

// RegisterGroups adds domain groups to be mounted by Setup
func (r *Router) RegisterGroups(groups ...*DomainGroup) *Router {
	for _, g := range groups {
		r.registrars = append(r.registrars, g)
	}
	return r
}

// BasePath returns the versioned prefix, e.g. /api/v1
func (r *Router) BasePath() string {
	return "/api/" + r.apiVersion
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group(r.BasePath())
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// Route describes one registered endpoint
type Route struct {
	Method string
	Path   string
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

// DomainGroup collects the routes of one bounded context under a prefix
type DomainGroup struct {
	name       string
	prefix     string
	middleware []gin.HandlerFunc
	routes     []routeDefinition
	subgroups  []*DomainGroup
}

// NewDomainGroup creates a new domain-specific route group
func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Use adds middleware to every route of this group and its subgroups
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

// Handle registers a route for an arbitrary method
func (dg *DomainGroup) Handle(method, path string, handlers ...gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{method: method, path: path, handlers: handlers})
	return dg
}

// GET registers a GET route
func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodGet, path, handlers...)
}

// POST registers a POST route
func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPost, path, handlers...)
}

// PUT registers a PUT route
func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodPut, path, handlers...)
}

// DELETE registers a DELETE route
func (dg *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodDelete, path, handlers...)
}

// OPTIONS registers an OPTIONS route
func (dg *DomainGroup) OPTIONS(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.Handle(http.MethodOptions, path, handlers...)
}

// Group creates a sub-group within this domain
func (dg *DomainGroup) Group(name, prefix string) *DomainGroup {
	subgroup := NewDomainGroup(name, prefix)
	dg.subgroups = append(dg.subgroups, subgroup)
	return subgroup
}

// RegisterRoutes implements RouteRegistrar
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(dg.prefix)
	if len(dg.middleware) > 0 {
		group.Use(dg.middleware...)
	}
	for _, route := range dg.routes {
		group.Handle(route.method, route.path, route.handlers...)
	}
	for _, subgroup := range dg.subgroups {
		subgroup.RegisterRoutes(group)
	}
}

// Routes lists the group's endpoints with paths relative to the parent
func (dg *DomainGroup) Routes() []Route {
	out := make([]Route, 0, len(dg.routes))
	for _, route := range dg.routes {
		out = append(out, Route{Method: route.method, Path: joinPath(dg.prefix, route.path)})
	}
	for _, subgroup := range dg.subgroups {
		for _, route := range subgroup.Routes() {
			out = append(out, Route{Method: route.Method, Path: joinPath(dg.prefix, route.Path)})
		}
	}
	return out
}

// Name returns the group name
func (dg *DomainGroup) Name() string {
	return dg.name
}

// Prefix returns the group prefix
func (dg *DomainGroup) Prefix() string {
	return dg.prefix
}

func joinPath(prefix, path string) string {
	switch {
	case path == "" || path == "/":
		if prefix == "" {
			return "/"
		}
		return prefix
	case prefix == "" || prefix == "/":
		return path
	}
	return prefix + path
}
