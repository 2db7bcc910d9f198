package router

import (
	"github.com/fieldops/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the HTTP handlers of the API
type Handlers struct {
	System      *handler.SystemHandler
	Auth        *handler.AuthHandler
	WorkOrder   *handler.WorkOrderHandler
	Technician  *handler.TechnicianHandler
	Group       *handler.GroupHandler
	Attendance  *handler.AttendanceHandler
	Material    *handler.MaterialHandler
	OptimoRoute *handler.OptimoRouteHandler
}

// APIGroups builds the /api/v1 route groups. Login, health and the order
// lookup preflight are public; everything else runs behind the requireAuth chain.
func APIGroups(h Handlers, requireAuth ...gin.HandlerFunc) []*DomainGroup {
	protected := func(handler gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, requireAuth...), handler)
	}

	system := NewDomainGroup("system", "")
	system.GET("/health", h.System.Health)
	system.GET("/ping", h.System.Ping)

	auth := NewDomainGroup("auth", "/auth")
	auth.POST("/login", h.Auth.Login)
	auth.POST("/logout", protected(h.Auth.Logout)...)
	auth.GET("/me", protected(h.Auth.Me)...)

	workOrders := NewDomainGroup("workorder", "/work-orders").Use(requireAuth...)
	workOrders.GET("", h.WorkOrder.List)
	workOrders.POST("", h.WorkOrder.Create)
	workOrders.GET("/status-counts", h.WorkOrder.StatusCounts)
	workOrders.POST("/navigate", h.WorkOrder.Navigate)
	workOrders.POST("/sort-state", h.WorkOrder.SortState)
	workOrders.GET("/:id", h.WorkOrder.GetByID)
	workOrders.DELETE("/:id", h.WorkOrder.Delete)
	workOrders.PUT("/:id/status", h.WorkOrder.UpdateStatus)
	workOrders.POST("/:id/approve", h.WorkOrder.Approve)
	workOrders.POST("/:id/flag", h.WorkOrder.Flag)
	workOrders.PUT("/:id/resolution-notes", h.WorkOrder.UpdateResolutionNotes)
	workOrders.GET("/:id/images", h.WorkOrder.ListImages)
	workOrders.POST("/:id/images/upload-url", h.WorkOrder.CreateUploadURL)
	workOrders.GET("/:id/images/archive", h.WorkOrder.DownloadImages)

	technicians := NewDomainGroup("technician", "/technicians").Use(requireAuth...)
	technicians.GET("", h.Technician.List)
	technicians.POST("", h.Technician.Create)
	technicians.GET("/:id", h.Technician.GetByID)
	technicians.PUT("/:id", h.Technician.Update)
	technicians.DELETE("/:id", h.Technician.Delete)

	groups := NewDomainGroup("group", "/groups").Use(requireAuth...)
	groups.GET("", h.Group.List)
	groups.POST("", h.Group.Add)
	groups.PUT("/:id", h.Group.Update)
	groups.DELETE("/:id", h.Group.Remove)

	attendance := NewDomainGroup("attendance", "/attendance").Use(requireAuth...)
	attendance.POST("", h.Attendance.Record)
	attendance.POST("/day", h.Attendance.SubmitDay)
	attendance.GET("/history", h.Attendance.History)
	attendance.GET("/weeks", h.Attendance.Weeks)

	materials := NewDomainGroup("material", "/materials").Use(requireAuth...)
	materials.GET("", h.Material.List)
	materials.POST("", h.Material.Create)
	materials.GET("/summary", h.Material.Summary)
	materials.GET("/export", h.Material.Export)
	materials.GET("/:id", h.Material.GetByID)
	materials.PUT("/:id", h.Material.Update)
	materials.DELETE("/:id", h.Material.Delete)

	optimoRoute := NewDomainGroup("routing", "/optimoroute")
	optimoRoute.OPTIONS("/search", h.OptimoRoute.SearchPreflight)
	optimoRoute.POST("/search", protected(h.OptimoRoute.Search)...)
	optimoRoute.POST("/bulk-orders", protected(h.OptimoRoute.BulkOrders)...)
	optimoRoute.POST("/import", protected(h.OptimoRoute.Import)...)

	return []*DomainGroup{system, auth, workOrders, technicians, groups, attendance, materials, optimoRoute}
}
