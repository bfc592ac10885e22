package handler

import "github.com/gin-gonic/gin"

// Handlers groups every HTTP handler mounted under the API prefix.
type Handlers struct {
	Auth       *AuthHandler
	Sync       *SyncHandler
	Class      *ClassHandler
	Student    *StudentHandler
	Attendance *AttendanceHandler
	Dashboard  *DashboardHandler
	Report     *ReportHandler
	Export     *ExportHandler
}

// RegisterRoutes mounts the API. Mutating routes run behind guard.
func RegisterRoutes(api *gin.RouterGroup, h Handlers, guard gin.HandlerFunc) {
	if guard == nil {
		guard = func(c *gin.Context) { c.Next() }
	}

	api.POST("/auth/login", h.Auth.Login)

	api.GET("/state", h.Sync.State)
	api.POST("/sync", guard, h.Sync.Sync)

	classes := api.Group("/classes")
	classes.GET("", h.Class.List)
	classes.GET("/:id", h.Class.Get)
	classes.POST("", guard, h.Class.Create)
	classes.PUT("/:id", guard, h.Class.Update)
	classes.DELETE("/:id", guard, h.Class.Delete)

	students := api.Group("/students")
	students.GET("", h.Student.List)
	students.GET("/:id", h.Student.Get)
	students.POST("", guard, h.Student.Create)
	students.PUT("/:id", guard, h.Student.Update)
	students.DELETE("/:id", guard, h.Student.Delete)

	att := api.Group("/attendance")
	att.GET("/session", h.Attendance.Session)
	att.GET("/status", h.Attendance.Status)
	att.POST("/roster", guard, h.Attendance.SaveRoster)

	api.GET("/dashboard", h.Dashboard.Summary)

	reports := api.Group("/reports")
	reports.GET("/daily", h.Report.Daily)
	reports.GET("/monthly", h.Report.Monthly)

	exports := api.Group("/exports")
	exports.POST("", guard, h.Export.Request)
	exports.GET("/:id", h.Export.Status)
	exports.GET("/download/:token", h.Export.Download)
}
