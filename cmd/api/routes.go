package main

import (
	"lawdesk-platform/internal/httpapi"
	"lawdesk-platform/internal/rbac"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic.
func registerRoutes(r *gin.Engine, h httpapi.Handlers, authMW, bookingLimitMW gin.HandlerFunc) {
	// public
	r.GET("/healthz", h.Healthz)
	r.POST("/v1/auth/login", h.Login)

	// Public consultation booking form. Rate limited per client IP since it
	// takes unauthenticated traffic from the marketing site.
	r.POST("/v1/bookings", bookingLimitMW, h.CreateBooking)

	// back-office API: access token + staff role required
	v1 := r.Group("/v1")
	v1.Use(authMW)
	v1.Use(rbac.RequireStaff())
	{
		casesGroup := v1.Group("/cases")
		{
			casesGroup.POST("", h.CreateCase)
			casesGroup.GET("", h.ListCases)
			casesGroup.GET("/:case_id", h.GetCase)
			casesGroup.PUT("/:case_id", h.UpdateCase)
			casesGroup.DELETE("/:case_id", rbac.RequireAdmin(), h.DeleteCase)
			casesGroup.GET("/:case_id/audit", h.CaseAuditTrail)
		}

		docsGroup := v1.Group("/documents")
		{
			docsGroup.POST("", h.CreateDocument)
			docsGroup.GET("", h.ListDocuments)
			docsGroup.GET("/:document_id", h.GetDocument)
			docsGroup.PUT("/:document_id", h.UpdateDocument)
			docsGroup.DELETE("/:document_id", rbac.RequireAdmin(), h.DeleteDocument)

			docsGroup.POST("/:document_id/versions", h.CreateVersion)
			docsGroup.GET("/:document_id/versions", h.ListVersions)
			docsGroup.POST("/:document_id/export", h.ExportDocument)
		}

		versionsGroup := v1.Group("/versions")
		{
			versionsGroup.POST("/:version_id/submit", h.SubmitVersion)
			versionsGroup.POST("/:version_id/approve", rbac.RequireAdmin(), h.ApproveVersion)
			versionsGroup.POST("/:version_id/approvals", rbac.RequireAdmin(), h.GrantLocaleApproval)
		}

		admin := v1.Group("/admin")
		admin.Use(rbac.RequireAdmin())
		{
			admin.GET("/bookings", h.AdminListBookings)
			admin.PUT("/bookings/:booking_id/status", h.AdminUpdateBookingStatus)
		}
	}
}
