package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusdesk/internal/app/repositories"
	"github.com/yigit/campusdesk/internal/app/services"
	"github.com/yigit/campusdesk/internal/middleware"
)

// DashboardController serves the aggregate views and health checks
type DashboardController struct {
	service *services.DashboardService
	store   repositories.Store
}

// NewDashboardController creates a new DashboardController
func NewDashboardController(service *services.DashboardService, store repositories.Store) *DashboardController {
	return &DashboardController{service: service, store: store}
}

// Admin returns system-wide totals
// @Summary Admin dashboard
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=dto.AdminDashboard}
// @Router /admin/dashboard [get]
func (dc *DashboardController) Admin(c *gin.Context) {
	d, err := dc.service.Admin(c.Request.Context(), middleware.CurrentAccount(c))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	okResponse(c, http.StatusOK, d, "Dashboard retrieved successfully")
}

// Institution returns the caller's totals
func (dc *DashboardController) Institution(c *gin.Context) {
	d, err := dc.service.Institution(c.Request.Context(), middleware.CurrentAccount(c))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	okResponse(c, http.StatusOK, d, "Dashboard retrieved successfully")
}

// Health reports whether the database is reachable
func (dc *DashboardController) Health(c *gin.Context) {
	if err := dc.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
