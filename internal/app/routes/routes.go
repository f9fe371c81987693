package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/campusdesk/internal/app/controllers"
	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/middleware"
)

// Controllers groups everything the router dispatches to
type Controllers struct {
	Auth        *controllers.AuthController
	Institution *controllers.InstitutionController
	Course      *controllers.CourseController
	Student     *controllers.StudentController
	Dashboard   *controllers.DashboardController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, ctrl Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	v1 := router.Group("/api/v1")
	v1.GET("/health", ctrl.Dashboard.Health)

	// requireRole authenticates the caller and restricts the group to role
	requireRole := func(g *gin.RouterGroup, role models.Role) *gin.RouterGroup {
		protected := g.Group("")
		protected.Use(authMiddleware.JWTAuth(role), authMiddleware.RoleRequired(role))
		return protected
	}

	// --- Admin ---
	admin := v1.Group("/admin")
	{
		admin.POST("/register", ctrl.Auth.RegisterAdmin)
		admin.POST("/login", ctrl.Auth.Login(models.RoleAdmin))

		adminProtected := requireRole(admin, models.RoleAdmin)
		adminProtected.POST("/logout", ctrl.Auth.Logout(models.RoleAdmin))
		adminProtected.GET("/profile", ctrl.Auth.Profile)
		adminProtected.GET("/dashboard", ctrl.Dashboard.Admin)

		institutions := adminProtected.Group("/institutions")
		{
			institutions.POST("", ctrl.Institution.Create)
			institutions.GET("", ctrl.Institution.List)
			institutions.GET("/recent", ctrl.Institution.Recent)
			institutions.GET("/:id", ctrl.Institution.Get)
			institutions.PUT("/:id", ctrl.Institution.Update)
			institutions.PATCH("/:id/status", ctrl.Institution.UpdateStatus)
			institutions.DELETE("/:id", ctrl.Institution.Delete)
			institutions.POST("/:id/resend-credentials", ctrl.Institution.ResendCredentials)
		}
	}

	// --- Institution ---
	institution := v1.Group("/institution")
	{
		institution.POST("/login", ctrl.Auth.Login(models.RoleInstitution))

		institutionProtected := requireRole(institution, models.RoleInstitution)
		institutionProtected.POST("/logout", ctrl.Auth.Logout(models.RoleInstitution))
		institutionProtected.GET("/profile", ctrl.Auth.Profile)
		institutionProtected.GET("/dashboard", ctrl.Dashboard.Institution)
	}

	courses := requireRole(v1.Group("/courses"), models.RoleInstitution)
	{
		courses.POST("", ctrl.Course.Create)
		courses.GET("", ctrl.Course.List)
		courses.GET("/:id", ctrl.Course.Get)
		courses.PUT("/:id", ctrl.Course.Update)
		courses.DELETE("/:id", ctrl.Course.Delete)
	}

	students := requireRole(v1.Group("/students"), models.RoleInstitution)
	{
		students.POST("", ctrl.Student.Enroll)
		students.GET("", ctrl.Student.List)
		students.GET("/all", ctrl.Student.All)
		students.GET("/export", ctrl.Student.Export)
		students.GET("/:id", ctrl.Student.Get)
		students.PUT("/:id", ctrl.Student.Update)
		students.DELETE("/:id", ctrl.Student.Delete)
		students.POST("/:id/courses", ctrl.Student.LinkCourse)
	}

	// --- Student ---
	student := v1.Group("/student")
	{
		student.POST("/login", ctrl.Auth.Login(models.RoleStudent))

		studentProtected := requireRole(student, models.RoleStudent)
		studentProtected.POST("/logout", ctrl.Auth.Logout(models.RoleStudent))
		studentProtected.GET("/profile", ctrl.Auth.Profile)
	}
}
