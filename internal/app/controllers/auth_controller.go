// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/campusdesk/internal/app/models"
	"github.com/yigit/campusdesk/internal/app/models/dto"
	"github.com/yigit/campusdesk/internal/app/services"
	"github.com/yigit/campusdesk/internal/middleware"
)

// AuthController handles registration, login, logout and profiles for the
// three roles
type AuthController struct {
	authService  *services.AuthService
	adminService *services.AdminService
	secureCookie bool
	logger       zerolog.Logger
}

// NewAuthController creates a new AuthController. secureCookie marks session
// cookies Secure and SameSite=None for cross-site production frontends.
func NewAuthController(authService *services.AuthService, adminService *services.AdminService, secureCookie bool, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService:  authService,
		adminService: adminService,
		secureCookie: secureCookie,
		logger:       logger,
	}
}

// RegisterAdmin creates the single admin account
// @Summary Register the admin
// @Tags admin
// @Accept json
// @Produce json
// @Param request body dto.AdminRegisterRequest true "Admin credentials"
// @Success 201 {object} dto.StructuredResponse{data=models.Account}
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 409 {object} dto.ErrorResponse "An admin already exists"
// @Router /admin/register [post]
func (ac *AuthController) RegisterAdmin(c *gin.Context) {
	var req dto.AdminRegisterRequest
	if !middleware.BindJSON(c, &req) {
		return
	}

	account, err := ac.adminService.Register(c.Request.Context(), req)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	okResponse(c, http.StatusCreated, account, "Admin registered successfully")
}

// Login returns the login handler of role. The token is returned in the
// body and also set as an httpOnly session cookie.
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.StructuredResponse{data=dto.AuthResponse}
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Account disabled"
// @Router /{role}/login [post]
func (ac *AuthController) Login(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.LoginRequest
		if !middleware.BindJSON(c, &req) {
			return
		}

		res, err := ac.authService.Login(c.Request.Context(), role, req)
		if err != nil {
			ac.logger.Warn().Err(err).Str("role", string(role)).Msg("Login failed")
			middleware.HandleAPIError(c, err)
			return
		}

		ac.setSessionCookie(c, role, res.Token, int(res.ExpiresIn))
		okResponse(c, http.StatusOK, dto.AuthResponse{
			Token: dto.TokenResponse{
				AccessToken: res.Token,
				TokenType:   "Bearer",
				ExpiresIn:   res.ExpiresIn,
			},
			Account: res.Account,
		}, "Login successful")
	}
}

// Logout returns the logout handler of role. It revokes the current token
// and clears the session cookie.
func (ac *AuthController) Logout(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ac.authService.Logout(c.Request.Context(), middleware.CurrentClaims(c)); err != nil {
			middleware.HandleAPIError(c, err)
			return
		}
		ac.setSessionCookie(c, role, "", -1)
		okResponse(c, http.StatusOK, nil, "Logged out successfully")
	}
}

// Profile returns the signed-in account with its linked profile
// @Summary Current profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=dto.ProfileResponse}
// @Failure 401 {object} dto.ErrorResponse "Not authenticated"
// @Router /{role}/profile [get]
func (ac *AuthController) Profile(c *gin.Context) {
	profile, err := ac.authService.Profile(c.Request.Context(), middleware.CurrentAccount(c))
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}
	okResponse(c, http.StatusOK, profile, "Profile retrieved successfully")
}

func (ac *AuthController) setSessionCookie(c *gin.Context, role models.Role, value string, maxAge int) {
	if ac.secureCookie {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(middleware.CookieName(role), value, maxAge, "/", "", ac.secureCookie, true)
}
