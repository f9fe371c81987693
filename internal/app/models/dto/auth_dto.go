package dto

import "github.com/yigit/campusdesk/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// AdminRegisterRequest creates the single admin account
type AdminRegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn" example:"86400"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token   TokenResponse   `json:"token"`
	Account *models.Account `json:"account"`
}

// LoginResult is what the auth service hands back to controllers
type LoginResult struct {
	Token     string
	ExpiresIn int64
	Account   *models.Account
}

// ProfileResponse is the signed-in actor together with its profile, if any
type ProfileResponse struct {
	Account      *models.Account          `json:"account"`
	Organization *models.Organization     `json:"organization,omitempty"`
	Student      *models.StudentProfile   `json:"student,omitempty"`
	Courses      []*models.CourseOffering `json:"courses,omitempty"`
}
