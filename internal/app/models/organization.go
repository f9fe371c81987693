package models

import "time"

// Organization is an institution tenant. It owns courses and students.
type Organization struct {
	ID             int64              `json:"id" db:"id" example:"1"`
	Name           string             `json:"name" db:"name" example:"Green Valley Academy"`
	Email          string             `json:"email" db:"email" example:"info@greenvalley.edu"`
	Phone          string             `json:"phone" db:"phone" example:"0123456789"`
	Website        *string            `json:"website,omitempty" db:"website"`
	RegistrationNo *string            `json:"registrationNo,omitempty" db:"registration_no"`
	EstablishDate  *time.Time         `json:"establishDate,omitempty" db:"establish_date"`
	Address        *string            `json:"address,omitempty" db:"address"`
	GeoLocation    GeoLocation        `json:"geoLocation"`
	ImageURL       string             `json:"image" db:"image_url"`
	BannerURL      *string            `json:"banner,omitempty" db:"banner_url"`
	OwnerAccountID int64              `json:"ownerAccountId" db:"owner_account_id"`
	Status         OrganizationStatus `json:"status" db:"status" example:"ACTIVE"`
	CreatedAt      time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time          `json:"updatedAt" db:"updated_at"`
}

// IsActive reports whether the organization may sign in.
func (o *Organization) IsActive() bool {
	return o.Status == StatusActive
}
