package dto

import "github.com/yigit/campusdesk/internal/app/models"

// GeoLocationInput carries coordinates as pointers so that a zero value is
// distinguishable from a missing one.
type GeoLocationInput struct {
	Lat *float64 `json:"lat" form:"lat" validate:"required,latitude"`
	Lng *float64 `json:"lng" form:"lng" validate:"required,longitude"`
}

// InstitutionInput is the institution provisioning schema
type InstitutionInput struct {
	Name           string            `json:"name" form:"name" validate:"required,min=2"`
	Email          string            `json:"email" form:"email" validate:"required,email"`
	Phone          string            `json:"phone" form:"phone" validate:"required,phone10"`
	Website        string            `json:"website" form:"website" validate:"omitempty,url"`
	RegistrationNo string            `json:"registrationNo" form:"registrationNo"`
	EstablishDate  string            `json:"establishDate" form:"establishDate" validate:"omitempty,isodate"`
	Address        string            `json:"address" form:"address"`
	GeoLocation    *GeoLocationInput `json:"geoLocation" form:"-" validate:"required"`
}

// InstitutionUpdateInput edits an existing institution. Assets are optional.
type InstitutionUpdateInput struct {
	Name           string            `json:"name" form:"name" validate:"required,min=2"`
	Email          string            `json:"email" form:"email" validate:"required,email"`
	Phone          string            `json:"phone" form:"phone" validate:"required,phone10"`
	Website        string            `json:"website" form:"website" validate:"omitempty,url"`
	RegistrationNo string            `json:"registrationNo" form:"registrationNo"`
	EstablishDate  string            `json:"establishDate" form:"establishDate" validate:"omitempty,isodate"`
	Address        string            `json:"address" form:"address"`
	GeoLocation    *GeoLocationInput `json:"geoLocation" form:"-" validate:"omitempty"`
}

// StatusUpdateRequest toggles an institution's sign-in status
type StatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
}

// ProvisionResponse is returned after an institution is created. The same
// credentials are also emailed to the institution.
type ProvisionResponse struct {
	Institution *models.Organization `json:"institution"`
	Credentials models.Credentials   `json:"credentials"`
}
