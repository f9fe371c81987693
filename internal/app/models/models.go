package models

// Role identifies which kind of actor an account belongs to
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleInstitution Role = "institution"
	RoleStudent     Role = "student"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleInstitution, RoleStudent:
		return true
	}
	return false
}

// OrganizationStatus controls whether an institution may sign in
type OrganizationStatus string

const (
	StatusActive   OrganizationStatus = "ACTIVE"
	StatusInactive OrganizationStatus = "INACTIVE"
)

// Valid reports whether s is ACTIVE or INACTIVE.
func (s OrganizationStatus) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// GeoLocation is a WGS84 coordinate pair
type GeoLocation struct {
	Lat float64 `json:"lat" db:"lat" example:"23.8103"`
	Lng float64 `json:"lng" db:"lng" example:"90.4125"`
}
