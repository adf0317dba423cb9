package entities

import "strings"

// FacilityKind identifies one of the upstream facility sources
type FacilityKind string

const (
	FacilityKindPharmacy  FacilityKind = "pharmacy"
	FacilityKindHospital  FacilityKind = "hospital"
	FacilityKindEmergency FacilityKind = "emergency"
)

// OpenStatus is the operating status derived from duty-hour tables
type OpenStatus string

const (
	OpenStatusOpen    OpenStatus = "OPEN"
	OpenStatusClosed  OpenStatus = "CLOSED"
	OpenStatusUnknown OpenStatus = "UNKNOWN"
)

// PlaceSourceDataGoKr is reported on every place normalized from data.go.kr
const PlaceSourceDataGoKr = "data.go.kr"

// RegionScope is the administrative lookup scope (q0 province, q1 district).
// An empty District means the whole province.
type RegionScope struct {
	Province string `json:"q0"`
	District string `json:"q1,omitempty"`
}

// Trimmed returns the scope with surrounding whitespace removed
func (r RegionScope) Trimmed() RegionScope {
	return RegionScope{
		Province: strings.TrimSpace(r.Province),
		District: strings.TrimSpace(r.District),
	}
}

// PlaceQuery is the input of a nearby lookup
type PlaceQuery struct {
	Latitude  float64
	Longitude float64
	Region    RegionScope
	RadiusKm  float64
	Limit     int
}

// NormalizedPlace is a facility candidate derived from one raw record
type NormalizedPlace struct {
	Name            string       `json:"name"`
	Address         string       `json:"address"`
	Phone           *string      `json:"phone"`
	Latitude        *float64     `json:"lat"`
	Longitude       *float64     `json:"lng"`
	DistanceKm      float64      `json:"distance_km"`
	Category        string       `json:"category,omitempty"`
	DutyDivName     string       `json:"duty_div_name,omitempty"`
	InstitutionType string       `json:"institution_type,omitempty"`
	Notes           *string      `json:"notes,omitempty"`
	OpenStatus      OpenStatus   `json:"open_status"`
	OpenUntil       *string      `json:"open_until"`
	Source          string       `json:"source"`
	Kind            FacilityKind `json:"-"`
}

// HasCoordinates reports whether the source published a location
func (p NormalizedPlace) HasCoordinates() bool {
	return p.Latitude != nil && p.Longitude != nil
}
