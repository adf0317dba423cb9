package entities

// Pharmacy status result sources
const (
	PharmacySourceAPI      = "api"
	PharmacySourceNoMatch  = "no_match"
	PharmacySourceAPIError = "api_error"
)

// PharmacyOpenStatus is the per-name result of a pharmacy open-status lookup
type PharmacyOpenStatus struct {
	Name      string     `json:"name"`
	IsOpen    OpenStatus `json:"is_open"`
	OpenUntil *string    `json:"open_until"`
	Source    string     `json:"source"`
}
