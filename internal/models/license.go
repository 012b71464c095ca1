package models

import "time"

// LicenseStatus represents the provider-side state of a license key
type LicenseStatus string

const (
	LicenseStatusActive   LicenseStatus = "active"
	LicenseStatusInactive LicenseStatus = "inactive"
	LicenseStatusExpired  LicenseStatus = "expired"
	LicenseStatusDisabled LicenseStatus = "disabled"
)

// License represents an activated license key
type License struct {
	ID             int           `json:"id"`
	UserID         int           `json:"userId"`
	CourseID       int           `json:"courseId"`
	CourseTitle    string        `json:"courseTitle,omitempty"`
	LicenseKey     string        `json:"licenseKey"`
	InstanceID     string        `json:"instanceId"`
	Status         LicenseStatus `json:"status"`
	ActivatedAt    time.Time     `json:"activatedAt"`
	ExpiresAt      *time.Time    `json:"expiresAt,omitempty"`
	LastVerifiedAt *time.Time    `json:"lastVerifiedAt,omitempty"`
}

// ActivateLicenseRequest represents a license activation request
type ActivateLicenseRequest struct {
	LicenseKey string `json:"licenseKey" validate:"required,max=255"`
}

// LicenseCheck is the provider answer to an activate, validate or deactivate call.
// OK is the activated, valid or deactivated flag of the respective call.
type LicenseCheck struct {
	OK            bool
	Error         string
	Status        LicenseStatus
	ExpiresAt     *time.Time
	InstanceID    string
	ProductID     string
	CustomerEmail string
}
