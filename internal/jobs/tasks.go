// Package jobs defines the background e-mail tasks and enqueues them with asynq
package jobs

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

// Task types
const (
	TypeEnrollmentWelcome = "email:enrollment_welcome"
	TypeCertificateIssued = "email:certificate_issued"
	TypeLicenseActivated  = "email:license_activated"
)

// QueueEmails is the queue every e-mail task goes to
const QueueEmails = "emails"

// MaxRetry is the number of delivery attempts before a task is archived
const MaxRetry = 5

// EnrollmentPayload identifies the enrollment a mail is about.
// Tasks carry IDs only, the worker loads the current rows.
type EnrollmentPayload struct {
	UserID   int `json:"userId"`
	CourseID int `json:"courseId"`
}

// LicensePayload identifies an activated license
type LicensePayload struct {
	UserID    int `json:"userId"`
	LicenseID int `json:"licenseId"`
}

// NewEnrollmentWelcomeTask creates the welcome mail task
func NewEnrollmentWelcomeTask(userID, courseID int) (*asynq.Task, error) {
	return newTask(TypeEnrollmentWelcome, EnrollmentPayload{UserID: userID, CourseID: courseID})
}

// NewCertificateIssuedTask creates the certificate mail task
func NewCertificateIssuedTask(userID, courseID int) (*asynq.Task, error) {
	return newTask(TypeCertificateIssued, EnrollmentPayload{UserID: userID, CourseID: courseID})
}

// NewLicenseActivatedTask creates the license activation mail task
func NewLicenseActivatedTask(userID, licenseID int) (*asynq.Task, error) {
	return newTask(TypeLicenseActivated, LicensePayload{UserID: userID, LicenseID: licenseID})
}

func newTask(taskType string, payload any) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", taskType, err)
	}
	return asynq.NewTask(taskType, data, asynq.Queue(QueueEmails), asynq.MaxRetry(MaxRetry)), nil
}

// ParseEnrollmentPayload decodes the payload of welcome and certificate tasks
func ParseEnrollmentPayload(t *asynq.Task) (*EnrollmentPayload, error) {
	var p EnrollmentPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return nil, fmt.Errorf("invalid %s payload: %w", t.Type(), err)
	}
	if p.UserID <= 0 || p.CourseID <= 0 {
		return nil, fmt.Errorf("invalid %s payload: user and course are required", t.Type())
	}
	return &p, nil
}

// ParseLicensePayload decodes the payload of license tasks
func ParseLicensePayload(t *asynq.Task) (*LicensePayload, error) {
	var p LicensePayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return nil, fmt.Errorf("invalid %s payload: %w", t.Type(), err)
	}
	if p.UserID <= 0 || p.LicenseID <= 0 {
		return nil, fmt.Errorf("invalid %s payload: user and license are required", t.Type())
	}
	return &p, nil
}
