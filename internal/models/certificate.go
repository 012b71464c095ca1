package models

import "time"

// Certificate represents a course completion certificate
type Certificate struct {
	ID                int       `json:"id"`
	UserID            int       `json:"userId"`
	CourseID          int       `json:"courseId"`
	CertificateNumber string    `json:"certificateNumber"`
	IssuedAt          time.Time `json:"issuedAt"`
}

// MyCertificate represents a certificate with its course
type MyCertificate struct {
	Certificate
	CourseSlug  string `json:"courseSlug"`
	CourseTitle string `json:"courseTitle"`
}

// CertificateVerification is the public view of a certificate
type CertificateVerification struct {
	CertificateNumber string    `json:"certificateNumber"`
	HolderName        string    `json:"holderName"`
	CourseTitle       string    `json:"courseTitle"`
	IssuedAt          time.Time `json:"issuedAt"`
}
