package main

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/coursecraft/lms/internal/jobs"
	"github.com/coursecraft/lms/internal/models"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
	"gopkg.in/mail.v2"
)

// UserRepository defines the user lookups the worker needs
type UserRepository interface {
	// GetByID retrieves a profile by its ID
	//
	// If the profile does not exist, an error containing "not found" is returned.
	GetByID(ctx context.Context, id int) (*models.Profile, error)
}

// CourseRepository defines the course lookups the worker needs
type CourseRepository interface {
	GetByID(ctx context.Context, id int) (*models.Course, error)
}

// CertificateRepository defines the certificate lookups the worker needs
type CertificateRepository interface {
	GetByUserAndCourse(ctx context.Context, userID, courseID int) (*models.Certificate, error)
}

// LicenseRepository defines the license lookups the worker needs
type LicenseRepository interface {
	GetByID(ctx context.Context, id int) (*models.License, error)
}

// Mailer sends a rendered HTML e-mail
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

var (
	welcomeTemplate = template.Must(template.New("welcome").Parse(
		`<p>Hi {{.Name}},</p>
<p>You are now enrolled in <strong>{{.CourseTitle}}</strong>.</p>
<p><a href="{{.CourseURL}}">Start learning</a></p>`))

	certificateTemplate = template.Must(template.New("certificate").Parse(
		`<p>Congratulations {{.Name}}!</p>
<p>You completed <strong>{{.CourseTitle}}</strong>. Your certificate number is <code>{{.CertificateNumber}}</code>.</p>
<p>Anyone can verify it at <a href="{{.VerifyURL}}">{{.VerifyURL}}</a>.</p>`))

	licenseTemplate = template.Must(template.New("license").Parse(
		`<p>Hi {{.Name}},</p>
<p>Your license for <strong>{{.CourseTitle}}</strong> is active.</p>
{{if .ExpiresAt}}<p>It expires on {{.ExpiresAt}}.</p>{{end}}`))
)

type mailData struct {
	Name              string
	CourseTitle       string
	CourseURL         string
	CertificateNumber string
	VerifyURL         string
	ExpiresAt         string
}

// Worker handles e-mail task processing
type Worker struct {
	logger          *zap.Logger
	userRepo        UserRepository
	courseRepo      CourseRepository
	certificateRepo CertificateRepository
	licenseRepo     LicenseRepository
	mailer          Mailer
	baseURL         string
}

// NewWorker creates a new worker instance
func NewWorker(
	logger *zap.Logger,
	userRepo UserRepository,
	courseRepo CourseRepository,
	certificateRepo CertificateRepository,
	licenseRepo LicenseRepository,
	mailer Mailer,
	baseURL string,
) *Worker {
	return &Worker{
		logger:          logger,
		userRepo:        userRepo,
		courseRepo:      courseRepo,
		certificateRepo: certificateRepo,
		licenseRepo:     licenseRepo,
		mailer:          mailer,
		baseURL:         strings.TrimRight(baseURL, "/"),
	}
}

// HandleEnrollmentWelcome sends the welcome mail after an enrollment
func (w *Worker) HandleEnrollmentWelcome(ctx context.Context, t *asynq.Task) error {
	payload, err := jobs.ParseEnrollmentPayload(t)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	user, course, err := w.loadUserAndCourse(ctx, payload.UserID, payload.CourseID)
	if err != nil || user == nil {
		return err
	}

	return w.send(user, "Welcome to "+course.Title, welcomeTemplate, mailData{
		Name:        displayName(user),
		CourseTitle: course.Title,
		CourseURL:   w.baseURL + "/courses/" + course.Slug,
	})
}

// HandleCertificateIssued sends the certificate mail after a course completion
func (w *Worker) HandleCertificateIssued(ctx context.Context, t *asynq.Task) error {
	payload, err := jobs.ParseEnrollmentPayload(t)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	user, course, err := w.loadUserAndCourse(ctx, payload.UserID, payload.CourseID)
	if err != nil || user == nil {
		return err
	}

	cert, err := w.certificateRepo.GetByUserAndCourse(ctx, payload.UserID, payload.CourseID)
	if err != nil {
		return w.skipIfGone(err, t)
	}

	return w.send(user, "Your certificate for "+course.Title, certificateTemplate, mailData{
		Name:              displayName(user),
		CourseTitle:       course.Title,
		CertificateNumber: cert.CertificateNumber,
		VerifyURL:         w.baseURL + "/api/v1/certificates/verify/" + cert.CertificateNumber,
	})
}

// HandleLicenseActivated sends the license confirmation mail
func (w *Worker) HandleLicenseActivated(ctx context.Context, t *asynq.Task) error {
	payload, err := jobs.ParseLicensePayload(t)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	license, err := w.licenseRepo.GetByID(ctx, payload.LicenseID)
	if err != nil {
		return w.skipIfGone(err, t)
	}

	user, course, err := w.loadUserAndCourse(ctx, payload.UserID, license.CourseID)
	if err != nil || user == nil {
		return err
	}

	data := mailData{
		Name:        displayName(user),
		CourseTitle: course.Title,
	}
	if license.ExpiresAt != nil {
		data.ExpiresAt = license.ExpiresAt.UTC().Format("2006-01-02")
	}

	return w.send(user, "License activated for "+course.Title, licenseTemplate, data)
}

// loadUserAndCourse returns nil user and nil error when either row was deleted before processing
func (w *Worker) loadUserAndCourse(ctx context.Context, userID, courseID int) (*models.Profile, *models.Course, error) {
	user, err := w.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, w.skipIfGone(err, nil)
	}

	course, err := w.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, nil, w.skipIfGone(err, nil)
	}

	return user, course, nil
}

// skipIfGone drops the task when the referenced row no longer exists
func (w *Worker) skipIfGone(err error, t *asynq.Task) error {
	if strings.Contains(err.Error(), "not found") {
		fields := []zap.Field{zap.Error(err)}
		if t != nil {
			fields = append(fields, zap.String("type", t.Type()))
		}
		w.logger.Info("Skipping e-mail for deleted record", fields...)
		return nil
	}
	return err
}

func (w *Worker) send(user *models.Profile, subject string, tmpl *template.Template, data mailData) error {
	var body bytes.Buffer
	if err := tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render %s mail: %w", tmpl.Name(), err)
	}

	if err := w.mailer.Send(user.Email, subject, body.String()); err != nil {
		w.logger.Error("Failed to send e-mail",
			zap.String("template", tmpl.Name()),
			zap.Int("user_id", user.ID),
			zap.Error(err),
		)
		return err
	}

	w.logger.Info("E-mail sent", zap.String("template", tmpl.Name()), zap.Int("user_id", user.ID))
	return nil
}

func displayName(user *models.Profile) string {
	if user.FullName != "" {
		return user.FullName
	}
	return user.Username
}

// smtpMailer delivers mail through an SMTP relay
type smtpMailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPMailer creates a mailer for the given SMTP relay
func NewSMTPMailer(host string, port int, username, password, from string) *smtpMailer {
	return &smtpMailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// Send sends an HTML e-mail
func (m *smtpMailer) Send(to, subject, htmlBody string) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	dialer := mail.NewDialer(m.host, m.port, m.username, m.password)
	if err := dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
