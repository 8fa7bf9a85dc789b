package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"workshop-feedback/pkg/clients/mailer"
	"workshop-feedback/pkg/logger/sl"
	"workshop-feedback/pkg/models"
	"workshop-feedback/pkg/render"
	"workshop-feedback/pkg/repository"
	"workshop-feedback/pkg/utils"
)

type CertificateRenderer interface {
	Render(ctx context.Context, templateURL string, f render.Fields) ([]byte, error)
}

type LinkShortener interface {
	CreateShortLink(ctx context.Context, originalURL string) (string, error)
}

type RecordResult struct {
	Created  bool `json:"created"`
	Attached bool `json:"attached"`
}

type IssueResult struct {
	URL       string       `json:"url"`
	Delivered bool         `json:"delivered"`
	Record    RecordResult `json:"record"`
}

func fieldsOf(r models.CertificateRequest) render.Fields {
	return render.Fields{
		Name:         r.Name,
		WorkshopName: r.WorkshopName,
		Provider:     r.Provider,
		Date:         r.Date,
	}
}

var certificateEmail = template.Must(template.New("certificate").Parse(`<p>Hi <strong>{{.Name}}</strong>,</p>
<p>Thanks for participating in <strong>{{.WorkshopName}}</strong>.</p>
<p>Your certificate is ready! Click below to view or download it:</p>
<p><a href="{{.Link}}" target="_blank" style="color:green;">🎉 View Certificate</a></p>
<br />
<p>Best regards,<br />Workshop Team</p>`))

type CertificateService struct {
	log             *slog.Logger
	renderer        CertificateRenderer
	publisher       Publisher
	mail            MailClient
	shortener       LinkShortener
	certs           CertificateRepository
	subs            SubmissionRepository
	workshops       WorkshopRepository
	defaultTemplate string
	folder          string
	newID           func() string
	now             func() time.Time
}

// NewCertificateService wires the certificate pipeline. shortener may be nil.
func NewCertificateService(
	log *slog.Logger,
	renderer CertificateRenderer,
	publisher Publisher,
	mail MailClient,
	shortener LinkShortener,
	certs CertificateRepository,
	subs SubmissionRepository,
	workshops WorkshopRepository,
	defaultTemplate string,
	folder string,
) *CertificateService {
	return &CertificateService{
		log:             log,
		renderer:        renderer,
		publisher:       publisher,
		mail:            mail,
		shortener:       shortener,
		certs:           certs,
		subs:            subs,
		workshops:       workshops,
		defaultTemplate: defaultTemplate,
		folder:          folder,
		newID:           uuid.NewString,
		now:             time.Now,
	}
}

// Generate renders a certificate on the shared default template and
// publishes it.
func (s *CertificateService) Generate(ctx context.Context, req models.CertificateRequest) (string, error) {
	return s.generate(ctx, s.defaultTemplate, fieldsOf(req))
}

func (s *CertificateService) generate(ctx context.Context, templateURL string, f render.Fields) (string, error) {
	const op = "CertificateService.Generate"

	log := s.log.With(slog.String("op", op))

	png, err := s.renderer.Render(ctx, templateURL, f)
	if err != nil {
		if !errors.Is(err, ErrMissingField) {
			log.Error("failed to render certificate", sl.Err(err))
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	url, err := s.publish(ctx, png)
	if err != nil {
		log.Error("failed to upload certificate", sl.Err(err))
		return "", fmt.Errorf("%s: %w", op, err)
	}

	log.Info("certificate generated", slog.String("url", url))
	return url, nil
}

// publish uploads once under a fresh name; there is no retry.
func (s *CertificateService) publish(ctx context.Context, png []byte) (string, error) {
	name := "certificate-" + s.newID()
	url, err := s.publisher.Upload(ctx, png, s.folder, name)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrPublish, err)
	}
	return url, nil
}

// Deliver emails the certificate link to the recipient.
func (s *CertificateService) Deliver(ctx context.Context, req models.SendCertificateRequest) error {
	const op = "CertificateService.Deliver"

	log := s.log.With(
		slog.String("op", op),
		slog.String("email_hash", utils.HashString(req.Email)),
	)

	if req.Email == "" || req.CertificateURL == "" {
		return fmt.Errorf("%s: %w: email and certificateUrl", op, ErrMissingField)
	}

	link := req.CertificateURL
	if s.shortener != nil {
		short, err := s.shortener.CreateShortLink(ctx, req.CertificateURL)
		if err != nil {
			log.Warn("failed to shorten certificate link, sending full url", sl.Err(err))
		} else {
			link = short
		}
	}

	var html bytes.Buffer
	if err := certificateEmail.Execute(&html, struct {
		Name, WorkshopName, Link string
	}{req.Name, req.WorkshopName, link}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err := s.mail.Send(mailer.Message{
		To:      req.Email,
		Subject: fmt.Sprintf("🎓 %s Your WorkShop Certificate", req.WorkshopName),
		Text: fmt.Sprintf("Congratulations! You have successfully completed the %s workshop. "+
			"You can download your certificate from the link below: \n %s", req.WorkshopName, link),
		HTML: html.String(),
	})
	if err != nil {
		log.Error("failed to send certificate email", sl.Err(err))
		return fmt.Errorf("%s: %w: %w", op, ErrDelivery, err)
	}

	log.Info("certificate emailed")
	return nil
}

// Record stores the certificate unless one with the same URL exists, then
// attaches the URL to the recipient's first submission by email.
func (s *CertificateService) Record(ctx context.Context, req models.RecordCertificateRequest) (RecordResult, error) {
	const op = "CertificateService.Record"

	var res RecordResult
	log := s.log.With(
		slog.String("op", op),
		slog.String("email_hash", utils.HashString(req.Email)),
	)

	if req.CertificateURL == "" || req.Email == "" {
		return res, fmt.Errorf("%s: %w: email and certificateUrl", op, ErrMissingField)
	}
	if !s.hosted(req.CertificateURL) {
		log.Warn("rejected certificate url from another host")
		return res, fmt.Errorf("%s: %w", op, ErrForeignURL)
	}

	exists, err := s.certs.ExistsByURL(ctx, req.CertificateURL)
	if err != nil {
		return res, fmt.Errorf("%s: %w", op, err)
	}

	if exists {
		log.Info("certificate already recorded")
	} else {
		err := s.certs.Create(ctx, &models.Certificate{
			ID:             s.newID(),
			Name:           req.Name,
			WorkshopName:   req.WorkshopName,
			Provider:       req.Provider,
			Date:           req.Date,
			Email:          req.Email,
			Phone:          req.Phone,
			CertificateURL: req.CertificateURL,
			CreatedAt:      s.now().UTC(),
		})
		switch {
		case errors.Is(err, repository.ErrAlreadyExists):
			log.Info("certificate recorded concurrently")
		case err != nil:
			return res, fmt.Errorf("%s: %w", op, err)
		default:
			res.Created = true
		}
	}

	// Matching is by email alone; a student with submissions to several
	// workshops gets the link on the oldest one.
	sub, err := s.subs.FindFirstByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		log.Warn("no submission found for certificate email")
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("%s: %w", op, err)
	}

	err = s.subs.SetCertificateURL(ctx, sub.ID, req.CertificateURL)
	if errors.Is(err, repository.ErrAlreadyExists) {
		log.Info("submission already has a certificate url", slog.String("submission_id", sub.ID))
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("%s: %w", op, err)
	}
	res.Attached = true

	log.Info("certificate url attached to submission", slog.String("submission_id", sub.ID))
	return res, nil
}

// hosted reports whether url points into the publisher's namespace.
func (s *CertificateService) hosted(url string) bool {
	base := strings.TrimRight(s.publisher.BaseURL(), "/")
	return base != "" && strings.HasPrefix(url, base+"/")
}

// Issue runs the whole pipeline. Once the certificate is published, email
// delivery and persistence run side by side and neither waits on the
// other's outcome; their failures are logged and reported in the result.
func (s *CertificateService) Issue(ctx context.Context, req models.IssueCertificateRequest) (IssueResult, error) {
	const op = "CertificateService.Issue"

	var res IssueResult
	log := s.log.With(slog.String("op", op))

	fields := fieldsOf(req.CertificateRequest)
	if err := fields.Validate(); err != nil {
		return res, fmt.Errorf("%s: %w", op, err)
	}
	if req.Email == "" {
		return res, fmt.Errorf("%s: %w: email", op, ErrMissingField)
	}

	templateURL := s.defaultTemplate
	if req.FormID != "" {
		w, err := s.workshops.FindByID(ctx, req.FormID)
		if errors.Is(err, repository.ErrNotFound) {
			return res, fmt.Errorf("%s: %w", op, ErrWorkshopNotFound)
		}
		if err != nil {
			return res, fmt.Errorf("%s: %w", op, err)
		}
		if w.TemplateURL != "" {
			templateURL = w.TemplateURL
		}
	}

	url, err := s.generate(ctx, templateURL, fields)
	if err != nil {
		return res, fmt.Errorf("%s: %w", op, err)
	}
	res.URL = url

	var (
		wg         sync.WaitGroup
		deliverErr error
		recordErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		deliverErr = s.Deliver(ctx, models.SendCertificateRequest{
			Email:          req.Email,
			CertificateURL: url,
			WorkshopName:   req.WorkshopName,
			Name:           req.Name,
		})
	}()
	go func() {
		defer wg.Done()
		res.Record, recordErr = s.Record(ctx, models.RecordCertificateRequest{
			CertificateRequest: req.CertificateRequest,
			Email:              req.Email,
			Phone:              req.Phone,
			CertificateURL:     url,
		})
	}()
	wg.Wait()

	res.Delivered = deliverErr == nil
	if recordErr != nil {
		log.Error("failed to record certificate", sl.Err(recordErr))
	}

	return res, nil
}
