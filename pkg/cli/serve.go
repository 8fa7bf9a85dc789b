package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"workshop-feedback/pkg/api"
	"workshop-feedback/pkg/clients/assets"
	"workshop-feedback/pkg/clients/cloudinary"
	"workshop-feedback/pkg/clients/mailer"
	"workshop-feedback/pkg/clients/objectstore"
	"workshop-feedback/pkg/clients/shortio"
	"workshop-feedback/pkg/clients/textmagic"
	"workshop-feedback/pkg/clients/twilio"
	"workshop-feedback/pkg/config"
	"workshop-feedback/pkg/logger/sl"
	"workshop-feedback/pkg/render"
	"workshop-feedback/pkg/repository"
	"workshop-feedback/pkg/services"
	"workshop-feedback/pkg/store"
)

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (default)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}
}

func (a *app) newSMSClient() (services.SMSClient, error) {
	cfg, log := a.cfg, a.log

	switch cfg.SMSProvider {
	case "twilio":
		return twilio.NewClient(log, cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.FromPhone), nil
	case "textmagic":
		return textmagic.NewClient(log, cfg.TextMagic.Username, cfg.TextMagic.APIKey), nil
	default:
		return nil, fmt.Errorf("unknown SMS_PROVIDER %q", cfg.SMSProvider)
	}
}

func (a *app) newPublisher(ctx context.Context) (services.Publisher, error) {
	cfg, log := a.cfg, a.log

	var (
		pub services.Publisher
		err error
	)

	switch cfg.ImageHost {
	case "cloudinary":
		pub, err = cloudinary.NewClient(log, cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
		if err != nil {
			return nil, err
		}
	case "s3":
		c, err := objectstore.NewClient(log, cfg.ObjectStore)
		if err != nil {
			return nil, err
		}
		if err := c.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		pub = c
	default:
		return nil, fmt.Errorf("unknown IMAGE_HOST %q", cfg.ImageHost)
	}

	log.Info("image host configured",
		slog.String("driver", cfg.ImageHost),
		slog.String("base_url", pub.BaseURL()),
	)
	return pub, nil
}

func (a *app) serve(ctx context.Context) error {
	cfg, log := a.cfg, a.log

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := a.openDB(cfg.Database)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Error("closing database failed", sl.Err(err))
		}
	}()

	sms, err := a.newSMSClient()
	if err != nil {
		return err
	}
	publisher, err := a.newPublisher(ctx)
	if err != nil {
		return err
	}

	mail := mailer.NewClient(log, cfg.Email.SenderName, cfg.Email.Address, cfg.Email.Password, cfg.Email.SMTPHost, cfg.Email.SMTPPort)

	// A nil interface keeps full URLs in certificate emails.
	var shortener services.LinkShortener
	if cfg.ShortIO.APIKey != "" {
		shortener = shortio.NewClient(log, cfg.ShortIO.APIKey, cfg.ShortIO.Domain)
	}

	renderer, err := render.New(assets.NewClient(cfg.Certificate.FetchTimeout))
	if err != nil {
		return err
	}

	workshopRepo := repository.NewWorkshopRepo(db)
	submissionRepo := repository.NewSubmissionRepo(db)
	certificateRepo := repository.NewCertificateRepo(db)

	otp := services.NewOTPService(
		log,
		cfg.OTP,
		store.NewMemory(),
		store.NewMemory(),
		services.NewSMSCodeSender(sms),
		services.NewEmailCodeSender(mail),
	)
	workshops := services.NewWorkshopService(log, workshopRepo, publisher)
	certificates := services.NewCertificateService(
		log,
		renderer,
		publisher,
		mail,
		shortener,
		certificateRepo,
		submissionRepo,
		workshopRepo,
		cfg.DefaultTemplateURL(),
		cfg.Certificate.Folder,
	)
	submissions := services.NewSubmissionService(log, submissionRepo, workshops, otp)
	stats := services.NewStatsService(workshopRepo, submissionRepo, certificateRepo)

	if cfg.Env == config.EnvProd {
		gin.SetMode(gin.ReleaseMode)
	}

	handlers := api.NewHandlers(log, otp, certificates, workshops, submissions, stats)
	router := api.NewRouter(log, handlers, api.RouterConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		JWTSecret:      cfg.Auth.JWTSecret,
	})

	if cfg.Auth.JWTSecret == "" {
		log.Warn("AUTH_JWT_SECRET is not set, admin routes will reject every request")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", slog.String("port", cfg.Port), slog.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", sl.Err(err))
		return err
	}
	return nil
}
