package app

import (
	"context"
	"time"

	"github.com/lumina-web/lumina-site/internal/auth"
	"github.com/lumina-web/lumina-site/internal/common"
	"github.com/lumina-web/lumina-site/internal/config"
	"github.com/lumina-web/lumina-site/internal/handlers"
	"github.com/lumina-web/lumina-site/internal/interfaces"
	"github.com/lumina-web/lumina-site/internal/mail"
	"github.com/lumina-web/lumina-site/internal/session"
	"github.com/lumina-web/lumina-site/internal/storage/badger"
)

// App holds all application components and dependencies. Everything is
// constructed here and injected into handlers; there are no package-level
// singletons.
type App struct {
	Config *config.Config
	Logger *common.Logger

	DB         *badger.BadgerDB
	Sessions   *session.Store
	Identities interfaces.IdentityStore

	// HTTP handlers
	PageHandler    *handlers.PageHandler
	AuthHandler    *handlers.AuthHandler
	ContactHandler *handlers.ContactHandler
	HealthHandler  *handlers.HealthHandler
	VersionHandler *handlers.VersionHandler
}

// New initializes the application with all dependencies.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config: cfg,
		Logger: logger,
	}

	if cfg.Session.Secret == "" {
		logger.Warn().Msg("session.secret is empty — session cookies are unsigned-by-default and should not be used in production")
	}
	a.Sessions = session.NewStore(cfg.Session.Secret, time.Duration(cfg.Session.TTLMinutes)*time.Minute)

	var authenticator auth.Authenticator
	if cfg.GoogleAuthEnabled() {
		authenticator = auth.NewGoogleAuthenticator(
			cfg.Auth.GoogleClientID,
			cfg.Auth.GoogleClientSecret,
			cfg.Auth.CallbackURL,
		)

		// Identity records are only written by the sign-in flow, so the
		// database is opened only when Google auth is configured.
		db, err := badger.NewBadgerDB(logger, &cfg.Storage.Badger)
		if err != nil {
			return nil, err
		}
		a.DB = db
		a.Identities = badger.NewIdentityStorage(db, logger)
	} else {
		logger.Warn().Msg("google sign-in disabled: auth config incomplete")
	}

	var sender mail.Sender
	if cfg.MailEnabled() {
		gmailSender, err := mail.NewGmailSender(context.Background(), cfg.Mail, logger)
		if err != nil {
			return nil, err
		}
		sender = gmailSender
	} else {
		logger.Warn().Msg("mail transport disabled: mail config incomplete — contact form submissions will fail")
	}

	a.PageHandler = handlers.NewPageHandler(logger, a.Sessions)
	a.AuthHandler = handlers.NewAuthHandler(logger, authenticator, a.Identities, a.Sessions)
	a.ContactHandler = handlers.NewContactHandler(logger, sender, a.Sessions, a.PageHandler)
	a.HealthHandler = handlers.NewHealthHandler(logger)
	a.VersionHandler = handlers.NewVersionHandler(logger)

	logger.Info().Msg("application initialization complete")

	return a, nil
}

// Close closes all application resources.
func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
