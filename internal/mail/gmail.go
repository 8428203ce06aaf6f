package mail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/lumina-web/lumina-site/internal/common"
	"github.com/lumina-web/lumina-site/internal/config"
	"github.com/lumina-web/lumina-site/internal/models"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"
)

const gmailUserID = "me"

// GmailSender delivers quote requests through the Gmail API using an OAuth2
// refresh token for the configured account.
type GmailSender struct {
	service   *gmailapi.Service
	recipient string
	logger    *common.Logger
}

// NewGmailSender builds the Gmail service from the mail configuration. The
// refresh token is turned into a self-renewing token source; no network call
// happens until the first send.
func NewGmailSender(ctx context.Context, cfg config.MailConfig, logger *common.Logger) (*GmailSender, error) {
	if cfg.Account == "" || cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RefreshToken == "" {
		return nil, errors.New("mail transport requires account, client_id, client_secret and refresh_token")
	}

	oc := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gmailapi.GmailSendScope},
	}
	ts := oc.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})

	service, err := gmailapi.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, fmt.Errorf("failed to create gmail service: %w", err)
	}

	recipient := cfg.Recipient
	if recipient == "" {
		recipient = cfg.Account
	}

	return &GmailSender{
		service:   service,
		recipient: recipient,
		logger:    logger,
	}, nil
}

// NewGmailSenderWithService wires an existing Gmail service. Used by tests.
func NewGmailSenderWithService(service *gmailapi.Service, recipient string, logger *common.Logger) *GmailSender {
	return &GmailSender{
		service:   service,
		recipient: recipient,
		logger:    logger,
	}
}

// Send composes the quote request and hands it to the Gmail API. One attempt,
// no retry; the caller decides how to surface a failure.
func (s *GmailSender) Send(ctx context.Context, sub models.Submission) error {
	subject, body := Compose(sub)
	raw := buildRawMessage(sub.Email, s.recipient, subject, body)

	msg := &gmailapi.Message{Raw: base64.URLEncoding.EncodeToString([]byte(raw))}
	if _, err := s.service.Users.Messages.Send(gmailUserID, msg).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to send quote request: %w", err)
	}

	s.logger.Info().
		Str("from", sub.Email).
		Str("to", s.recipient).
		Msg("quote request sent")

	return nil
}

// Compile-time interface compliance check.
var _ Sender = (*GmailSender)(nil)
