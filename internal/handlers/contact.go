package handlers

import (
	"fmt"
	"net/http"

	"github.com/lumina-web/lumina-site/internal/common"
	"github.com/lumina-web/lumina-site/internal/mail"
	"github.com/lumina-web/lumina-site/internal/models"
	"github.com/lumina-web/lumina-site/internal/session"
)

// ContactHandler accepts contact-form submissions and relays them by email.
type ContactHandler struct {
	logger   *common.Logger
	sender   mail.Sender
	sessions *session.Store
	pages    *PageHandler
}

// NewContactHandler creates a new contact-form handler. sender may be nil
// when the mail transport is not configured; submissions then fail with 500.
func NewContactHandler(logger *common.Logger, sender mail.Sender, sessions *session.Store, pages *PageHandler) *ContactHandler {
	return &ContactHandler{
		logger:   logger,
		sender:   sender,
		sessions: sessions,
		pages:    pages,
	}
}

// ServeHTTP handles POST /send-email: validate, compose, send, respond.
// The session email wins over the submitted field when the visitor is signed
// in. Exactly one send is attempted for a valid submission.
func (h *ContactHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, fmt.Sprintf("Error: %v", err), http.StatusBadRequest)
		return
	}

	sub := models.Submission{
		Email:    r.PostFormValue("userEmail"),
		Name:     r.PostFormValue("userName"),
		Phone:    r.PostFormValue("userNumber"),
		Interest: r.PostFormValue("userSelect"),
		Message:  r.PostFormValue("userEmailText"),
	}

	if sess, ok := h.sessions.Lookup(r); ok {
		sub.Email = sess.Email
	}

	if !sub.PhoneValid() {
		h.logger.Debug().Str("phone", sub.Phone).Msg("submission rejected: bad phone length")
		h.pages.RenderContact(w, http.StatusOK, ContactPage{
			Email:      sub.Email,
			Validation: "Contact number must be 10 or 12 characters long.",
			Form:       sub,
		})
		return
	}

	if h.sender == nil {
		h.logger.Error().Msg("submission received but mail transport is not configured")
		http.Error(w, "Error: mail transport is not configured", http.StatusInternalServerError)
		return
	}

	if err := h.sender.Send(r.Context(), sub); err != nil {
		h.logger.Error().Str("error", err.Error()).Msg("failed to send quote request")
		http.Error(w, fmt.Sprintf("Error: %v", err), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/getStarted?sent=1", http.StatusFound)
}
