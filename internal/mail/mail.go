// Package mail composes quote-request emails and delivers them through the
// Gmail API.
package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/lumina-web/lumina-site/internal/models"
)

// Sender delivers one composed quote request. Exactly one delivery is
// attempted per valid submission; callers surface failures, they never retry.
type Sender interface {
	Send(ctx context.Context, sub models.Submission) error
}

// Compose renders the subject and plain-text body for a submission.
func Compose(sub models.Submission) (subject, body string) {
	subject = fmt.Sprintf("%s is requesting a quote", sub.Email)

	var b strings.Builder
	b.WriteString("Hello,\n\n")
	fmt.Fprintf(&b, "%s is requesting a quote.\n\n", sub.Email)
	fmt.Fprintf(&b, "Name: %s\n", sub.Name)
	fmt.Fprintf(&b, "Contact Number: %s\n", sub.Phone)
	fmt.Fprintf(&b, "Interested In: %s\n\n", sub.Interest)
	b.WriteString("Message:\n")
	b.WriteString(sub.Message)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Best regards,\n%s\n", sub.Name)

	return subject, b.String()
}

// buildRawMessage constructs an RFC 2822 message for the Gmail API.
func buildRawMessage(from, to, subject, body string) string {
	var b strings.Builder

	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + subject + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)

	return b.String()
}
