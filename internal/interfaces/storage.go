package interfaces

import (
	"context"

	"github.com/lumina-web/lumina-site/internal/models"
)

// IdentityStore persists Google identities keyed by provider subject.
// FindOrCreate must be safe under concurrent invocation with the same key:
// repeated sign-ins of one account never produce a second record.
type IdentityStore interface {
	FindOrCreate(ctx context.Context, identity models.Identity) (*models.Identity, error)
	Get(ctx context.Context, providerID string) (*models.Identity, error)
}
