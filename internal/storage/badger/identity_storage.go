package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/lumina-web/lumina-site/internal/common"
	"github.com/lumina-web/lumina-site/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

// IdentityStorage implements interfaces.IdentityStore using BadgerDB.
type IdentityStorage struct {
	db     *BadgerDB
	logger *common.Logger
}

// NewIdentityStorage creates identity storage backed by BadgerDB.
func NewIdentityStorage(db *BadgerDB, logger *common.Logger) *IdentityStorage {
	return &IdentityStorage{
		db:     db,
		logger: logger,
	}
}

// FindOrCreate inserts the identity keyed by provider id, or returns the
// existing record when one is already stored. The insert runs inside a badger
// transaction, so two concurrent sign-ins of the same account cannot both
// create a record.
func (s *IdentityStorage) FindOrCreate(_ context.Context, identity models.Identity) (*models.Identity, error) {
	if identity.ProviderID == "" {
		return nil, fmt.Errorf("identity is missing a provider id")
	}

	identity.CreatedAt = time.Now().UTC()

	err := s.db.Store().Insert(identity.ProviderID, &identity)
	if err == nil {
		s.logger.Info().
			Str("provider_id", identity.ProviderID).
			Str("email", identity.Email).
			Msg("identity created")
		return &identity, nil
	}
	if err != badgerhold.ErrKeyExists {
		return nil, fmt.Errorf("failed to store identity %s: %w", identity.ProviderID, err)
	}

	var existing models.Identity
	if err := s.db.Store().Get(identity.ProviderID, &existing); err != nil {
		return nil, fmt.Errorf("failed to load identity %s: %w", identity.ProviderID, err)
	}
	return &existing, nil
}

// Get retrieves an identity by provider id.
func (s *IdentityStorage) Get(_ context.Context, providerID string) (*models.Identity, error) {
	var identity models.Identity
	err := s.db.Store().Get(providerID, &identity)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("identity not found: %s", providerID)
		}
		return nil, fmt.Errorf("failed to get identity %s: %w", providerID, err)
	}
	return &identity, nil
}
