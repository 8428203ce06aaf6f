package badger

import (
	"context"
	"sync"
	"testing"

	"github.com/lumina-web/lumina-site/internal/common"
	"github.com/lumina-web/lumina-site/internal/config"
	"github.com/lumina-web/lumina-site/internal/models"
)

func newTestStorage(t *testing.T) *IdentityStorage {
	t.Helper()

	logger := common.NewSilentLogger()
	db, err := NewBadgerDB(logger, &config.BadgerConfig{Path: t.TempDir() + "/db"})
	if err != nil {
		t.Fatalf("failed to open badger: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return NewIdentityStorage(db, logger)
}

func TestFindOrCreateCreatesOnce(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	first, err := storage.FindOrCreate(ctx, models.Identity{
		ProviderID:  "sub-1",
		DisplayName: "Pat Customer",
		Email:       "pat@example.com",
	})
	if err != nil {
		t.Fatalf("first find-or-create failed: %v", err)
	}
	if first.Email != "pat@example.com" {
		t.Errorf("expected email pat@example.com, got %s", first.Email)
	}

	// Repeat with different profile data: the stored record must win.
	second, err := storage.FindOrCreate(ctx, models.Identity{
		ProviderID:  "sub-1",
		DisplayName: "Renamed",
		Email:       "renamed@example.com",
	})
	if err != nil {
		t.Fatalf("second find-or-create failed: %v", err)
	}
	if second.DisplayName != "Pat Customer" {
		t.Errorf("expected original record to be returned, got %s", second.DisplayName)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Error("expected creation time to be unchanged on repeat sign-in")
	}
}

func TestFindOrCreateMissingProviderID(t *testing.T) {
	storage := newTestStorage(t)

	if _, err := storage.FindOrCreate(context.Background(), models.Identity{Email: "x@example.com"}); err == nil {
		t.Error("expected error for identity without provider id")
	}
}

func TestFindOrCreateConcurrent(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	results := make([]*models.Identity, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			identity, err := storage.FindOrCreate(ctx, models.Identity{
				ProviderID:  "sub-concurrent",
				DisplayName: "Pat Customer",
				Email:       "pat@example.com",
			})
			if err != nil {
				t.Errorf("concurrent find-or-create failed: %v", err)
				return
			}
			results[i] = identity
		}(i)
	}
	wg.Wait()

	for i, identity := range results {
		if identity == nil {
			continue
		}
		if identity.CreatedAt != results[0].CreatedAt && !identity.CreatedAt.Equal(results[0].CreatedAt) {
			t.Errorf("result %d carries a different record: %v vs %v", i, identity.CreatedAt, results[0].CreatedAt)
		}
	}

	stored, err := storage.Get(ctx, "sub-concurrent")
	if err != nil {
		t.Fatalf("expected stored identity: %v", err)
	}
	if stored.Email != "pat@example.com" {
		t.Errorf("unexpected stored email %s", stored.Email)
	}
}

func TestGetUnknownIdentity(t *testing.T) {
	storage := newTestStorage(t)

	if _, err := storage.Get(context.Background(), "nope"); err == nil {
		t.Error("expected error for unknown provider id")
	}
}
