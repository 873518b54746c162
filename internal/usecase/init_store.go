package usecase

import (
	"context"

	"github.com/JO-HEEJIN/taskflow-ai-web-sub001/internal/domain"
)

// InitStore is the use case for initializing the local data store.
type InitStore struct {
	store domain.StoreInitializer
}

// NewInitStore creates a new InitStore use case.
func NewInitStore(store domain.StoreInitializer) *InitStore {
	return &InitStore{store: store}
}

// Execute creates the guest store, generating a guest identity if needed.
func (uc *InitStore) Execute(_ context.Context) error {
	return uc.store.Initialize()
}
