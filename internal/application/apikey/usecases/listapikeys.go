package usecases

import (
	"context"
	"fmt"

	"keygate/internal/domain/apikey"
	"keygate/internal/shared/logger"
)

type ListAPIKeysCommand struct {
	AccountID uint
}

// ListAPIKeysUseCase returns an account's active credentials. Only prefixes
// and metadata; secrets are not recoverable.
type ListAPIKeysUseCase struct {
	apikeyRepo apikey.Repository
	logger     logger.Interface
}

func NewListAPIKeysUseCase(apikeyRepo apikey.Repository, logger logger.Interface) *ListAPIKeysUseCase {
	return &ListAPIKeysUseCase{
		apikeyRepo: apikeyRepo,
		logger:     logger,
	}
}

func (uc *ListAPIKeysUseCase) Execute(ctx context.Context, cmd ListAPIKeysCommand) ([]*apikey.APIKey, error) {
	keys, err := uc.apikeyRepo.ListActiveByAccountID(ctx, cmd.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}
	return keys, nil
}
