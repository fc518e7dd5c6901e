package usecases

import (
	"context"
	"fmt"

	"keygate/internal/application/apikey/gateway"
	"keygate/internal/domain/apikey"
	"keygate/internal/shared/errors"
	"keygate/internal/shared/logger"
)

type RevokeAPIKeyCommand struct {
	AccountID uint
	KeyID     uint
}

// RevokeAPIKeyUseCase removes a credential, gateway first. If the gateway
// delete fails the key stays active locally and the caller retries; the
// enforcement point must never accept a key the store reads as revoked.
type RevokeAPIKeyUseCase struct {
	apikeyRepo      apikey.Repository
	consumerGateway gateway.ConsumerGateway
	logger          logger.Interface
}

func NewRevokeAPIKeyUseCase(
	apikeyRepo apikey.Repository,
	consumerGateway gateway.ConsumerGateway,
	logger logger.Interface,
) *RevokeAPIKeyUseCase {
	return &RevokeAPIKeyUseCase{
		apikeyRepo:      apikeyRepo,
		consumerGateway: consumerGateway,
		logger:          logger,
	}
}

func (uc *RevokeAPIKeyUseCase) Execute(ctx context.Context, cmd RevokeAPIKeyCommand) error {
	key, err := uc.apikeyRepo.GetByID(ctx, cmd.KeyID)
	if err != nil {
		return fmt.Errorf("failed to load api key: %w", err)
	}
	if key == nil || key.AccountID() != cmd.AccountID {
		return errors.NewNotFoundError("api key not found")
	}
	if key.RevokedAt() != nil {
		return errors.NewConflictError("api key already revoked")
	}

	consumerID := key.KeyPrefix()
	if key.GatewayConsumerID() != nil {
		consumerID = *key.GatewayConsumerID()
	}

	if err := uc.consumerGateway.DeleteConsumer(ctx, consumerID); err != nil {
		uc.logger.Errorw("gateway consumer delete failed, key stays active",
			"error", err,
			"key_id", key.ID(),
			"consumer_id", consumerID,
		)
		return fmt.Errorf("failed to remove gateway consumer: %w", err)
	}

	if err := key.Revoke(); err != nil {
		return errors.NewConflictError(err.Error())
	}

	if err := uc.apikeyRepo.Update(ctx, key); err != nil {
		return fmt.Errorf("failed to persist revocation: %w", err)
	}

	uc.logger.Infow("api key revoked",
		"key_id", key.ID(),
		"account_id", cmd.AccountID,
		"consumer_id", consumerID,
	)
	return nil
}
