package usecases

import (
	"context"
	"fmt"
	"strconv"

	"keygate/internal/application/apikey/gateway"
	"keygate/internal/domain/account"
	"keygate/internal/domain/apikey"
	"keygate/internal/domain/subscription"
	"keygate/internal/shared/errors"
	"keygate/internal/shared/logger"
)

// maxKeysPerAccount caps active credentials per account.
const maxKeysPerAccount = 10

type CreateAPIKeyCommand struct {
	AccountID uint
	Name      string
}

type CreateAPIKeyResult struct {
	Key *apikey.APIKey
	// Secret is the plaintext credential, returned exactly once.
	Secret string
}

// CreateAPIKeyUseCase provisions a credential across the gateway and the
// local store. The gateway consumer is created first; the local row is
// written only once the gateway accepted the credential, so a stored key is
// always enforceable. On a local write failure the consumer is torn down
// again.
type CreateAPIKeyUseCase struct {
	apikeyRepo       apikey.Repository
	accountRepo      account.Repository
	subscriptionRepo subscription.Repository
	planRepo         subscription.PlanRepository
	consumerGateway  gateway.ConsumerGateway
	quotaCache       QuotaCache
	logger           logger.Interface
}

func NewCreateAPIKeyUseCase(
	apikeyRepo apikey.Repository,
	accountRepo account.Repository,
	subscriptionRepo subscription.Repository,
	planRepo subscription.PlanRepository,
	consumerGateway gateway.ConsumerGateway,
	quotaCache QuotaCache,
	logger logger.Interface,
) *CreateAPIKeyUseCase {
	return &CreateAPIKeyUseCase{
		apikeyRepo:       apikeyRepo,
		accountRepo:      accountRepo,
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		consumerGateway:  consumerGateway,
		quotaCache:       quotaCache,
		logger:           logger,
	}
}

func (uc *CreateAPIKeyUseCase) Execute(ctx context.Context, cmd CreateAPIKeyCommand) (*CreateAPIKeyResult, error) {
	acct, err := uc.accountRepo.GetByID(ctx, cmd.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if acct == nil {
		return nil, errors.NewNotFoundError("account not found")
	}

	count, err := uc.apikeyRepo.CountByAccountID(ctx, cmd.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to count api keys: %w", err)
	}
	if count >= maxKeysPerAccount {
		return nil, errors.NewConflictError(fmt.Sprintf("account has reached the limit of %d active keys", maxKeysPerAccount))
	}

	key, secret, err := apikey.NewAPIKey(cmd.AccountID, cmd.Name)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	quota, err := uc.resolver().resolve(ctx, cmd.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve plan quota: %w", err)
	}

	consumerID := key.KeyPrefix()
	err = uc.consumerGateway.EnsureConsumer(ctx, gateway.EnsureConsumerParams{
		Username:        consumerID,
		APIKey:          secret,
		RequestsPerHour: quota,
		Labels: map[string]string{
			"account_id": strconv.FormatUint(uint64(cmd.AccountID), 10),
		},
	})
	if err != nil {
		uc.logger.Errorw("gateway consumer creation failed, aborting key provisioning",
			"error", err,
			"account_id", cmd.AccountID,
			"consumer_id", consumerID,
		)
		return nil, fmt.Errorf("failed to provision gateway consumer: %w", err)
	}

	if err := key.AttachGatewayConsumer(consumerID); err != nil {
		return nil, err
	}

	if err := uc.apikeyRepo.Create(ctx, key); err != nil {
		// Compensate so the gateway never accepts a credential with no
		// local record.
		if delErr := uc.consumerGateway.DeleteConsumer(ctx, consumerID); delErr != nil {
			uc.logger.Errorw("failed to roll back gateway consumer after store failure",
				"error", delErr,
				"consumer_id", consumerID,
			)
		}
		return nil, fmt.Errorf("failed to store api key: %w", err)
	}

	uc.logger.Infow("api key provisioned",
		"key_id", key.ID(),
		"account_id", cmd.AccountID,
		"consumer_id", consumerID,
		"requests_per_hour", quota,
	)

	return &CreateAPIKeyResult{Key: key, Secret: secret}, nil
}

func (uc *CreateAPIKeyUseCase) resolver() *planQuotaResolver {
	return &planQuotaResolver{
		subscriptionRepo: uc.subscriptionRepo,
		planRepo:         uc.planRepo,
		cache:            uc.quotaCache,
		logger:           uc.logger,
	}
}
