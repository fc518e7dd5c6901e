package usecases

import (
	"context"
	"fmt"

	"keygate/internal/application/subscription/provider"
	"keygate/internal/domain/account"
	"keygate/internal/shared/errors"
	"keygate/internal/shared/logger"
)

type UpdatePaymentMethodCommand struct {
	AccountID       uint
	PaymentMethodID string
}

// UpdatePaymentMethodUseCase swaps the account's default payment method at
// the provider and refreshes the cached display summary.
type UpdatePaymentMethodUseCase struct {
	accountRepo     account.Repository
	paymentProvider provider.PaymentProvider
	logger          logger.Interface
}

func NewUpdatePaymentMethodUseCase(
	accountRepo account.Repository,
	paymentProvider provider.PaymentProvider,
	logger logger.Interface,
) *UpdatePaymentMethodUseCase {
	return &UpdatePaymentMethodUseCase{
		accountRepo:     accountRepo,
		paymentProvider: paymentProvider,
		logger:          logger,
	}
}

func (uc *UpdatePaymentMethodUseCase) Execute(ctx context.Context, cmd UpdatePaymentMethodCommand) error {
	if cmd.PaymentMethodID == "" {
		return errors.NewValidationError("payment method ID is required")
	}

	acct, err := uc.accountRepo.GetByID(ctx, cmd.AccountID)
	if err != nil {
		return fmt.Errorf("failed to load account: %w", err)
	}
	if acct == nil {
		return errors.NewNotFoundError("account not found")
	}
	if acct.StripeCustomerID() == nil {
		return errors.NewConflictError("account has no provider customer yet")
	}
	customerID := *acct.StripeCustomerID()

	if err := uc.paymentProvider.AttachPaymentMethod(ctx, customerID, cmd.PaymentMethodID); err != nil {
		return fmt.Errorf("failed to attach payment method: %w", err)
	}
	if err := uc.paymentProvider.SetDefaultPaymentMethod(ctx, customerID, cmd.PaymentMethodID); err != nil {
		return fmt.Errorf("failed to set default payment method: %w", err)
	}

	summary, err := uc.paymentProvider.GetPaymentMethodSummary(ctx, cmd.PaymentMethodID)
	if err != nil {
		uc.logger.Warnw("failed to load payment method summary", "error", err, "account_id", cmd.AccountID)
		return nil
	}

	acct.UpdatePaymentMethodSummary(summary.Type, summary.Last4, summary.Expiry)
	if err := uc.accountRepo.Update(ctx, acct); err != nil {
		return fmt.Errorf("failed to persist payment method summary: %w", err)
	}

	uc.logger.Infow("payment method updated", "account_id", cmd.AccountID)
	return nil
}
