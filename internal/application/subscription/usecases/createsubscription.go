package usecases

import (
	"context"
	"fmt"

	"keygate/internal/application/subscription/provider"
	"keygate/internal/domain/account"
	"keygate/internal/domain/subscription"
	"keygate/internal/shared/errors"
	"keygate/internal/shared/logger"
	"keygate/internal/shared/utils"
)

type CreateSubscriptionCommand struct {
	AccountID       uint   `json:"account_id" validate:"required"`
	PlanSlug        string `json:"plan_slug" validate:"required"`
	PaymentMethodID string `json:"payment_method_id"`
}

type CreateSubscriptionResult struct {
	Subscription *subscription.Subscription
	// ClientSecret is returned while the first payment awaits confirmation.
	ClientSecret string
}

// CreateSubscriptionUseCase starts a paid subscription. The provider
// subscription is created first and mirrored locally as whatever status the
// provider returned; webhook reconciliation keeps the mirror honest from
// then on.
type CreateSubscriptionUseCase struct {
	accountRepo      account.Repository
	subscriptionRepo subscription.Repository
	planRepo         subscription.PlanRepository
	paymentProvider  provider.PaymentProvider
	logger           logger.Interface
}

func NewCreateSubscriptionUseCase(
	accountRepo account.Repository,
	subscriptionRepo subscription.Repository,
	planRepo subscription.PlanRepository,
	paymentProvider provider.PaymentProvider,
	logger logger.Interface,
) *CreateSubscriptionUseCase {
	return &CreateSubscriptionUseCase{
		accountRepo:      accountRepo,
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		paymentProvider:  paymentProvider,
		logger:           logger,
	}
}

func (uc *CreateSubscriptionUseCase) Execute(ctx context.Context, cmd CreateSubscriptionCommand) (*CreateSubscriptionResult, error) {
	if err := utils.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	acct, err := uc.accountRepo.GetByID(ctx, cmd.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load account: %w", err)
	}
	if acct == nil {
		return nil, errors.NewNotFoundError("account not found")
	}

	plan, err := uc.planRepo.GetBySlug(ctx, cmd.PlanSlug)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	if plan == nil || !plan.IsAvailable() {
		return nil, errors.NewNotFoundError("plan not available")
	}
	if plan.IsFree() {
		return nil, errors.NewValidationError("free plan does not require a subscription")
	}
	if plan.StripePriceID() == nil {
		return nil, errors.NewInternalError(fmt.Sprintf("plan %s has no provider price", plan.Slug()))
	}

	existing, err := uc.subscriptionRepo.GetCurrentByAccountID(ctx, cmd.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to check current subscription: %w", err)
	}
	if existing != nil {
		return nil, errors.NewConflictError("account already has a current subscription")
	}

	customerID, err := uc.ensureCustomer(ctx, acct)
	if err != nil {
		return nil, err
	}

	if cmd.PaymentMethodID != "" {
		if err := uc.attachPaymentMethod(ctx, acct, customerID, cmd.PaymentMethodID); err != nil {
			return nil, err
		}
	}

	data, err := uc.paymentProvider.CreateSubscription(ctx, customerID, *plan.StripePriceID())
	if err != nil {
		return nil, fmt.Errorf("failed to create provider subscription: %w", err)
	}

	sub, err := subscription.NewSubscription(
		cmd.AccountID,
		plan.ID(),
		data.ID,
		subscription.Status(data.Status),
		data.PeriodStart,
		data.PeriodEnd,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build subscription: %w", err)
	}
	if data.PriceID != "" {
		sub.SetStripePriceID(data.PriceID)
	}

	if err := uc.subscriptionRepo.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to store subscription: %w", err)
	}

	uc.logger.Infow("subscription created",
		"subscription_id", sub.ID(),
		"account_id", cmd.AccountID,
		"plan", plan.Slug(),
		"stripe_subscription_id", data.ID,
		"status", sub.Status(),
	)

	return &CreateSubscriptionResult{Subscription: sub, ClientSecret: data.ClientSecret}, nil
}

func (uc *CreateSubscriptionUseCase) ensureCustomer(ctx context.Context, acct *account.Account) (string, error) {
	if acct.StripeCustomerID() != nil {
		return *acct.StripeCustomerID(), nil
	}

	customerID, err := uc.paymentProvider.CreateCustomer(ctx, acct.Email(), acct.Name())
	if err != nil {
		return "", fmt.Errorf("failed to create provider customer: %w", err)
	}
	if err := acct.LinkStripeCustomer(customerID); err != nil {
		return "", err
	}
	if err := uc.accountRepo.Update(ctx, acct); err != nil {
		return "", fmt.Errorf("failed to persist customer link: %w", err)
	}

	uc.logger.Infow("provider customer created", "account_id", acct.ID(), "customer_id", customerID)
	return customerID, nil
}

func (uc *CreateSubscriptionUseCase) attachPaymentMethod(ctx context.Context, acct *account.Account, customerID, paymentMethodID string) error {
	if err := uc.paymentProvider.AttachPaymentMethod(ctx, customerID, paymentMethodID); err != nil {
		return fmt.Errorf("failed to attach payment method: %w", err)
	}
	if err := uc.paymentProvider.SetDefaultPaymentMethod(ctx, customerID, paymentMethodID); err != nil {
		return fmt.Errorf("failed to set default payment method: %w", err)
	}

	summary, err := uc.paymentProvider.GetPaymentMethodSummary(ctx, paymentMethodID)
	if err != nil {
		uc.logger.Warnw("failed to load payment method summary", "error", err, "account_id", acct.ID())
		return nil
	}
	acct.UpdatePaymentMethodSummary(summary.Type, summary.Last4, summary.Expiry)
	if err := uc.accountRepo.Update(ctx, acct); err != nil {
		return fmt.Errorf("failed to persist payment method summary: %w", err)
	}
	return nil
}
