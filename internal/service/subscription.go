package service

import (
	"context"

	"github.com/billflow/billflow/internal/api/dto"
	"github.com/billflow/billflow/internal/domain/subscription"
	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/types"
	"github.com/samber/lo"
)

// SubscriptionService defines the interface for subscription operations
type SubscriptionService interface {
	CreateSubscription(ctx context.Context, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	GetSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error)
	ListSubscriptions(ctx context.Context, filter *types.SubscriptionFilter) (*dto.ListSubscriptionsResponse, error)
	UpdateSubscription(ctx context.Context, id string, req *dto.UpdateSubscriptionRequest) (*dto.SubscriptionResponse, error)
	PauseSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error)
	ResumeSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error)
	CancelSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error)
	DeleteSubscription(ctx context.Context, id string) error
}

type subscriptionService struct {
	ServiceParams
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(params ServiceParams) SubscriptionService {
	return &subscriptionService{
		ServiceParams: params,
	}
}

func (s *subscriptionService) CreateSubscription(ctx context.Context, req *dto.CreateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.CustomerRepo.Get(ctx, req.CustomerID); err != nil {
		return nil, err
	}
	prod, err := s.ProductRepo.Get(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	sub := req.ToSubscription(ctx)
	if err := sub.Validate(); err != nil {
		return nil, err
	}

	// Off-tier pricing is allowed for negotiated deals, but worth a trace.
	if !prod.HasTier(sub.Amount, sub.BillingCycle) {
		s.Logger.Warnw("subscription amount does not match any product tier",
			"subscription_id", sub.ID,
			"product_id", prod.ID,
			"amount", sub.Amount,
			"billing_cycle", sub.BillingCycle)
	}

	if err := s.SubscriptionRepo.Create(ctx, sub); err != nil {
		return nil, err
	}

	s.invalidateDashboardCache(ctx)
	s.Logger.Infow("created subscription",
		"subscription_id", sub.ID,
		"customer_id", sub.CustomerID,
		"product_id", sub.ProductID,
		"billing_cycle", sub.BillingCycle)
	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

func (s *subscriptionService) GetSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error) {
	if id == "" {
		return nil, ierr.NewError("subscription id is required").
			WithHint("Subscription ID is required").
			Mark(ierr.ErrValidation)
	}

	sub, err := s.SubscriptionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

func (s *subscriptionService) ListSubscriptions(ctx context.Context, filter *types.SubscriptionFilter) (*dto.ListSubscriptionsResponse, error) {
	if filter == nil {
		filter = types.NewSubscriptionFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	subs, err := s.SubscriptionRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.SubscriptionRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListSubscriptionsResponse{
		Items: lo.Map(subs, func(sub *subscription.Subscription, _ int) *dto.SubscriptionResponse {
			return &dto.SubscriptionResponse{Subscription: sub}
		}),
		Pagination: types.NewPaginationResponse(total, filter.GetLimit(), filter.GetOffset()),
	}, nil
}

func (s *subscriptionService) UpdateSubscription(ctx context.Context, id string, req *dto.UpdateSubscriptionRequest) (*dto.SubscriptionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sub, err := s.SubscriptionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	recompute := false
	if req.Amount != nil {
		sub.Amount = *req.Amount
	}
	if req.BillingCycle != nil {
		sub.BillingCycle = *req.BillingCycle
		recompute = true
	}
	if req.StartDate != nil {
		sub.StartDate = req.StartDate.UTC()
		recompute = true
	}
	if req.Status != nil {
		sub.SubscriptionStatus = *req.Status
	}
	if req.Metadata != nil {
		sub.Metadata = req.Metadata
	}

	if err := sub.Validate(); err != nil {
		return nil, err
	}
	if recompute {
		sub.ComputeNextBillingDate()
	}

	sub.Touch(ctx)
	if err := s.SubscriptionRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	s.invalidateDashboardCache(ctx)
	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

func (s *subscriptionService) PauseSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error) {
	return s.transition(ctx, id, types.SubscriptionStatusActive, types.SubscriptionStatusPaused)
}

func (s *subscriptionService) ResumeSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error) {
	return s.transition(ctx, id, types.SubscriptionStatusPaused, types.SubscriptionStatusActive)
}

func (s *subscriptionService) CancelSubscription(ctx context.Context, id string) (*dto.SubscriptionResponse, error) {
	sub, err := s.SubscriptionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if sub.SubscriptionStatus == types.SubscriptionStatusCancelled {
		return nil, ierr.NewError("subscription is already cancelled").
			WithHint("Subscription is already cancelled").
			WithReportableDetails(map[string]any{"subscription_id": id}).
			Mark(ierr.ErrInvalidOperation)
	}

	sub.SubscriptionStatus = types.SubscriptionStatusCancelled
	sub.NextBillingDate = nil
	sub.Touch(ctx)
	if err := s.SubscriptionRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	s.invalidateDashboardCache(ctx)
	s.Logger.Infow("cancelled subscription", "subscription_id", id)
	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

func (s *subscriptionService) transition(ctx context.Context, id string, from, to types.SubscriptionStatus) (*dto.SubscriptionResponse, error) {
	sub, err := s.SubscriptionRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if sub.SubscriptionStatus != from {
		return nil, ierr.NewErrorf("subscription is not %s", from).
			WithHintf("Only %s subscriptions can move to %s", from, to).
			WithReportableDetails(map[string]any{
				"subscription_id": id,
				"status":          sub.SubscriptionStatus,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	sub.SubscriptionStatus = to
	sub.Touch(ctx)
	if err := s.SubscriptionRepo.Update(ctx, sub); err != nil {
		return nil, err
	}

	s.invalidateDashboardCache(ctx)
	s.Logger.Infow("subscription status changed", "subscription_id", id, "from", from, "to", to)
	return &dto.SubscriptionResponse{Subscription: sub}, nil
}

func (s *subscriptionService) DeleteSubscription(ctx context.Context, id string) error {
	if id == "" {
		return ierr.NewError("subscription id is required").
			WithHint("Subscription ID is required").
			Mark(ierr.ErrValidation)
	}
	if err := s.SubscriptionRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidateDashboardCache(ctx)
	s.Logger.Infow("deleted subscription", "subscription_id", id)
	return nil
}
