package service

import (
	"context"

	"arendol-backend/internal/domain"
	"arendol-backend/internal/repository"
)

type approvalService struct {
	itemRepo repository.ItemRepository
	userRepo repository.UserRepository
}

func NewApprovalService(itemRepo repository.ItemRepository, userRepo repository.UserRepository) ApprovalService {
	return &approvalService{
		itemRepo: itemRepo,
		userRepo: userRepo,
	}
}

func (s *approvalService) Decide(ctx context.Context, itemID, renterID string) (*domain.ApprovalDecision, error) {
	item, err := s.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	owner, err := s.userRepo.GetByID(ctx, item.OwnerID)
	if err != nil {
		return nil, err
	}

	policy := domain.ResolveApprovalPolicy(item, owner)

	rating, err := s.userRepo.GetUserRating(ctx, renterID)
	if err != nil {
		return nil, err
	}
	verified, err := s.userRepo.IsUserVerified(ctx, renterID)
	if err != nil {
		return nil, err
	}

	decision := policy.Evaluate(rating, verified)
	return &decision, nil
}
