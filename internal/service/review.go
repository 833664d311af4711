package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"arendol-backend/internal/domain"
	"arendol-backend/internal/logger"
	"arendol-backend/internal/notify"
	"arendol-backend/internal/repository"
)

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	bookingRepo repository.BookingRepository
	itemRepo    repository.ItemRepository
	userRepo    repository.UserRepository
	dispatcher  notify.Dispatcher
	now         func() time.Time
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	bookingRepo repository.BookingRepository,
	itemRepo repository.ItemRepository,
	userRepo repository.UserRepository,
	dispatcher notify.Dispatcher,
) ReviewService {
	return &reviewService{
		reviewRepo:  reviewRepo,
		bookingRepo: bookingRepo,
		itemRepo:    itemRepo,
		userRepo:    userRepo,
		dispatcher:  dispatcher,
		now:         time.Now,
	}
}

func (s *reviewService) CreateReview(ctx context.Context, authorID, bookingID string, rating int, text string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, domain.NewInvalidState("rating must be between 1 and 5")
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status != domain.BookingStatusCompleted {
		return nil, domain.NewInvalidState("booking is not completed")
	}
	item, err := s.itemRepo.GetByID(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}

	var reviewType domain.ReviewType
	var subjectID string
	switch authorID {
	case booking.RenterID:
		reviewType = domain.ReviewTypeRenter
		subjectID = item.OwnerID
	case item.OwnerID:
		reviewType = domain.ReviewTypeOwner
		subjectID = booking.RenterID
	default:
		return nil, domain.ErrForbidden
	}

	existing, err := s.reviewRepo.ListByBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	for _, rv := range existing {
		if rv.Type == reviewType {
			return nil, domain.NewInvalidState("review already submitted for this booking")
		}
	}

	review := &domain.Review{
		ID:        uuid.New().String(),
		BookingID: bookingID,
		ItemID:    booking.ItemID,
		UserID:    authorID,
		Rating:    rating,
		Text:      text,
		Type:      reviewType,
		CreatedAt: s.now(),
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}

	if err := s.userRepo.RecalculateRating(ctx, subjectID); err != nil {
		logger.Warn("rating recalculation failed", "user_id", subjectID, "error", err)
	}

	if s.dispatcher != nil {
		s.dispatcher.Send(ctx, subjectID, notify.Event{
			Type: notify.EventReviewReceived,
			Data: map[string]string{
				"rating": ratingStars(rating),
				"text":   text,
			},
		})
	}
	return review, nil
}

func ratingStars(rating int) string {
	if rating < 0 || rating > 5 {
		return strconv.Itoa(rating)
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}
