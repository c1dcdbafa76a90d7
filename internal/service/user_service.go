package service

import (
	"context"
	"fmt"

	"github.com/waynex/travels-api/internal/domain"
	"github.com/waynex/travels-api/internal/repo/postgres"
)

type UserService interface {
	Get(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, id int64, req *domain.UpdateUserRequest) (*domain.User, error)
	Bookings(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, int, error)
}

type userService struct {
	userRepo    postgres.UserRepository
	bookingRepo postgres.BookingRepository
}

func NewUserService(userRepo postgres.UserRepository, bookingRepo postgres.BookingRepository) UserService {
	return &userService{userRepo: userRepo, bookingRepo: bookingRepo}
}

func (s *userService) Get(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) Update(ctx context.Context, id int64, req *domain.UpdateUserRequest) (*domain.User, error) {
	user, err := s.userRepo.Update(ctx, id, req)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func (s *userService) Bookings(ctx context.Context, userID int64, limit, offset int) ([]domain.Booking, int, error) {
	filter := domain.BookingFilter{UserID: &userID}
	return s.bookingRepo.List(ctx, filter, limit, offset)
}
