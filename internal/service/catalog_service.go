package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/waynex/travels-api/internal/domain"
	"github.com/waynex/travels-api/internal/repo/postgres"
)

var (
	ErrTourNotFound = errors.New("tour not found")
	ErrVisaNotFound = errors.New("visa not found")
)

// VisaCategories are the processing tiers offered for visa applications.
var VisaCategories = []string{"instant", "week", "month"}

type CatalogService interface {
	ListTours(ctx context.Context, filter domain.TourFilter, limit, offset int) ([]domain.Tour, int, error)
	GetTour(ctx context.Context, code string) (*domain.Tour, error)
	TourCategories(ctx context.Context, tourType domain.TourType) ([]string, error)
	ListVisas(ctx context.Context, filter domain.VisaFilter, limit, offset int) ([]domain.Visa, int, error)
	GetVisa(ctx context.Context, country string) (*domain.Visa, error)
}

type catalogService struct {
	catalogRepo postgres.CatalogRepository
}

func NewCatalogService(catalogRepo postgres.CatalogRepository) CatalogService {
	return &catalogService{catalogRepo: catalogRepo}
}

func (s *catalogService) ListTours(ctx context.Context, filter domain.TourFilter, limit, offset int) ([]domain.Tour, int, error) {
	return s.catalogRepo.ListTours(ctx, filter, limit, offset)
}

func (s *catalogService) GetTour(ctx context.Context, code string) (*domain.Tour, error) {
	tour, err := s.catalogRepo.GetTourByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get tour: %w", err)
	}
	if tour == nil {
		return nil, ErrTourNotFound
	}
	return tour, nil
}

func (s *catalogService) TourCategories(ctx context.Context, tourType domain.TourType) ([]string, error) {
	return s.catalogRepo.TourCategories(ctx, tourType)
}

func (s *catalogService) ListVisas(ctx context.Context, filter domain.VisaFilter, limit, offset int) ([]domain.Visa, int, error) {
	return s.catalogRepo.ListVisas(ctx, filter, limit, offset)
}

func (s *catalogService) GetVisa(ctx context.Context, country string) (*domain.Visa, error) {
	visa, err := s.catalogRepo.GetVisaByCountry(ctx, country)
	if err != nil {
		return nil, fmt.Errorf("failed to get visa: %w", err)
	}
	if visa == nil {
		return nil, ErrVisaNotFound
	}
	return visa, nil
}
