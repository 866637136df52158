package service

import (
	"errors"
	"strings"
	"time"

	"github.com/atlastours/atlas-backend/internal/app/model"
	"github.com/atlastours/atlas-backend/internal/app/repository"
	"github.com/atlastours/atlas-backend/pkg/logger"
	"gorm.io/gorm"
)

var ErrTourNotFound = errors.New("tour not found")

type TourInput struct {
	Name          string
	Duration      int
	MaxGroupSize  int
	Difficulty    string
	Price         float64
	PriceDiscount float64
	Summary       string
	Description   string
	ImageCover    string
	StartDates    []time.Time
}

// TourListOptions carries the raw list query parameters. Sort is the
// client-facing sort key, optionally prefixed with "-" for descending
// (e.g. "price", "-ratings_average"); unrecognized keys are ignored.
type TourListOptions struct {
	Limit      int
	Offset     int
	Sort       string
	Difficulty string
}

type TourService interface {
	CreateTour(input TourInput) (*model.Tour, error)
	GetTour(id uint) (*model.Tour, error)
	ListTours(opts TourListOptions) ([]model.Tour, int64, error)
	UpdateTour(id uint, input TourInput) (*model.Tour, error)
	DeleteTour(id uint) error
	TopCheap() ([]model.Tour, error)
	Stats() ([]repository.TourStats, error)
	MonthlyPlan(year int) ([]repository.MonthlyPlanEntry, error)
}

type tourService struct {
	tourRepo repository.TourRepository
}

func NewTourService(tourRepo repository.TourRepository) TourService {
	return &tourService{tourRepo: tourRepo}
}

func slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	return slug
}

func (s *tourService) CreateTour(input TourInput) (*model.Tour, error) {
	tour := &model.Tour{
		Name:          input.Name,
		Slug:          slugify(input.Name),
		Duration:      input.Duration,
		MaxGroupSize:  input.MaxGroupSize,
		Difficulty:    model.TourDifficulty(input.Difficulty),
		Price:         input.Price,
		PriceDiscount: input.PriceDiscount,
		Summary:       input.Summary,
		Description:   input.Description,
		ImageCover:    input.ImageCover,
	}
	for _, d := range input.StartDates {
		tour.StartDates = append(tour.StartDates, model.TourStartDate{StartsAt: d})
	}

	if err := s.tourRepo.Create(tour); err != nil {
		logger.Error("Failed to create tour", err, map[string]interface{}{
			"name": input.Name,
		})
		return nil, err
	}

	logger.Info("Tour created", map[string]interface{}{
		"tour_id": tour.ID,
		"name":    tour.Name,
	})

	return tour, nil
}

func (s *tourService) GetTour(id uint) (*model.Tour, error) {
	tour, err := s.tourRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTourNotFound
		}
		logger.Error("Failed to fetch tour", err, map[string]interface{}{
			"tour_id": id,
		})
		return nil, err
	}
	return tour, nil
}

// parseTourSort maps a client sort key onto the fixed set of sortable
// columns. Anything outside that set, hostile or just misspelled, maps
// to the zero value and the repository leaves the order unspecified.
func parseTourSort(raw string) (repository.TourSort, bool) {
	desc := strings.HasPrefix(raw, "-")
	key := repository.TourSort(strings.TrimPrefix(raw, "-"))
	switch key {
	case repository.TourSortPrice,
		repository.TourSortRatingsAverage,
		repository.TourSortDuration,
		repository.TourSortMaxGroupSize,
		repository.TourSortCreatedAt:
		return key, desc
	}
	return "", false
}

func (s *tourService) ListTours(opts TourListOptions) ([]model.Tour, int64, error) {
	sortBy, sortDesc := parseTourSort(opts.Sort)
	tours, total, err := s.tourRepo.List(repository.TourListOptions{
		Limit:      opts.Limit,
		Offset:     opts.Offset,
		SortBy:     sortBy,
		SortDesc:   sortDesc,
		Difficulty: opts.Difficulty,
	})
	if err != nil {
		logger.Error("Failed to list tours", err, nil)
		return nil, 0, err
	}
	return tours, total, nil
}

func (s *tourService) UpdateTour(id uint, input TourInput) (*model.Tour, error) {
	tour, err := s.tourRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}

	if input.Name != "" {
		tour.Name = input.Name
		tour.Slug = slugify(input.Name)
	}
	if input.Duration > 0 {
		tour.Duration = input.Duration
	}
	if input.MaxGroupSize > 0 {
		tour.MaxGroupSize = input.MaxGroupSize
	}
	if input.Difficulty != "" {
		tour.Difficulty = model.TourDifficulty(input.Difficulty)
	}
	if input.Price > 0 {
		tour.Price = input.Price
	}
	if input.PriceDiscount > 0 {
		tour.PriceDiscount = input.PriceDiscount
	}
	if input.Summary != "" {
		tour.Summary = input.Summary
	}
	if input.Description != "" {
		tour.Description = input.Description
	}
	if input.ImageCover != "" {
		tour.ImageCover = input.ImageCover
	}

	if err := s.tourRepo.Update(tour); err != nil {
		logger.Error("Failed to update tour", err, map[string]interface{}{
			"tour_id": id,
		})
		return nil, err
	}

	logger.Info("Tour updated", map[string]interface{}{
		"tour_id": id,
	})

	return tour, nil
}

func (s *tourService) DeleteTour(id uint) error {
	if err := s.tourRepo.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTourNotFound
		}
		logger.Error("Failed to delete tour", err, map[string]interface{}{
			"tour_id": id,
		})
		return err
	}

	logger.Info("Tour deleted", map[string]interface{}{
		"tour_id": id,
	})

	return nil
}

// TopCheap returns the five best-rated tours ordered by price.
func (s *tourService) TopCheap() ([]model.Tour, error) {
	tours, _, err := s.tourRepo.List(repository.TourListOptions{
		Limit:  5,
		SortBy: repository.TourSortPrice,
	})
	if err != nil {
		logger.Error("Failed to list top cheap tours", err, nil)
		return nil, err
	}
	return tours, nil
}

func (s *tourService) Stats() ([]repository.TourStats, error) {
	stats, err := s.tourRepo.Stats()
	if err != nil {
		logger.Error("Failed to compute tour stats", err, nil)
		return nil, err
	}
	return stats, nil
}

func (s *tourService) MonthlyPlan(year int) ([]repository.MonthlyPlanEntry, error) {
	plan, err := s.tourRepo.MonthlyPlan(year)
	if err != nil {
		logger.Error("Failed to compute monthly plan", err, map[string]interface{}{
			"year": year,
		})
		return nil, err
	}
	return plan, nil
}
