package repository

import (
	"github.com/atlastours/atlas-backend/internal/app/model"
	"github.com/atlastours/atlas-backend/pkg/logger"
	"gorm.io/gorm"
)

type TourSort string

const (
	TourSortPrice          TourSort = "price"
	TourSortRatingsAverage TourSort = "ratings_average"
	TourSortDuration       TourSort = "duration"
	TourSortMaxGroupSize   TourSort = "max_group_size"
	TourSortCreatedAt      TourSort = "created_at"
)

// TourListOptions controls list queries
type TourListOptions struct {
	Limit      int
	Offset     int
	SortBy     TourSort
	SortDesc   bool
	Difficulty string
}

// TourStats is the per-difficulty aggregate
type TourStats struct {
	Difficulty model.TourDifficulty `json:"difficulty"`
	NumTours   int64                `json:"num_tours"`
	NumRatings int64                `json:"num_ratings"`
	AvgRating  float64              `json:"avg_rating"`
	AvgPrice   float64              `json:"avg_price"`
	MinPrice   float64              `json:"min_price"`
	MaxPrice   float64              `json:"max_price"`
}

// MonthlyPlanEntry counts tour starts per month of a year
type MonthlyPlanEntry struct {
	Month     int   `json:"month"`
	NumStarts int64 `json:"num_starts"`
}

type TourRepository interface {
	Create(tour *model.Tour) error
	FindByID(id uint) (*model.Tour, error)
	List(opts TourListOptions) ([]model.Tour, int64, error)
	Update(tour *model.Tour) error
	Delete(id uint) error
	Stats() ([]TourStats, error)
	MonthlyPlan(year int) ([]MonthlyPlanEntry, error)
	RefreshRatings(tourID uint) error
}

type tourRepository struct {
	db *gorm.DB
}

func NewTourRepository(db *gorm.DB) TourRepository {
	return &tourRepository{db: db}
}

func (r *tourRepository) Create(tour *model.Tour) error {
	logger.Debug("Creating tour in database", map[string]interface{}{
		"name": tour.Name,
	})

	if err := r.db.Create(tour).Error; err != nil {
		logger.Error("Failed to create tour in database", err, map[string]interface{}{
			"name": tour.Name,
		})
		return err
	}
	return nil
}

func (r *tourRepository) FindByID(id uint) (*model.Tour, error) {
	var tour model.Tour
	err := r.db.Preload("StartDates").Preload("Reviews.User").First(&tour, id).Error
	if err != nil {
		logger.Debug("Failed to find tour by ID in database", map[string]interface{}{
			"tour_id": id,
			"error":   err.Error(),
		})
		return nil, err
	}
	return &tour, nil
}

func (r *tourRepository) List(opts TourListOptions) ([]model.Tour, int64, error) {
	query := r.db.Model(&model.Tour{})

	if opts.Difficulty != "" {
		query = query.Where("difficulty = ?", opts.Difficulty)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count tours in database", err)
		return nil, 0, err
	}

	direction := "ASC"
	if opts.SortDesc {
		direction = "DESC"
	}
	switch opts.SortBy {
	case TourSortPrice:
		query = query.Order("price " + direction)
	case TourSortRatingsAverage:
		query = query.Order("ratings_average " + direction)
	case TourSortDuration:
		query = query.Order("duration " + direction)
	case TourSortMaxGroupSize:
		query = query.Order("max_group_size " + direction)
	case TourSortCreatedAt:
		query = query.Order("created_at " + direction)
	}
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	var tours []model.Tour
	if err := query.Preload("StartDates").Find(&tours).Error; err != nil {
		logger.Error("Failed to list tours from database", err)
		return nil, 0, err
	}
	return tours, total, nil
}

func (r *tourRepository) Update(tour *model.Tour) error {
	logger.Debug("Updating tour in database", map[string]interface{}{
		"tour_id": tour.ID,
	})

	if err := r.db.Save(tour).Error; err != nil {
		logger.Error("Failed to update tour in database", err, map[string]interface{}{
			"tour_id": tour.ID,
		})
		return err
	}
	return nil
}

func (r *tourRepository) Delete(id uint) error {
	result := r.db.Delete(&model.Tour{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete tour from database", result.Error, map[string]interface{}{
			"tour_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *tourRepository) Stats() ([]TourStats, error) {
	var stats []TourStats
	err := r.db.Model(&model.Tour{}).
		Select(`difficulty,
			COUNT(*) AS num_tours,
			SUM(ratings_quantity) AS num_ratings,
			AVG(ratings_average) AS avg_rating,
			AVG(price) AS avg_price,
			MIN(price) AS min_price,
			MAX(price) AS max_price`).
		Group("difficulty").
		Order("avg_price").
		Scan(&stats).Error
	if err != nil {
		logger.Error("Failed to aggregate tour stats from database", err)
		return nil, err
	}
	return stats, nil
}

func (r *tourRepository) MonthlyPlan(year int) ([]MonthlyPlanEntry, error) {
	// Date-part extraction differs between postgres and the sqlite test DB
	monthExpr := "CAST(EXTRACT(MONTH FROM starts_at) AS INTEGER)"
	yearExpr := "CAST(EXTRACT(YEAR FROM starts_at) AS INTEGER)"
	if r.db.Dialector.Name() == "sqlite" {
		monthExpr = "CAST(strftime('%m', starts_at) AS INTEGER)"
		yearExpr = "CAST(strftime('%Y', starts_at) AS INTEGER)"
	}

	var plan []MonthlyPlanEntry
	err := r.db.Model(&model.TourStartDate{}).
		Select(monthExpr + " AS month, COUNT(*) AS num_starts").
		Where(yearExpr+" = ?", year).
		Group(monthExpr).
		Order("num_starts DESC").
		Scan(&plan).Error
	if err != nil {
		logger.Error("Failed to build monthly plan from database", err, map[string]interface{}{
			"year": year,
		})
		return nil, err
	}
	return plan, nil
}

// RefreshRatings recomputes the denormalized ratings average and quantity
// from the tour's reviews
func (r *tourRepository) RefreshRatings(tourID uint) error {
	err := r.db.Model(&model.Tour{}).Where("id = ?", tourID).
		Updates(map[string]interface{}{
			"ratings_quantity": r.db.Model(&model.Review{}).Select("COUNT(*)").Where("tour_id = ?", tourID),
			"ratings_average":  r.db.Model(&model.Review{}).Select("COALESCE(AVG(rating), 4.5)").Where("tour_id = ?", tourID),
		}).Error
	if err != nil {
		logger.Error("Failed to refresh tour ratings in database", err, map[string]interface{}{
			"tour_id": tourID,
		})
		return err
	}
	return nil
}
