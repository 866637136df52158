package model

import (
	"time"

	"gorm.io/gorm"
)

type TourDifficulty string

const (
	DifficultyEasy      TourDifficulty = "easy"
	DifficultyMedium    TourDifficulty = "medium"
	DifficultyDifficult TourDifficulty = "difficult"
)

type Tour struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	Name            string         `gorm:"uniqueIndex;not null" json:"name"`
	Slug            string         `gorm:"uniqueIndex" json:"slug"`
	Duration        int            `gorm:"not null" json:"duration"` // days
	MaxGroupSize    int            `gorm:"not null" json:"max_group_size"`
	Difficulty      TourDifficulty `gorm:"type:varchar(20);not null" json:"difficulty"`
	Price           float64        `gorm:"not null" json:"price"`
	PriceDiscount   float64        `json:"price_discount,omitempty"`
	Summary         string         `gorm:"not null" json:"summary"`
	Description     string         `gorm:"type:text" json:"description"`
	ImageCover      string         `json:"image_cover"`
	RatingsAverage  float64        `gorm:"default:4.5" json:"ratings_average"`
	RatingsQuantity int            `gorm:"default:0" json:"ratings_quantity"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	StartDates []TourStartDate `gorm:"foreignKey:TourID" json:"start_dates,omitempty"`
	Reviews    []Review        `gorm:"foreignKey:TourID" json:"reviews,omitempty"`
}

func (Tour) TableName() string {
	return "tours"
}

type TourStartDate struct {
	ID       uint      `gorm:"primarykey" json:"id"`
	TourID   uint      `gorm:"index;not null" json:"tour_id"`
	StartsAt time.Time `gorm:"not null" json:"starts_at"`
}

func (TourStartDate) TableName() string {
	return "tour_start_dates"
}
