package model

import (
	"time"
)

type Review struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	TourID    uint      `gorm:"not null;uniqueIndex:idx_reviews_tour_user" json:"tour_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reviews_tour_user" json:"user_id"`
	Rating    int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Review) TableName() string {
	return "reviews"
}
