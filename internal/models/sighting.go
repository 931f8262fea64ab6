package models

import (
	"time"
)

// Sighting is a user-submitted creature observation report. Immutable
// after ingestion; coordinates are stored as plain columns and turned into
// GeoJSON geometry at the API layer.
type Sighting struct {
	ID        uint      `gorm:"primaryKey" json:"sighting_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`

	CreatureID   int       `gorm:"not null;index" json:"creature_id"`
	LocationName string    `gorm:"size:200;not null" json:"location_name"`
	Description  string    `gorm:"type:text" json:"description"`
	HeightInch   float64   `json:"height_inch"`
	WeightLb     *float64  `json:"weight_lb,omitempty"`
	SightingDate time.Time `json:"sighting_date"`

	Latitude  float64 `gorm:"not null" json:"latitude"`
	Longitude float64 `gorm:"not null" json:"longitude"`

	Images []SightingImage `gorm:"foreignKey:SightingID" json:"images,omitempty"`
}

// SightingImage is one opaque object-storage key attached to a sighting.
// Position preserves submission order.
type SightingImage struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	SightingID uint   `gorm:"not null;index" json:"sighting_id"`
	ObjectKey  string `gorm:"size:255;not null" json:"object_key"`
	Position   int    `gorm:"not null;default:0" json:"position"`
}

// Comment attaches discussion to a sighting. No edit or delete surface.
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"comment_id"`
	SightingID uint      `gorm:"not null;index" json:"sighting_id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	Body       string    `gorm:"type:text;not null" json:"comment"`
	CreatedAt  time.Time `json:"created_at"`
}

// VoteRecord holds the cumulative up/down counts one user has cast on one
// sighting. The unique index is what makes voting idempotent: the vote
// write is a single conditional upsert against this key, so two concurrent
// requests from the same user cannot both land.
type VoteRecord struct {
	ID         uint `gorm:"primaryKey" json:"-"`
	SightingID uint `gorm:"not null;uniqueIndex:idx_vote_user_sighting" json:"sighting_id"`
	UserID     uint `gorm:"not null;uniqueIndex:idx_vote_user_sighting" json:"user_id"`

	UpvoteCount   int `gorm:"not null;default:0" json:"upvote_count"`
	DownvoteCount int `gorm:"not null;default:0" json:"downvote_count"`
}

// Rating is one user's 1-5 rating of a sighting, upserted on resubmission.
type Rating struct {
	ID         uint      `gorm:"primaryKey" json:"-"`
	SightingID uint      `gorm:"not null;uniqueIndex:idx_rating_user_sighting" json:"sighting_id"`
	UserID     uint      `gorm:"not null;uniqueIndex:idx_rating_user_sighting" json:"user_id"`
	Value      int       `gorm:"not null" json:"rating"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"-"`
}
