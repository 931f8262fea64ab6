package models

import (
	"time"
)

// Flag content types.
const (
	FlagContentSighting = "sighting"
	FlagContentComment  = "comment"
)

// FlagStatusPending is the status every flag is created with; review state
// transitions are an admin concern outside the public surface.
const FlagStatusPending = "pending"

// SuppressionThreshold is the flag count at which a sighting disappears
// from public listings.
const SuppressionThreshold = 3

// ContentFlag is a moderation report against a comment or sighting.
// Append-only from the public surface.
type ContentFlag struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ContentID       uint      `gorm:"not null;index" json:"content_id"`
	ContentType     string    `gorm:"size:20;not null;index" json:"content_type"`
	FlaggedByUserID uint      `gorm:"not null" json:"flagged_by_user_id"`
	ReasonCode      string    `gorm:"size:50;not null" json:"reason_code"`
	CustomReason    string    `gorm:"size:500" json:"custom_reason,omitempty"`
	Status          string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	ReviewedByAdmin *uint     `json:"reviewed_by_admin_id"`
	CreatedAt       time.Time `json:"created_at"`
}
