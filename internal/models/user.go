package models

import (
	"time"
)

// User is the authentication record: credentials plus the uniqueness
// surface (id, username, email). Profile, badges, and stats hang off it
// as separate 1:1 rows created at registration.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Username     string `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email        string `gorm:"size:100;not null;uniqueIndex" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`

	FailedAttempts int        `gorm:"default:0" json:"-"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`

	// Security question flow; the answer never leaves the server.
	SecurityQuestion string `gorm:"size:255" json:"-"`
	SecurityAnswer   string `gorm:"size:255" json:"-"`
}

// Profile holds user-facing biographical data, distinct from the
// authentication record. The row may be missing for old accounts; readers
// must fall back to placeholder values instead of erroring.
type Profile struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`

	FullName   string     `gorm:"size:120" json:"full_name"`
	AboutMe    string     `gorm:"type:text" json:"about_me"`
	Birthday   *time.Time `json:"birthday,omitempty"`
	Hometown   string     `gorm:"size:120" json:"hometown"`
	ProfilePic string     `gorm:"size:255" json:"profile_pic"`
}

// UserBadges is the fixed set of achievement flags, zeroed at registration.
type UserBadges struct {
	UserID uint `gorm:"primaryKey" json:"user_id"`

	BigfootAmateur bool `gorm:"default:false" json:"bigfoot_amateur"`
	LetsBeFriends  bool `gorm:"default:false" json:"lets_be_friends"`
	EliteHunter    bool `gorm:"default:false" json:"elite_hunter"`
	Socialite      bool `gorm:"default:false" json:"socialite"`
	Diversify      bool `gorm:"default:false" json:"diversify"`
	WellTraveled   bool `gorm:"default:false" json:"well_traveled"`
	Hallucinator   bool `gorm:"default:false" json:"hallucinator"`
	CameraReady    bool `gorm:"default:false" json:"camera_ready"`
	DragonRider    bool `gorm:"default:false" json:"dragon_rider"`
}

// UserStats is the fixed set of aggregate counters, zeroed at registration.
type UserStats struct {
	UserID uint `gorm:"primaryKey" json:"user_id"`

	UniqueCreatureCount int     `gorm:"default:0" json:"unique_creature_count"`
	TotalSightingsCount int     `gorm:"default:0" json:"total_sightings_count"`
	BigfootCount        int     `gorm:"default:0" json:"bigfoot_count"`
	DragonCount         int     `gorm:"default:0" json:"dragon_count"`
	GhostCount          int     `gorm:"default:0" json:"ghost_count"`
	AlienCount          int     `gorm:"default:0" json:"alien_count"`
	VampireCount        int     `gorm:"default:0" json:"vampire_count"`
	TotalFriends        int     `gorm:"default:0" json:"total_friends"`
	CommentsCount       int     `gorm:"default:0" json:"comments_count"`
	LikeCount           int     `gorm:"default:0" json:"like_count"`
	PicturesCount       int     `gorm:"default:0" json:"pictures_count"`
	LocationsCount      int     `gorm:"default:0" json:"locations_count"`
	UserAvgRating       float64 `gorm:"default:0" json:"user_avg_rating"`
}

// Friendship is a directed edge; presence means "friended". Befriending is
// not symmetric and edges are toggled, never versioned.
type Friendship struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_friend_edge" json:"user_id"`
	FriendID  uint      `gorm:"not null;uniqueIndex:idx_friend_edge" json:"friend_id"`
	CreatedAt time.Time `json:"created_at"`
}
