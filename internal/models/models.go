package models

// RegisterModels lists every entity for AutoMigrate.
func RegisterModels() []interface{} {
	return []interface{}{
		&User{},
		&Profile{},
		&UserBadges{},
		&UserStats{},
		&Friendship{},
		&Sighting{},
		&SightingImage{},
		&Comment{},
		&VoteRecord{},
		&Rating{},
		&ContentFlag{},
	}
}
