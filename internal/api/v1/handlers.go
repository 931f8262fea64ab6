// Package v1 holds the HTTP handlers. Handlers parse and validate input,
// call into the repository layer, and shape responses; no business rules
// live here.
package v1

import (
	"cryptidwatch/internal/repository"
	"cryptidwatch/internal/storage"
	"cryptidwatch/pkg/logger"
	rdb "cryptidwatch/pkg/redis"
	"cryptidwatch/pkg/utils"
)

// Handlers bundles every dependency the route handlers need.
type Handlers struct {
	Accounts  *repository.AccountRepo
	Profiles  *repository.ProfileRepo
	Friends   *repository.FriendRepo
	Discuss   *repository.DiscussRepo
	Flags     *repository.FlagRepo
	Sightings *repository.SightingRepo
	Ratings   *repository.RatingRepo

	Presigner storage.Presigner
	Objects   *storage.ObjectStore
	Cache     *rdb.RedisClient
	Validate  *utils.Validator
	Log       *logger.Logger
}
