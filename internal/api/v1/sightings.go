package v1

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"cryptidwatch/internal/auth"
	"cryptidwatch/internal/models"
	"cryptidwatch/internal/repository"
	"cryptidwatch/internal/storage"
	"cryptidwatch/pkg/utils"
)

// ListSightings returns every visible sighting as a GeoJSON
// FeatureCollection.
func (h *Handlers) ListSightings(c *fiber.Ctx) error {
	sightings, err := h.Sightings.ListVisible(c.UserContext())
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(featureCollection(sightings))
}

// featureCollection turns sightings into GeoJSON features, point geometry
// from the stored coordinates.
func featureCollection(sightings []models.Sighting) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, s := range sightings {
		f := geojson.NewFeature(orb.Point{s.Longitude, s.Latitude})
		f.ID = s.ID
		f.Properties = geojson.Properties{
			"sighting_id":   s.ID,
			"user_id":       s.UserID,
			"creature_id":   s.CreatureID,
			"creature_name": models.CreatureName(s.CreatureID),
			"location_name": s.LocationName,
			"sighting_date": s.SightingDate.Format("2006-01-02"),
			"season":        models.SeasonOf(s.SightingDate),
		}
		fc.Append(f)
	}
	return fc
}

// GetSighting returns one sighting with presigned photo URLs and its
// average rating.
func (h *Handlers) GetSighting(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.HandleError(c, err)
	}

	sighting, err := h.Sightings.Get(c.UserContext(), id)
	if err != nil {
		return utils.HandleError(c, err)
	}

	keys := make([]string, 0, len(sighting.Images))
	for _, img := range sighting.Images {
		keys = append(keys, img.ObjectKey)
	}
	urls, err := storage.PresignAll(c.UserContext(), h.Presigner, keys)
	if err != nil {
		return utils.HandleError(c, err)
	}

	avg, count, err := h.Ratings.AverageForSighting(c.UserContext(), id)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return c.JSON(fiber.Map{
		"sighting":       sighting,
		"creature_name":  models.CreatureName(sighting.CreatureID),
		"photo_urls":     urls,
		"average_rating": avg,
		"rating_count":   count,
	})
}

type reportRequest struct {
	CreatureID   int      `json:"creature_id" validate:"required,creature"`
	LocationName string   `json:"location_name" validate:"required,max=200"`
	Description  string   `json:"description" validate:"omitempty,max=5000"`
	HeightInch   float64  `json:"height_inch" validate:"omitempty,gte=0"`
	WeightLb     *float64 `json:"weight_lb" validate:"omitempty"`
	SightingDate string   `json:"sighting_date" validate:"required"`
	Latitude     float64  `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude    float64  `json:"longitude" validate:"gte=-180,lte=180"`
	ImageKeys    []string `json:"image_keys" validate:"omitempty,max=10,dive,max=255"`
}

// SubmitReport ingests a new sighting report.
func (h *Handlers) SubmitReport(c *fiber.Ctx) error {
	uid, err := auth.CurrentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}

	var req reportRequest
	if err := utils.StrictBodyParser(c, &req); err != nil {
		return utils.HandleError(c, utils.ValidationError("Invalid request body", err.Error()))
	}
	if errs := h.Validate.Validate(&req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errs)
	}
	if req.WeightLb != nil && *req.WeightLb < 0 {
		return utils.HandleError(c, utils.ValidationError("Weight cannot be negative"))
	}

	sightingDate, err := time.Parse("2006-01-02", req.SightingDate)
	if err != nil {
		return utils.HandleError(c, utils.ValidationError("Sighting date must be in YYYY-MM-DD format"))
	}

	sighting, err := h.Sightings.Create(c.UserContext(), repository.CreateSightingInput{
		UserID:       uid,
		CreatureID:   req.CreatureID,
		LocationName: req.LocationName,
		Description:  req.Description,
		HeightInch:   req.HeightInch,
		WeightLb:     req.WeightLb,
		SightingDate: sightingDate,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		ImageKeys:    req.ImageKeys,
	})
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sighting)
}

// FilterByCreature returns visible sightings of one creature, optionally
// narrowed to a season bucket, as GeoJSON.
func (h *Handlers) FilterByCreature(c *fiber.Ctx) error {
	creatureID, err := strconv.Atoi(c.Query("creature_id"))
	if err != nil || !models.ValidCreatureID(creatureID) {
		return utils.HandleError(c, utils.ValidationError("creature_id must be a known creature id"))
	}

	season := c.Query("season")
	if season != "" && !models.ValidSeason(season) {
		return utils.HandleError(c, utils.ValidationError("season must be spring, summer, fall, or winter"))
	}

	var sightings []models.Sighting
	if season == "" {
		all, err := h.Sightings.ListVisible(c.UserContext())
		if err != nil {
			return utils.HandleError(c, err)
		}
		for _, s := range all {
			if s.CreatureID == creatureID {
				sightings = append(sightings, s)
			}
		}
	} else {
		sightings, err = h.Sightings.FilterByCreatureSeason(c.UserContext(), creatureID, season)
		if err != nil {
			return utils.HandleError(c, err)
		}
	}

	return c.JSON(featureCollection(sightings))
}

// CreatureAverages serves the lore page numbers: how big this creature
// tends to be across all reports.
func (h *Handlers) CreatureAverages(c *fiber.Ctx) error {
	name := c.Params("name")
	creatureID, ok := models.CreatureIDByName(name)
	if !ok {
		return utils.HandleError(c, utils.ValidationError("Unknown creature: "+name))
	}

	avgs, err := h.Sightings.Averages(c.UserContext(), creatureID)
	if err != nil {
		return utils.HandleError(c, err)
	}

	resp := fiber.Map{
		"creature_id":    avgs.CreatureID,
		"creature_name":  avgs.CreatureName,
		"sighting_count": avgs.SightingCount,
	}
	if avgs.SightingCount > 0 {
		resp["average_height"] = fmt.Sprintf("%.1f feet", avgs.AvgHeightInch/12)
		if avgs.AvgWeightLb != nil {
			resp["average_weight"] = fmt.Sprintf("%.1f lbs", *avgs.AvgWeightLb)
		}
	}
	return c.JSON(resp)
}
