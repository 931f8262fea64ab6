package v1

import (
	"github.com/gofiber/fiber/v2"

	"cryptidwatch/internal/auth"
	"cryptidwatch/pkg/utils"
)

// GetRating returns the caller's rating of a sighting, null when unrated.
func (h *Handlers) GetRating(c *fiber.Ctx) error {
	uid, err := auth.CurrentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	sightingID, err := paramID(c, "sighting_id")
	if err != nil {
		return utils.HandleError(c, err)
	}

	rating, err := h.Ratings.Get(c.UserContext(), sightingID, uid)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"rating": rating})
}

type ratingRequest struct {
	Rating int `json:"rating" validate:"required,gte=1,lte=5"`
}

// SubmitRating upserts the caller's 1-5 rating of a sighting.
func (h *Handlers) SubmitRating(c *fiber.Ctx) error {
	uid, err := auth.CurrentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	sightingID, err := paramID(c, "sighting_id")
	if err != nil {
		return utils.HandleError(c, err)
	}

	var req ratingRequest
	if err := utils.StrictBodyParser(c, &req); err != nil {
		return utils.HandleError(c, utils.ValidationError("Invalid request body", err.Error()))
	}
	if errs := h.Validate.Validate(&req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errs)
	}

	rating, err := h.Ratings.Upsert(c.UserContext(), sightingID, uid, req.Rating)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(rating)
}
