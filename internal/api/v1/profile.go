package v1

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"cryptidwatch/internal/auth"
	"cryptidwatch/internal/repository"
	"cryptidwatch/pkg/utils"
)

// PublicProfile returns the public view of any user: identity subset,
// badges, stats, and their sightings newest first. Only a missing user
// row is a 404; missing satellite rows degrade to defaults.
func (h *Handlers) PublicProfile(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return utils.HandleError(c, err)
	}

	profile, err := h.Profiles.Public(c.UserContext(), id)
	if err != nil {
		return utils.HandleError(c, err)
	}
	sightings, err := h.Sightings.ListByUser(c.UserContext(), id)
	if err != nil {
		return utils.HandleError(c, err)
	}

	return c.JSON(fiber.Map{
		"profile":   profile,
		"sightings": sightings,
	})
}

// MyBadges returns the caller's badge flags.
func (h *Handlers) MyBadges(c *fiber.Ctx) error {
	uid, err := auth.CurrentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	profile, err := h.Profiles.Public(c.UserContext(), uid)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(profile.Badges)
}

// MyStats returns the caller's aggregate counters.
func (h *Handlers) MyStats(c *fiber.Ctx) error {
	uid, err := auth.CurrentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}
	profile, err := h.Profiles.Public(c.UserContext(), uid)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(profile.Stats)
}

type updateProfileRequest struct {
	FullName   string `json:"full_name" validate:"omitempty,max=120"`
	AboutMe    string `json:"about_me" validate:"omitempty,max=2000"`
	Birthday   string `json:"birthday" validate:"omitempty"`
	Hometown   string `json:"hometown" validate:"omitempty,max=120"`
	ProfilePic string `json:"profile_pic" validate:"omitempty,max=255"`
}

// UpdateProfile writes the caller's profile row, creating it if absent.
func (h *Handlers) UpdateProfile(c *fiber.Ctx) error {
	uid, err := auth.CurrentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}

	var req updateProfileRequest
	if err := utils.StrictBodyParser(c, &req); err != nil {
		return utils.HandleError(c, utils.ValidationError("Invalid request body", err.Error()))
	}
	if errs := h.Validate.Validate(&req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errs)
	}

	in := repository.UpdateProfileInput{
		FullName:   req.FullName,
		AboutMe:    req.AboutMe,
		Hometown:   req.Hometown,
		ProfilePic: req.ProfilePic,
	}
	if req.Birthday != "" {
		birthday, err := time.Parse("2006-01-02", req.Birthday)
		if err != nil {
			return utils.HandleError(c, utils.ValidationError("Birthday must be in YYYY-MM-DD format"))
		}
		in.Birthday = &birthday
	}

	if err := h.Profiles.Upsert(c.UserContext(), uid, in); err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Profile updated"})
}
