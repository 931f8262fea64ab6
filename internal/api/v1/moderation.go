package v1

import (
	"github.com/gofiber/fiber/v2"

	"cryptidwatch/internal/auth"
	"cryptidwatch/internal/repository"
	"cryptidwatch/pkg/utils"
)

type flagRequest struct {
	ContentID    uint   `json:"content_id" validate:"required"`
	ContentType  string `json:"content_type" validate:"required,oneof=sighting comment"`
	ReasonCode   string `json:"reason_code" validate:"required,max=50"`
	CustomReason string `json:"custom_reason" validate:"omitempty,max=500"`
}

// CreateFlag records a moderation flag. The flagger is the token holder,
// never a body field.
func (h *Handlers) CreateFlag(c *fiber.Ctx) error {
	uid, err := auth.CurrentUserID(c)
	if err != nil {
		return utils.HandleError(c, err)
	}

	var req flagRequest
	if err := utils.StrictBodyParser(c, &req); err != nil {
		return utils.HandleError(c, utils.ValidationError("Invalid request body", err.Error()))
	}
	if errs := h.Validate.Validate(&req); errs != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errs)
	}

	flag, err := h.Flags.Create(c.UserContext(), repository.FlagInput{
		ContentID:    req.ContentID,
		ContentType:  req.ContentType,
		FlaggedBy:    uid,
		ReasonCode:   req.ReasonCode,
		CustomReason: req.CustomReason,
	})
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(flag)
}

// ListFlags returns every flag, newest first.
func (h *Handlers) ListFlags(c *fiber.Ctx) error {
	flags, err := h.Flags.List(c.UserContext())
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.JSON(fiber.Map{"flags": flags})
}
