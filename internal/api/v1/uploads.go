package v1

import (
	"github.com/gofiber/fiber/v2"

	"cryptidwatch/internal/auth"
	"cryptidwatch/pkg/utils"
)

const maxUploadBytes = 10 << 20

// Upload accepts one multipart image and stores it in the object store.
// The returned key is what a sighting report references.
func (h *Handlers) Upload(c *fiber.Ctx) error {
	if _, err := auth.CurrentUserID(c); err != nil {
		return utils.HandleError(c, err)
	}
	if h.Objects == nil {
		return utils.HandleError(c, utils.DependencyError("Object storage is not configured"))
	}

	header, err := c.FormFile("image")
	if err != nil {
		return utils.HandleError(c, utils.ValidationError("Missing image file"))
	}
	if header.Size > maxUploadBytes {
		return utils.HandleError(c, utils.ValidationError("Image exceeds the 10 MB limit"))
	}

	file, err := header.Open()
	if err != nil {
		return utils.HandleError(c, utils.InternalError("Failed to read upload").WithCause(err))
	}
	defer file.Close()

	key, err := h.Objects.Upload(c.UserContext(), header.Filename, header.Size, file)
	if err != nil {
		return utils.HandleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"object_key": key})
}
